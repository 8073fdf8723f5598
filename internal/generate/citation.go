package generate

import (
	"fmt"
	"html"
	"strings"
)

// Citation is a synthesized bibliographic reference.
type Citation struct {
	Authors []string
	Year    int
	Title   string
	Journal string
	Volume  int
	Pages   string
	DOI     string
}

// String formats the citation as plain text:
// Authors (Year). "Title". Journal, Volume, Pages. DOI: doi
func (c Citation) String() string {
	return fmt.Sprintf(`%s (%d). "%s". %s, %d, %s. DOI: %s`,
		strings.Join(c.Authors, ", "), c.Year, c.Title, c.Journal, c.Volume, c.Pages, c.DOI)
}

// URL is the resolver link for the DOI.
func (c Citation) URL() string {
	return "https://doi.org/" + c.DOI
}

// HTML formats the citation for the reference list, with the journal in
// italics and the DOI as a link.
func (c Citation) HTML() string {
	esc := html.EscapeString
	return fmt.Sprintf(`%s (%d). "%s". <em>%s</em>, %d, %s. DOI: <a href="%s" class="text-primary hover:underline">%s</a>`,
		esc(strings.Join(c.Authors, ", ")), c.Year, esc(c.Title), esc(c.Journal),
		c.Volume, c.Pages, esc(c.URL()), esc(c.DOI))
}

// Citation synthesizes one reference.
func (d *Drafter) Citation() Citation {
	authors := make([]string, 1+d.rng.IntN(4))
	for i := range authors {
		authors[i] = d.text.Name()
	}
	return Citation{
		Authors: authors,
		Year:    2020 + d.rng.IntN(6),
		Title:   strings.TrimRight(d.text.Sentence(8), "."),
		Journal: d.pick(d.vocab.Journals),
		Volume:  1 + d.rng.IntN(50),
		Pages:   fmt.Sprintf("%d-%d", 1+d.rng.IntN(999), 1000+d.rng.IntN(1000)),
		DOI:     fmt.Sprintf("10.%d/%s", 1000+d.rng.IntN(9000), d.text.Slug()),
	}
}
