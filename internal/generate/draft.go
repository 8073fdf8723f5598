package generate

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/slug"
	"github.com/M-U-C-K-A/blog/internal/synth"
)

// AuthorDraft is an author before it is persisted. Slug may be empty, in
// which case it is derived from Name. Media references are filled in by the
// AuthorGenerator.
type AuthorDraft struct {
	Name         string
	Slug         string
	Title        string
	Affiliation  string
	Bio          string
	Expertise    []string
	Email        *string
	Twitter      *string
	LinkedIn     *string
	ORCID        *string
	ResearchGate *string
	Citations    int
	HIndex       int
	Education    []database.NewEducation
}

// ArticleDraft is an article before it is linked and persisted.
type ArticleDraft struct {
	Title       string
	Slug        string
	Description string
	Content     string
	PublishedAt time.Time
	ReadTime    string
	Featured    bool
	Views       int
	Citations   int
}

// Drafter synthesizes author and article drafts from a seeded source and a
// vocabulary. It is not safe for concurrent use.
type Drafter struct {
	rng   *rand.Rand
	text  *synth.Text
	vocab synth.Vocabulary
	now   time.Time
}

// NewDrafter returns a drafter. now anchors publication dates.
func NewDrafter(rng *rand.Rand, vocab synth.Vocabulary, now time.Time) *Drafter {
	return &Drafter{rng: rng, text: synth.NewText(rng), vocab: vocab, now: now}
}

// Author synthesizes a plausible researcher profile.
func (d *Drafter) Author() AuthorDraft {
	first, last := d.text.FirstName(), d.text.LastName()
	email := fmt.Sprintf("%s.%s@univ.fr", slug.Make(first), slug.Make(last))

	education := make([]database.NewEducation, 1+d.rng.IntN(3))
	for i := range education {
		education[i] = database.NewEducation{
			Degree:      d.pick(d.vocab.Degrees),
			Institution: d.pick(d.vocab.Universities),
			Year:        fmt.Sprint(1990 + d.rng.IntN(31)),
		}
	}

	return AuthorDraft{
		Name:        first + " " + last,
		Title:       d.pick(d.vocab.Titles),
		Affiliation: d.pick(d.vocab.Universities),
		Bio:         d.text.Paragraph(5),
		Expertise:   d.sample(d.vocab.Domains, 3),
		Email:       &email,
		Citations:   10 + d.rng.IntN(4991),
		HIndex:      1 + d.rng.IntN(50),
		Education:   education,
	}
}

// Article synthesizes an article with generated long-form content.
func (d *Drafter) Article() ArticleDraft {
	title := strings.ReplaceAll(d.text.Sentence(8), ".", "")
	window := d.now.Sub(d.now.AddDate(-3, 0, 0))

	return ArticleDraft{
		Title:       title,
		Slug:        slug.Make(title),
		Description: d.text.Paragraph(2),
		Content:     d.Content(),
		PublishedAt: d.now.Add(-time.Duration(d.rng.Int64N(int64(window)))).Truncate(time.Second),
		ReadTime:    fmt.Sprintf("%d min", 10+d.rng.IntN(36)),
		Featured:    d.rng.IntN(2) == 0,
		Views:       50 + d.rng.IntN(9951),
		Citations:   d.rng.IntN(501),
	}
}

func (d *Drafter) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[d.rng.IntN(len(items))]
}

func (d *Drafter) sample(items []string, k int) []string {
	k = min(k, len(items))
	out := make([]string, 0, k)
	for _, i := range d.rng.Perm(len(items))[:k] {
		out = append(out, items[i])
	}
	return out
}
