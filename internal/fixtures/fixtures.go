package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/generate"
	"github.com/M-U-C-K-A/blog/internal/slug"
)

// Set is a loaded collection of authors and articles.
type Set struct {
	Authors  []Author
	Articles []Article
}

// Author is the on-disk shape of an author. Contact details and stats may be
// nested under "contact"/"stats" or given flat; nested values win.
type Author struct {
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Affiliation string      `json:"affiliation"`
	Bio         string      `json:"bio"`
	Expertise   []string    `json:"expertise"`
	Education   []Education `json:"education"`

	Contact *Contact `json:"contact"`
	Stats   *Stats   `json:"stats"`

	Email         *string `json:"email"`
	Twitter       *string `json:"twitter"`
	LinkedIn      *string `json:"linkedin"`
	ORCID         *string `json:"orcid"`
	ResearchGate  *string `json:"researchgate"`
	ArticlesCount *int    `json:"articlesCount"`
	Citations     *int    `json:"citations"`
	HIndex        *int    `json:"hIndex"`
}

type Contact struct {
	Email        *string `json:"email"`
	Twitter      *string `json:"twitter"`
	LinkedIn     *string `json:"linkedin"`
	ORCID        *string `json:"orcid"`
	ResearchGate *string `json:"researchgate"`
}

type Stats struct {
	Articles  *int `json:"articles"`
	Citations *int `json:"citations"`
	HIndex    *int `json:"hIndex"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        Year   `json:"year"`
}

// Year accepts either a JSON string or number.
type Year string

func (y *Year) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("year must be a string or number, got %s", b)
	}
	*y = Year(n.String())
	return nil
}

// Ref names a linked entity by display name and slug.
type Ref struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Article is the on-disk shape of an article. Content is Markdown; raw HTML
// is passed through.
type Article struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	PublishedAt string   `json:"publishedAt"`
	ReadTime    string   `json:"readTime"`
	Featured    bool     `json:"featured"`
	Views       int      `json:"views"`
	Citations   int      `json:"citations"`
	Category    Ref      `json:"category"`
	Author      Ref      `json:"author"`
	Tags        []string `json:"tags"`
}

// Load reads the authors and articles documents. Each may be either an
// object with an "authors"/"articles" array or a bare array.
func Load(authorsPath, articlesPath string) (*Set, error) {
	var set Set
	if err := readList(authorsPath, "authors", &set.Authors); err != nil {
		return nil, err
	}
	if err := readList(articlesPath, "articles", &set.Articles); err != nil {
		return nil, err
	}
	return &set, nil
}

func readList[T any](path, key string, out *[]T) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		return nil
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	raw, ok := doc[key]
	if !ok {
		return fmt.Errorf("parsing %s: missing %q array", path, key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Merge appends extra after base, dropping entries whose effective slug
// already appeared. Earlier entries win. Entries without a usable slug are
// kept and left for the generators to reject.
func Merge(base, extra Set) Set {
	return Set{
		Authors:  dedupe(append(append([]Author{}, base.Authors...), extra.Authors...), Author.effectiveSlug),
		Articles: dedupe(append(append([]Article{}, base.Articles...), extra.Articles...), Article.effectiveSlug),
	}
}

func dedupe[T any](items []T, key func(T) string) []T {
	var out []T
	seen := map[string]bool{}
	for _, it := range items {
		k := key(it)
		if k != "" {
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		out = append(out, it)
	}
	return out
}

func (a Author) effectiveSlug() string {
	if a.Slug != "" {
		return a.Slug
	}
	return slug.Make(a.Name)
}

func (a Article) effectiveSlug() string {
	if a.Slug != "" {
		return a.Slug
	}
	return slug.Make(a.Title)
}

// Draft converts the author into a generator draft. stats.articles is not
// carried over: the count is maintained from the articles actually created.
func (a Author) Draft() generate.AuthorDraft {
	var c Contact
	if a.Contact != nil {
		c = *a.Contact
	}
	var s Stats
	if a.Stats != nil {
		s = *a.Stats
	}

	education := make([]database.NewEducation, 0, len(a.Education))
	for _, e := range a.Education {
		education = append(education, database.NewEducation{
			Degree:      e.Degree,
			Institution: e.Institution,
			Year:        string(e.Year),
		})
	}

	return generate.AuthorDraft{
		Name:         a.Name,
		Slug:         a.Slug,
		Title:        a.Title,
		Affiliation:  a.Affiliation,
		Bio:          a.Bio,
		Expertise:    a.Expertise,
		Email:        first(c.Email, a.Email),
		Twitter:      first(c.Twitter, a.Twitter),
		LinkedIn:     first(c.LinkedIn, a.LinkedIn),
		ORCID:        first(c.ORCID, a.ORCID),
		ResearchGate: first(c.ResearchGate, a.ResearchGate),
		Citations:    deref(first(s.Citations, a.Citations)),
		HIndex:       deref(first(s.HIndex, a.HIndex)),
		Education:    education,
	}
}

// Draft converts the article into a generator draft, rendering its content
// to HTML.
func (a Article) Draft(md goldmark.Markdown) (generate.ArticleDraft, error) {
	published, err := ParseDate(a.PublishedAt)
	if err != nil {
		return generate.ArticleDraft{}, fmt.Errorf("article %s: %w", a.Slug, err)
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(a.Content), &buf); err != nil {
		return generate.ArticleDraft{}, fmt.Errorf("article %s: rendering content: %w", a.Slug, err)
	}
	return generate.ArticleDraft{
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Content:     strings.TrimSpace(buf.String()),
		PublishedAt: published,
		ReadTime:    a.ReadTime,
		Featured:    a.Featured,
		Views:       a.Views,
		Citations:   a.Citations,
	}, nil
}

// NewMarkdown returns the renderer used for fixture content.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid publishedAt %q", s)
	}
	return t, nil
}

func first[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
