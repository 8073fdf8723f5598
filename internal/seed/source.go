package seed

import (
	"context"
	"fmt"

	"github.com/M-U-C-K-A/blog/internal/fixtures"
	"github.com/M-U-C-K-A/blog/internal/generate"
	"github.com/M-U-C-K-A/blog/internal/slug"
	"github.com/M-U-C-K-A/blog/internal/synth"
)

// Plan is everything a source wants seeded, before any of it is stored.
type Plan struct {
	Categories []CategoryRef
	Tags       []string
	Authors    []generate.AuthorDraft
	Articles   []ArticlePlan
}

// CategoryRef names a category to ensure.
type CategoryRef struct {
	Name string
	Slug string
}

// ArticlePlan is one article to create. Empty AuthorSlug or CategorySlug
// means "pick one at random from the pool"; nil Tags means "sample up to
// three from the pool". Err is set when the source could not build the
// draft; such plans are counted as skipped.
type ArticlePlan struct {
	Draft        generate.ArticleDraft
	AuthorSlug   string
	CategorySlug string
	Tags         []string
	Err          error
}

// Source produces the plan for one run.
type Source interface {
	Name() string
	Plan(ctx context.Context) (*Plan, error)
}

// Synthetic generates everything procedurally.
type Synthetic struct {
	drafter  *generate.Drafter
	vocab    synth.Vocabulary
	authors  int
	articles int
}

// NewSynthetic returns a source planning the given numbers of authors and
// articles. Categories are the vocabulary's article types; tags are its tags.
func NewSynthetic(drafter *generate.Drafter, vocab synth.Vocabulary, authors, articles int) *Synthetic {
	return &Synthetic{drafter: drafter, vocab: vocab, authors: authors, articles: articles}
}

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Plan(_ context.Context) (*Plan, error) {
	p := &Plan{Tags: append([]string(nil), s.vocab.Tags...)}
	for _, name := range s.vocab.ArticleTypes {
		p.Categories = append(p.Categories, CategoryRef{Name: name, Slug: slug.Make(name)})
	}
	for range s.authors {
		p.Authors = append(p.Authors, s.drafter.Author())
	}
	for range s.articles {
		p.Articles = append(p.Articles, ArticlePlan{Draft: s.drafter.Article()})
	}
	return p, nil
}

// Fixture loads authors and articles from JSON documents, optionally
// merged with the built-in supplementary entries.
type Fixture struct {
	authorsPath   string
	articlesPath  string
	supplementary bool
}

// NewFixture returns a file-backed source.
func NewFixture(authorsPath, articlesPath string, supplementary bool) *Fixture {
	return &Fixture{authorsPath: authorsPath, articlesPath: articlesPath, supplementary: supplementary}
}

func (f *Fixture) Name() string { return "fixture" }

func (f *Fixture) Plan(_ context.Context) (*Plan, error) {
	loaded, err := fixtures.Load(f.authorsPath, f.articlesPath)
	if err != nil {
		return nil, err
	}
	set := *loaded
	if f.supplementary {
		set = fixtures.Merge(set, fixtures.Supplementary())
	}
	return planFromSet(set), nil
}

func planFromSet(set fixtures.Set) *Plan {
	p := &Plan{}
	for _, a := range set.Authors {
		p.Authors = append(p.Authors, a.Draft())
	}

	seenCat := map[string]bool{}
	seenTag := map[string]bool{}
	md := fixtures.NewMarkdown()
	for _, a := range set.Articles {
		cs := a.Category.Slug
		if cs == "" {
			cs = slug.Make(a.Category.Name)
		}
		if cs != "" && !seenCat[cs] {
			seenCat[cs] = true
			p.Categories = append(p.Categories, CategoryRef{Name: a.Category.Name, Slug: cs})
		}
		for _, t := range a.Tags {
			if !seenTag[t] {
				seenTag[t] = true
				p.Tags = append(p.Tags, t)
			}
		}

		as := a.Author.Slug
		if as == "" {
			as = slug.Make(a.Author.Name)
		}
		draft, err := a.Draft(md)
		if err == nil && (as == "" || cs == "") {
			err = fmt.Errorf("%w: article %s names no author or category", ErrMissingDependency, a.Slug)
		}
		p.Articles = append(p.Articles, ArticlePlan{
			Draft:        draft,
			AuthorSlug:   as,
			CategorySlug: cs,
			Tags:         append([]string{}, a.Tags...),
			Err:          err,
		})
	}
	return p
}
