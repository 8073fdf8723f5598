package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/generate"
	"github.com/M-U-C-K-A/blog/internal/logger"
)

// ErrMissingDependency marks an article skipped because its author,
// category or tags are not in the pools.
var ErrMissingDependency = errors.New("missing dependency")

// Store is everything the seeder writes through.
type Store interface {
	ReferenceStore
	generate.AuthorStore
	generate.ArticleStore
	CreateComponent(ctx context.Context, articleID, kind, data string) (*database.Component, error)
	DeleteAll(ctx context.Context) (*database.ResetResult, error)
}

// Media fetches author assets and can wipe them on reset.
type Media interface {
	generate.MediaFetcher
	Clear(ctx context.Context) error
}

// Options gates the optional parts of a run.
type Options struct {
	Reset      bool
	Components bool
}

// StepResult holds the result of a single seeding step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Report holds the results of a full run.
type Report struct {
	Source            string
	Steps             []StepResult
	Categories        int
	Tags              int
	AuthorsCreated    int
	AuthorsSkipped    int
	ArticlesCreated   int
	ArticlesSkipped   int
	ComponentsCreated int
}

// Seeder runs Reset, ReferenceData, Authors, Articles and Done in order.
// Store mutations are strictly sequential.
type Seeder struct {
	store    Store
	media    Media
	source   Source
	rng      *rand.Rand
	opts     Options
	log      *logger.Logger
	authors  *generate.AuthorGenerator
	articles *generate.ArticleGenerator
}

// New creates a seeder. rng drives random author/category/tag picks.
func New(store Store, media Media, source Source, rng *rand.Rand, opts Options, log *logger.Logger) *Seeder {
	return &Seeder{
		store:    store,
		media:    media,
		source:   source,
		rng:      rng,
		opts:     opts,
		log:      log,
		authors:  generate.NewAuthorGenerator(store, media, log),
		articles: generate.NewArticleGenerator(store, log),
	}
}

// pools are the handles available to articles, by slug or tag name.
type pools struct {
	categories    map[string]*database.Category
	categoryOrder []*database.Category
	tags          map[string]*database.Tag
	tagOrder      []*database.Tag
	authors       map[string]*database.Author
	authorOrder   []*database.Author
}

// Run executes a full seeding run. Only a failing source, reset, or context
// cancellation returns an error; per-entity failures are counted in the
// report.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	r := &Report{Source: s.source.Name()}

	plan, err := s.source.Plan(ctx)
	if err != nil {
		return r, fmt.Errorf("planning %s run: %w", r.Source, err)
	}

	if s.opts.Reset {
		step := s.runReset(ctx)
		r.Steps = append(r.Steps, step)
		if step.Err != nil {
			return r, step.Err
		}
	}

	p := &pools{
		categories: make(map[string]*database.Category),
		tags:       make(map[string]*database.Tag),
		authors:    make(map[string]*database.Author),
	}

	r.Steps = append(r.Steps, s.runReferenceData(ctx, plan, p, r))
	if err := ctx.Err(); err != nil {
		return r, err
	}

	r.Steps = append(r.Steps, s.runAuthors(ctx, plan, p, r))
	if err := ctx.Err(); err != nil {
		return r, err
	}

	r.Steps = append(r.Steps, s.runArticles(ctx, plan, p, r))
	if err := ctx.Err(); err != nil {
		return r, err
	}

	r.Steps = append(r.Steps, StepResult{
		Name: "Done",
		Summary: fmt.Sprintf("%d authors and %d articles created (%d and %d skipped)",
			r.AuthorsCreated, r.ArticlesCreated, r.AuthorsSkipped, r.ArticlesSkipped),
	})
	s.log.Info("seeding finished", "source", r.Source,
		"authors", r.AuthorsCreated, "articles", r.ArticlesCreated,
		"authors_skipped", r.AuthorsSkipped, "articles_skipped", r.ArticlesSkipped)
	return r, nil
}

// DryRun reports what a run would do. It reads only the source, so the
// seeder may be built with a nil store and media.
func (s *Seeder) DryRun(ctx context.Context) (*Report, error) {
	r := &Report{Source: s.source.Name()}
	plan, err := s.source.Plan(ctx)
	if err != nil {
		return r, fmt.Errorf("planning %s run: %w", r.Source, err)
	}
	if s.opts.Reset {
		r.Steps = append(r.Steps, StepResult{Name: "Reset", Summary: "[dry-run] Would delete all rows and media"})
	}
	r.Steps = append(r.Steps,
		StepResult{Name: "ReferenceData", Summary: fmt.Sprintf("[dry-run] %d categories, %d tags", len(plan.Categories), len(plan.Tags))},
		StepResult{Name: "Authors", Summary: fmt.Sprintf("[dry-run] %d authors planned", len(plan.Authors))},
		StepResult{Name: "Articles", Summary: fmt.Sprintf("[dry-run] %d articles planned", len(plan.Articles))},
	)
	return r, nil
}

// Reset deletes every row and all downloaded media.
func (s *Seeder) Reset(ctx context.Context) (*database.ResetResult, error) {
	return Reset(ctx, s.store, s.media, s.log)
}

// Resetter deletes every seeded row.
type Resetter interface {
	DeleteAll(ctx context.Context) (*database.ResetResult, error)
}

// Clearer removes downloaded media.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Reset deletes every row, then clears media. Safe on an empty store.
// A media failure is logged and does not fail the reset.
func Reset(ctx context.Context, store Resetter, assets Clearer, log *logger.Logger) (*database.ResetResult, error) {
	res, err := store.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("resetting store: %w", err)
	}
	if err := assets.Clear(ctx); err != nil {
		log.Warn("clearing media failed", "error", err)
	}
	return res, nil
}

func (s *Seeder) runReset(ctx context.Context) StepResult {
	s.log.Info("Step 1/5: resetting store")
	res, err := s.Reset(ctx)
	if err != nil {
		return StepResult{Name: "Reset", Err: err}
	}
	return StepResult{
		Name: "Reset",
		Summary: fmt.Sprintf("Deleted %d components, %d articles, %d education rows, %d authors, %d tags, %d categories",
			res.Components, res.Articles, res.Education, res.Authors, res.Tags, res.Categories),
	}
}

func (s *Seeder) runReferenceData(ctx context.Context, plan *Plan, p *pools, r *Report) StepResult {
	s.log.Info("Step 2/5: building reference data", "categories", len(plan.Categories), "tags", len(plan.Tags))
	refs := NewReferenceBuilder(s.store)
	failed := 0

	for _, c := range plan.Categories {
		cat, err := refs.EnsureCategorySlug(ctx, c.Name, c.Slug)
		if err != nil {
			s.log.Warn("category skipped", "name", c.Name, "error", err)
			failed++
			continue
		}
		if _, dup := p.categories[cat.Slug]; !dup {
			p.categories[cat.Slug] = cat
			p.categoryOrder = append(p.categoryOrder, cat)
		}
	}
	for _, name := range plan.Tags {
		tag, err := refs.EnsureTag(ctx, name)
		if err != nil {
			s.log.Warn("tag skipped", "name", name, "error", err)
			failed++
			continue
		}
		if _, dup := p.tags[tag.Name]; !dup {
			p.tags[tag.Name] = tag
			p.tagOrder = append(p.tagOrder, tag)
		}
	}

	r.Categories, r.Tags = len(p.categoryOrder), len(p.tagOrder)
	return StepResult{
		Name:    "ReferenceData",
		Summary: fmt.Sprintf("%d categories, %d tags (%d failed)", r.Categories, r.Tags, failed),
	}
}

func (s *Seeder) runAuthors(ctx context.Context, plan *Plan, p *pools, r *Report) StepResult {
	s.log.Info("Step 3/5: creating authors", "count", len(plan.Authors))
	for _, out := range s.authors.CreateBatch(ctx, plan.Authors) {
		if !out.OK() {
			r.AuthorsSkipped++
			continue
		}
		r.AuthorsCreated++
		p.authors[out.Value.Slug] = out.Value
		p.authorOrder = append(p.authorOrder, out.Value)
	}
	return StepResult{
		Name:    "Authors",
		Summary: fmt.Sprintf("Created %d authors, %d skipped", r.AuthorsCreated, r.AuthorsSkipped),
	}
}

func (s *Seeder) runArticles(ctx context.Context, plan *Plan, p *pools, r *Report) StepResult {
	s.log.Info("Step 4/5: creating articles", "count", len(plan.Articles))
	if len(p.authorOrder) == 0 || len(p.categoryOrder) == 0 {
		r.ArticlesSkipped += len(plan.Articles)
		err := fmt.Errorf("%w: %d authors, %d categories available", ErrMissingDependency, len(p.authorOrder), len(p.categoryOrder))
		s.log.Warn("skipping all articles", "error", err)
		return StepResult{Name: "Articles", Summary: fmt.Sprintf("Skipped %d articles", len(plan.Articles)), Err: err}
	}

	for _, ap := range plan.Articles {
		if ctx.Err() != nil {
			break
		}
		author, category, tagIDs, err := s.resolve(ap, p)
		if err != nil {
			s.log.Warn("article skipped", "title", ap.Draft.Title, "error", err)
			r.ArticlesSkipped++
			continue
		}

		out := s.articles.Create(ctx, ap.Draft, author.ID, category.ID, tagIDs)
		if !out.OK() {
			r.ArticlesSkipped++
			continue
		}
		r.ArticlesCreated++

		if s.opts.Components {
			if err := s.attachHeader(ctx, out.Value); err != nil {
				s.log.Warn("component skipped", "article", out.Value.Slug, "error", err)
			} else {
				r.ComponentsCreated++
			}
		}
	}

	return StepResult{
		Name: "Articles",
		Summary: fmt.Sprintf("Created %d articles, %d skipped, %d components",
			r.ArticlesCreated, r.ArticlesSkipped, r.ComponentsCreated),
	}
}

// resolve maps an article plan onto pooled handles, picking at random where
// the plan leaves a choice open.
func (s *Seeder) resolve(ap ArticlePlan, p *pools) (*database.Author, *database.Category, []string, error) {
	if ap.Err != nil {
		return nil, nil, nil, ap.Err
	}

	var author *database.Author
	if ap.AuthorSlug == "" {
		author = p.authorOrder[s.rng.IntN(len(p.authorOrder))]
	} else if author = p.authors[ap.AuthorSlug]; author == nil {
		return nil, nil, nil, fmt.Errorf("%w: author %s", ErrMissingDependency, ap.AuthorSlug)
	}

	var category *database.Category
	if ap.CategorySlug == "" {
		category = p.categoryOrder[s.rng.IntN(len(p.categoryOrder))]
	} else if category = p.categories[ap.CategorySlug]; category == nil {
		return nil, nil, nil, fmt.Errorf("%w: category %s", ErrMissingDependency, ap.CategorySlug)
	}

	var tagIDs []string
	if ap.Tags == nil {
		if len(p.tagOrder) == 0 {
			return nil, nil, nil, fmt.Errorf("%w: no tags", ErrMissingDependency)
		}
		for _, i := range s.rng.Perm(len(p.tagOrder))[:min(3, len(p.tagOrder))] {
			tagIDs = append(tagIDs, p.tagOrder[i].ID)
		}
	} else {
		for _, name := range ap.Tags {
			tag := p.tags[name]
			if tag == nil {
				return nil, nil, nil, fmt.Errorf("%w: tag %q", ErrMissingDependency, name)
			}
			tagIDs = append(tagIDs, tag.ID)
		}
	}
	return author, category, tagIDs, nil
}

type headerImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

func (s *Seeder) attachHeader(ctx context.Context, a *database.Article) error {
	data, err := json.Marshal(headerImage{URL: "/articles/" + a.Slug + "/header.jpg", Alt: a.Title})
	if err != nil {
		return err
	}
	_, err = s.store.CreateComponent(ctx, a.ID, "image", string(data))
	return err
}
