package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/logger"
	"github.com/M-U-C-K-A/blog/internal/media"
	"github.com/M-U-C-K-A/blog/internal/slug"
)

// AuthorStore persists an author together with its education rows.
type AuthorStore interface {
	CreateAuthor(ctx context.Context, in database.NewAuthor) (*database.Author, error)
}

// MediaFetcher resolves avatar and banner references for a seed.
type MediaFetcher interface {
	FetchAuthorMedia(ctx context.Context, seed string) media.Media
	FetchAll(ctx context.Context, seeds []string) map[string]media.Media
}

// ErrEmptySlug is returned when a name yields no usable slug.
var ErrEmptySlug = errors.New("name produces an empty slug")

// AuthorGenerator turns drafts into stored authors.
type AuthorGenerator struct {
	store AuthorStore
	media MediaFetcher
	log   *logger.Logger
}

// NewAuthorGenerator creates an author generator.
func NewAuthorGenerator(store AuthorStore, fetcher MediaFetcher, log *logger.Logger) *AuthorGenerator {
	return &AuthorGenerator{store: store, media: fetcher, log: log}
}

// Create fetches media for the draft and inserts the author with its
// education. The insert is atomic: on failure nothing is left behind.
func (g *AuthorGenerator) Create(ctx context.Context, d AuthorDraft) Outcome[*database.Author] {
	s := draftSlug(d)
	if s == "" {
		return g.skip(d.Name, ErrEmptySlug)
	}
	return g.insert(ctx, d, s, g.media.FetchAuthorMedia(ctx, s))
}

// CreateBatch prefetches media for every draft concurrently, then inserts
// the authors one at a time in draft order.
func (g *AuthorGenerator) CreateBatch(ctx context.Context, drafts []AuthorDraft) []Outcome[*database.Author] {
	slugs := make([]string, len(drafts))
	seeds := make([]string, 0, len(drafts))
	for i, d := range drafts {
		slugs[i] = draftSlug(d)
		if slugs[i] != "" {
			seeds = append(seeds, slugs[i])
		}
	}
	fetched := g.media.FetchAll(ctx, seeds)

	out := make([]Outcome[*database.Author], len(drafts))
	for i, d := range drafts {
		if slugs[i] == "" {
			out[i] = g.skip(d.Name, ErrEmptySlug)
			continue
		}
		out[i] = g.insert(ctx, d, slugs[i], fetched[slugs[i]])
	}
	return out
}

func (g *AuthorGenerator) insert(ctx context.Context, d AuthorDraft, s string, m media.Media) Outcome[*database.Author] {
	author, err := g.store.CreateAuthor(ctx, database.NewAuthor{
		Name:         d.Name,
		Slug:         s,
		Title:        d.Title,
		Affiliation:  d.Affiliation,
		Bio:          d.Bio,
		Expertise:    d.Expertise,
		Email:        d.Email,
		Twitter:      d.Twitter,
		LinkedIn:     d.LinkedIn,
		ORCID:        d.ORCID,
		ResearchGate: d.ResearchGate,
		Citations:    d.Citations,
		HIndex:       d.HIndex,
		Avatar:       m.Avatar,
		Banner:       m.Banner,
		Education:    d.Education,
	})
	if err != nil {
		return g.skip(d.Name, fmt.Errorf("creating author %s: %w", s, err))
	}
	g.log.Debug("author created", "slug", s, "education", len(d.Education))
	return Created(author)
}

func (g *AuthorGenerator) skip(name string, err error) Outcome[*database.Author] {
	g.log.Warn("author skipped", "name", name, "error", err)
	return Skipped[*database.Author](err)
}

func draftSlug(d AuthorDraft) string {
	if d.Slug != "" {
		return d.Slug
	}
	return slug.Make(d.Name)
}
