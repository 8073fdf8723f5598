package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/logger"
	"github.com/M-U-C-K-A/blog/internal/slug"
)

// ArticleStore persists an article and its tag links.
type ArticleStore interface {
	CreateArticle(ctx context.Context, in database.NewArticle) (*database.Article, error)
}

// ErrUnlinked is returned when an article has no author or category.
var ErrUnlinked = errors.New("article needs an author and a category")

// ArticleGenerator turns drafts into stored articles.
type ArticleGenerator struct {
	store ArticleStore
	log   *logger.Logger
}

// NewArticleGenerator creates an article generator.
func NewArticleGenerator(store ArticleStore, log *logger.Logger) *ArticleGenerator {
	return &ArticleGenerator{store: store, log: log}
}

// Create inserts the draft linked to the given author, category and tags.
// The caller owns the author's article count and must only bump it on
// Created.
func (g *ArticleGenerator) Create(ctx context.Context, d ArticleDraft, authorID, categoryID string, tagIDs []string) Outcome[*database.Article] {
	s := d.Slug
	if s == "" {
		s = slug.Make(d.Title)
	}
	if s == "" {
		return g.skip(d.Title, ErrEmptySlug)
	}
	if authorID == "" || categoryID == "" {
		return g.skip(d.Title, ErrUnlinked)
	}

	article, err := g.store.CreateArticle(ctx, database.NewArticle{
		Title:       d.Title,
		Slug:        s,
		Description: d.Description,
		Content:     d.Content,
		PublishedAt: d.PublishedAt,
		ReadTime:    d.ReadTime,
		Featured:    d.Featured,
		Views:       d.Views,
		Citations:   d.Citations,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		TagIDs:      tagIDs,
	})
	if err != nil {
		return g.skip(d.Title, fmt.Errorf("creating article %s: %w", s, err))
	}
	g.log.Debug("article created", "slug", s, "tags", len(tagIDs))
	return Created(article)
}

func (g *ArticleGenerator) skip(title string, err error) Outcome[*database.Article] {
	g.log.Warn("article skipped", "title", title, "error", err)
	return Skipped[*database.Article](err)
}
