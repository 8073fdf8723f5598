package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/slug"
)

// ReferenceStore is the subset of the store used for shared vocabulary.
type ReferenceStore interface {
	CreateCategory(ctx context.Context, name, slug string) (*database.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*database.Category, error)
	UpsertTag(ctx context.Context, name string) (*database.Tag, error)
}

// ReferenceBuilder creates or looks up categories and tags, returning the
// same handle for repeated names within a run.
type ReferenceBuilder struct {
	store      ReferenceStore
	categories map[string]*database.Category
	tags       map[string]*database.Tag
}

// NewReferenceBuilder creates a builder with an empty cache.
func NewReferenceBuilder(store ReferenceStore) *ReferenceBuilder {
	return &ReferenceBuilder{
		store:      store,
		categories: make(map[string]*database.Category),
		tags:       make(map[string]*database.Tag),
	}
}

// EnsureCategory returns the category whose slug derives from name,
// creating it if absent.
func (b *ReferenceBuilder) EnsureCategory(ctx context.Context, name string) (*database.Category, error) {
	return b.EnsureCategorySlug(ctx, name, slug.Make(name))
}

// EnsureCategorySlug is EnsureCategory with an explicit slug.
func (b *ReferenceBuilder) EnsureCategorySlug(ctx context.Context, name, s string) (*database.Category, error) {
	if s == "" {
		return nil, fmt.Errorf("category %q: empty slug", name)
	}
	if c, ok := b.categories[s]; ok {
		return c, nil
	}

	c, err := b.store.FindCategoryBySlug(ctx, s)
	if errors.Is(err, database.ErrNotFound) {
		c, err = b.store.CreateCategory(ctx, name, s)
		if errors.Is(err, database.ErrDuplicate) {
			c, err = b.store.FindCategoryBySlug(ctx, s)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("ensuring category %s: %w", s, err)
	}
	b.categories[s] = c
	return c, nil
}

// EnsureTag returns the tag with exactly this name, creating it if absent.
func (b *ReferenceBuilder) EnsureTag(ctx context.Context, name string) (*database.Tag, error) {
	if t, ok := b.tags[name]; ok {
		return t, nil
	}
	t, err := b.store.UpsertTag(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ensuring tag %q: %w", name, err)
	}
	b.tags[name] = t
	return t, nil
}
