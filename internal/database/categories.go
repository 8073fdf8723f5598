package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateCategory inserts a category. Returns ErrDuplicate if the slug exists.
func (db *DB) CreateCategory(ctx context.Context, name, slug string) (*Category, error) {
	c := &Category{ID: uuid.NewString(), Name: name, Slug: slug}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Slug,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category %q: %w", slug, classify(err))
	}
	return c, nil
}

// FindCategoryBySlug returns the category with the given slug or ErrNotFound.
func (db *DB) FindCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = ?`, slug,
	).Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCategoriesWithCounts returns all categories with their article counts,
// most populated first.
func (db *DB) GetCategoriesWithCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.name, c.slug, COUNT(a.id) AS n
		FROM categories c LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id ORDER BY n DESC, c.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
