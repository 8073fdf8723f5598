package database

import (
	"context"
	"fmt"
)

// GetStats returns row counts for every collection.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM categories", &s.Categories},
		{"SELECT COUNT(*) FROM tags", &s.Tags},
		{"SELECT COUNT(*) FROM authors", &s.Authors},
		{"SELECT COUNT(*) FROM education", &s.Education},
		{"SELECT COUNT(*) FROM articles", &s.Articles},
		{"SELECT COUNT(*) FROM article_tags", &s.ArticleTag},
		{"SELECT COUNT(*) FROM components", &s.Components},
	}
	for _, c := range counts {
		if err := db.conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}
	return s, nil
}

// consistencyChecks each select (entity, detail) rows that violate an invariant.
var consistencyChecks = []struct {
	kind  string
	query string
}{
	{"articles_count", `SELECT au.slug, printf('stored %d, actual %d', au.articles_count, COUNT(a.id))
		FROM authors au LEFT JOIN articles a ON a.author_id = au.id
		GROUP BY au.id HAVING au.articles_count != COUNT(a.id)`},
	{"dangling_author", `SELECT a.slug, a.author_id FROM articles a
		LEFT JOIN authors au ON au.id = a.author_id WHERE au.id IS NULL`},
	{"dangling_category", `SELECT a.slug, a.category_id FROM articles a
		LEFT JOIN categories c ON c.id = a.category_id WHERE c.id IS NULL`},
	{"dangling_tag", `SELECT at.article_id, at.tag_id FROM article_tags at
		LEFT JOIN tags t ON t.id = at.tag_id WHERE t.id IS NULL`},
	{"orphan_education", `SELECT e.id, e.author_id FROM education e
		LEFT JOIN authors au ON au.id = e.author_id WHERE au.id IS NULL`},
	{"orphan_component", `SELECT c.id, c.article_id FROM components c
		LEFT JOIN articles a ON a.id = c.article_id WHERE a.id IS NULL`},
}

// CheckConsistency reports referential and counter invariant violations.
// An empty result means the store is consistent.
func (db *DB) CheckConsistency(ctx context.Context) ([]Issue, error) {
	var issues []Issue
	for _, c := range consistencyChecks {
		rows, err := db.conn.QueryContext(ctx, c.query)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", c.kind, err)
		}
		for rows.Next() {
			var is Issue
			if err := rows.Scan(&is.Entity, &is.Detail); err != nil {
				rows.Close()
				return nil, err
			}
			is.Kind = c.kind
			issues = append(issues, is)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return issues, nil
}
