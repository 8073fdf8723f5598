package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateComponent attaches a typed block to an article. data must be JSON.
func (db *DB) CreateComponent(ctx context.Context, articleID, kind, data string) (*Component, error) {
	c := &Component{ID: uuid.NewString(), ArticleID: articleID, Type: kind, Data: data}
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO components (id, article_id, type, data) VALUES (?, ?, ?, ?)`,
		c.ID, c.ArticleID, c.Type, c.Data,
	); err != nil {
		return nil, fmt.Errorf("insert component for article %s: %w", articleID, classify(err))
	}
	return c, nil
}

// GetComponentsForArticle returns the article's components in insertion order.
func (db *DB) GetComponentsForArticle(ctx context.Context, articleID string) ([]Component, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, article_id, type, data FROM components WHERE article_id = ? ORDER BY created_at, rowid`,
		articleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Component
	for rows.Next() {
		var c Component
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.Type, &c.Data); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
