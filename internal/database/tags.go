package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertTag creates the tag if no tag with that exact name exists and
// returns the stored row either way.
func (db *DB) UpsertTag(ctx context.Context, name string) (*Tag, error) {
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO tags (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		uuid.NewString(), name,
	); err != nil {
		return nil, fmt.Errorf("upsert tag %q: %w", name, err)
	}

	var t Tag
	if err := db.conn.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name); err != nil {
		return nil, fmt.Errorf("read tag %q: %w", name, err)
	}
	return &t, nil
}

// GetAllTags returns every tag ordered by name.
func (db *DB) GetAllTags(ctx context.Context) ([]Tag, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
