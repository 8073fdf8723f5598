package database

import (
	"context"
	"fmt"
)

// DeleteAll removes every row of every collection, children before parents,
// inside one transaction. Safe on an empty store.
func (db *DB) DeleteAll(ctx context.Context) (*ResetResult, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	r := &ResetResult{}
	steps := []struct {
		table string
		count *int64
	}{
		{"components", &r.Components},
		{"article_tags", &r.ArticleTag},
		{"articles", &r.Articles},
		{"education", &r.Education},
		{"authors", &r.Authors},
		{"tags", &r.Tags},
		{"categories", &r.Categories},
	}
	for _, s := range steps {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+s.table)
		if err != nil {
			return nil, fmt.Errorf("clearing %s: %w", s.table, err)
		}
		if *s.count, err = res.RowsAffected(); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r, nil
}
