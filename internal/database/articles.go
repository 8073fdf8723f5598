package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateArticle inserts an article, connects its tags and bumps the author's
// articles_count in one transaction.
func (db *DB) CreateArticle(ctx context.Context, in NewArticle) (*Article, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a := &Article{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Content:     in.Content,
		PublishedAt: in.PublishedAt.UTC(),
		ReadTime:    in.ReadTime,
		Featured:    in.Featured,
		Views:       in.Views,
		Citations:   in.Citations,
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO articles (id, title, slug, description, content, published_at,
		read_time, featured, views, citations, author_id, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Slug, a.Description, a.Content, a.PublishedAt.Format(time.RFC3339),
		a.ReadTime, a.Featured, a.Views, a.Citations, a.AuthorID, a.CategoryID,
	); err != nil {
		return nil, fmt.Errorf("insert article %q: %w", in.Slug, classify(err))
	}

	seen := make(map[string]struct{}, len(in.TagIDs))
	for _, tagID := range in.TagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO article_tags (article_id, tag_id) VALUES (?, ?)`, a.ID, tagID,
		); err != nil {
			return nil, fmt.Errorf("connect tag %s to %q: %w", tagID, in.Slug, classify(err))
		}
		a.TagIDs = append(a.TagIDs, tagID)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE authors SET articles_count = articles_count + 1 WHERE id = ?`, in.AuthorID,
	)
	if err != nil {
		return nil, fmt.Errorf("count article for author %s: %w", in.AuthorID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("author %s: %w", in.AuthorID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// GetArticleBySlug returns the full article including content, or ErrNotFound.
func (db *DB) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	var a Article
	var published string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, slug, description, content, published_at, read_time,
		featured, views, citations, author_id, category_id
		FROM articles WHERE slug = ?`, slug,
	).Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &a.Content, &published, &a.ReadTime,
		&a.Featured, &a.Views, &a.Citations, &a.AuthorID, &a.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.PublishedAt, err = parseTimestamp(published); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT tag_id FROM article_tags WHERE article_id = ?`, a.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		a.TagIDs = append(a.TagIDs, id)
	}
	return &a, rows.Err()
}

// ArticleFilter narrows ListArticles. Zero values mean "any".
type ArticleFilter struct {
	Slug         string
	FeaturedOnly bool
	CategorySlug string
	AuthorSlug   string
	Limit        int
}

const summarySelect = `SELECT a.id, a.title, a.slug, a.description, a.published_at, a.read_time,
	a.featured, a.views, a.citations, au.name, au.slug, c.name, c.slug
	FROM articles a
	JOIN authors au ON au.id = a.author_id
	JOIN categories c ON c.id = a.category_id`

// ListArticles returns article summaries, newest first.
func (db *DB) ListArticles(ctx context.Context, f ArticleFilter) ([]ArticleSummary, error) {
	var where []string
	var args []any
	if f.Slug != "" {
		where = append(where, "a.slug = ?")
		args = append(args, f.Slug)
	}
	if f.FeaturedOnly {
		where = append(where, "a.featured = 1")
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	if f.AuthorSlug != "" {
		where = append(where, "au.slug = ?")
		args = append(args, f.AuthorSlug)
	}

	query := summarySelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.published_at DESC, a.slug"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return db.querySummaries(ctx, query, args...)
}

// GetRelatedArticles returns up to limit other articles sharing the
// category or at least one tag with the given article.
func (db *DB) GetRelatedArticles(ctx context.Context, slug string, limit int) ([]ArticleSummary, error) {
	return db.querySummaries(ctx, summarySelect+`
		JOIN articles cur ON cur.slug = ?
		WHERE a.id != cur.id AND (
			a.category_id = cur.category_id OR EXISTS (
				SELECT 1 FROM article_tags x JOIN article_tags y ON x.tag_id = y.tag_id
				WHERE x.article_id = a.id AND y.article_id = cur.id))
		ORDER BY a.published_at DESC, a.slug LIMIT ?`, slug, limit)
}

// GetAdjacentArticles returns the articles published just before and just
// after the given one. Either may be nil.
func (db *DB) GetAdjacentArticles(ctx context.Context, slug string) (prev, next *ArticleSummary, err error) {
	before, err := db.querySummaries(ctx, summarySelect+`
		JOIN articles cur ON cur.slug = ?
		WHERE (a.published_at, a.slug) < (cur.published_at, cur.slug)
		ORDER BY a.published_at DESC, a.slug DESC LIMIT 1`, slug)
	if err != nil {
		return nil, nil, err
	}
	after, err := db.querySummaries(ctx, summarySelect+`
		JOIN articles cur ON cur.slug = ?
		WHERE (a.published_at, a.slug) > (cur.published_at, cur.slug)
		ORDER BY a.published_at, a.slug LIMIT 1`, slug)
	if err != nil {
		return nil, nil, err
	}
	if len(before) > 0 {
		prev = &before[0]
	}
	if len(after) > 0 {
		next = &after[0]
	}
	return prev, next, nil
}

// GetArticleTagNames returns tag names keyed by article id.
func (db *DB) GetArticleTagNames(ctx context.Context) (map[string][]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT at.article_id, t.name FROM article_tags at
		JOIN tags t ON t.id = at.tag_id ORDER BY t.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[string][]string)
	for rows.Next() {
		var articleID, name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return nil, err
		}
		m[articleID] = append(m[articleID], name)
	}
	return m, rows.Err()
}

func (db *DB) querySummaries(ctx context.Context, query string, args ...any) ([]ArticleSummary, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var out []ArticleSummary
	for rows.Next() {
		var s ArticleSummary
		var published string
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.Description, &published, &s.ReadTime,
			&s.Featured, &s.Views, &s.Citations, &s.AuthorName, &s.AuthorSlug,
			&s.CategoryName, &s.CategorySlug); err != nil {
			rows.Close()
			return nil, err
		}
		if s.PublishedAt, err = parseTimestamp(published); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the connection before the tag query.
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	tags, err := db.GetArticleTagNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tags = tags[out[i].ID]
	}
	return out, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
