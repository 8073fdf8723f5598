package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateAuthor inserts an author and its education rows in one transaction.
// Either everything is written or nothing is.
func (db *DB) CreateAuthor(ctx context.Context, in NewAuthor) (*Author, error) {
	expertise := in.Expertise
	if expertise == nil {
		expertise = []string{}
	}
	expJSON, err := json.Marshal(expertise)
	if err != nil {
		return nil, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	a := &Author{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Slug:         in.Slug,
		Title:        in.Title,
		Affiliation:  in.Affiliation,
		Bio:          in.Bio,
		Expertise:    expertise,
		Email:        in.Email,
		Twitter:      in.Twitter,
		LinkedIn:     in.LinkedIn,
		ORCID:        in.ORCID,
		ResearchGate: in.ResearchGate,
		Citations:    in.Citations,
		HIndex:       in.HIndex,
		Avatar:       in.Avatar,
		Banner:       in.Banner,
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO authors (id, name, slug, title, affiliation, bio, expertise,
		email, twitter, linkedin, orcid, researchgate,
		articles_count, citations, h_index, avatar, banner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Slug, a.Title, a.Affiliation, a.Bio, string(expJSON),
		a.Email, a.Twitter, a.LinkedIn, a.ORCID, a.ResearchGate,
		a.Citations, a.HIndex, a.Avatar, a.Banner,
	); err != nil {
		return nil, fmt.Errorf("insert author %q: %w", in.Slug, classify(err))
	}

	for _, e := range in.Education {
		edu := Education{
			ID:          uuid.NewString(),
			AuthorID:    a.ID,
			Degree:      e.Degree,
			Institution: e.Institution,
			Year:        e.Year,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO education (id, author_id, degree, institution, year) VALUES (?, ?, ?, ?, ?)`,
			edu.ID, edu.AuthorID, edu.Degree, edu.Institution, edu.Year,
		); err != nil {
			return nil, fmt.Errorf("insert education for %q: %w", in.Slug, classify(err))
		}
		a.Education = append(a.Education, edu)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

const authorColumns = `id, name, slug, title, affiliation, bio, expertise,
	email, twitter, linkedin, orcid, researchgate,
	articles_count, citations, h_index, avatar, banner`

// GetAllAuthors returns every author ordered by name, without education.
func (db *DB) GetAllAuthors(ctx context.Context) ([]Author, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	return authors, rows.Err()
}

// GetAuthorBySlug returns the author with education, or ErrNotFound.
func (db *DB) GetAuthorBySlug(ctx context.Context, slug string) (*Author, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE slug = ?`, slug)
	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	edu, err := db.getEducation(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Education = edu
	return a, nil
}

func (db *DB) getEducation(ctx context.Context, authorID string) ([]Education, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, author_id, degree, institution, year FROM education
		WHERE author_id = ? ORDER BY year DESC`, authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Education
	for rows.Next() {
		var e Education
		if err := rows.Scan(&e.ID, &e.AuthorID, &e.Degree, &e.Institution, &e.Year); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (*Author, error) {
	var a Author
	var expJSON string
	if err := row.Scan(&a.ID, &a.Name, &a.Slug, &a.Title, &a.Affiliation, &a.Bio, &expJSON,
		&a.Email, &a.Twitter, &a.LinkedIn, &a.ORCID, &a.ResearchGate,
		&a.ArticlesCount, &a.Citations, &a.HIndex, &a.Avatar, &a.Banner); err != nil {
		return nil, err
	}
	if expJSON != "" {
		if err := json.Unmarshal([]byte(expJSON), &a.Expertise); err != nil {
			return nil, fmt.Errorf("decoding expertise for %s: %w", a.Slug, err)
		}
	}
	return &a, nil
}
