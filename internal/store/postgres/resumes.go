package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tailor/internal/store"
)

// CreateResume stores an immutable base resume scoped to the user.
func (db *DB) CreateResume(ctx context.Context, user, name, text string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, &store.ValidationError{Field: "name", Message: "resume name is required"}
	}
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, &store.ValidationError{Field: "resume_text", Message: "resume text is required"}
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, name, resume_text)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		user, strings.TrimSpace(name), text,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// ListResumes returns the user's resumes, most recent first.
func (db *DB) ListResumes(ctx context.Context, user string) ([]store.Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, name, resume_text, created_at
		 FROM resumes
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []store.Resume
	for rows.Next() {
		var r store.Resume
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// GetResume returns a resume by id, scoped to the user.
func (db *DB) GetResume(ctx context.Context, user string, id uuid.UUID) (*store.Resume, error) {
	var r store.Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, name, resume_text, created_at
		 FROM resumes
		 WHERE user_id = $1 AND id = $2`,
		user, id,
	).Scan(&r.ID, &r.UserID, &r.Name, &r.Text, &r.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &store.NotFoundError{Kind: "resume", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}
