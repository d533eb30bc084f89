package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/store"
)

// CreateVersion stores an immutable generation result. The job and base
// resume must resolve to same-user rows; a dangling reference is a
// ValidationError, and no row is created.
func (db *DB) CreateVersion(ctx context.Context, user string, v store.NewVersion) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var jobExists, resumeExists bool
	err = tx.QueryRow(ctx,
		`SELECT
		   EXISTS (SELECT 1 FROM jobs WHERE user_id = $1 AND id = $2),
		   EXISTS (SELECT 1 FROM resumes WHERE user_id = $1 AND id = $3)`,
		user, v.JobID, v.BaseResumeID,
	).Scan(&jobExists, &resumeExists)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check version references: %w", err)
	}
	if !jobExists {
		return uuid.Nil, &store.ValidationError{Field: "job_id", Message: "job does not exist: " + v.JobID.String()}
	}
	if !resumeExists {
		return uuid.Nil, &store.ValidationError{Field: "base_resume_id", Message: "base resume does not exist: " + v.BaseResumeID.String()}
	}

	changes, additions, checklist, err := encodeLists(v)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO versions (user_id, job_id, base_resume_id, version_name, tailored_resume,
		                       changes_summary, suggested_additions, accuracy_checklist)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		user, v.JobID, v.BaseResumeID, strings.TrimSpace(v.Name), v.TailoredText,
		changes, additions, checklist,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListVersionsForJob returns the job's versions, most recent first, annotated
// with the base resume's name.
func (db *DB) ListVersionsForJob(ctx context.Context, user string, jobID uuid.UUID) ([]store.VersionSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT v.id, v.version_name, v.tailored_resume, r.name, v.created_at
		 FROM versions v
		 JOIN resumes r ON r.id = v.base_resume_id
		 WHERE v.user_id = $1 AND v.job_id = $2
		 ORDER BY v.created_at DESC`,
		user, jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []store.VersionSummary
	for rows.Next() {
		var s store.VersionSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.TailoredText, &s.ResumeName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, s)
	}
	return versions, rows.Err()
}

// encodeLists serializes the three string lists as JSON text for storage.
func encodeLists(v store.NewVersion) (changes, additions, checklist string, err error) {
	enc := func(items []string) (string, error) {
		if items == nil {
			items = []string{}
		}
		b, err := json.Marshal(items)
		if err != nil {
			return "", fmt.Errorf("failed to encode version list: %w", err)
		}
		return string(b), nil
	}
	if changes, err = enc(v.ChangesSummary); err != nil {
		return "", "", "", err
	}
	if additions, err = enc(v.SuggestedAdditions); err != nil {
		return "", "", "", err
	}
	if checklist, err = enc(v.AccuracyChecklist); err != nil {
		return "", "", "", err
	}
	return changes, additions, checklist, nil
}
