package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-tailor/internal/store"
)

const jobColumns = `id, user_id, company, title, location, url, jd_text, status,
	status_date, applied_date, followup_date, finished_date, finished_outcome,
	notes, created_at`

// CreateJob stores a new job scoped to the user. An empty status defaults to
// Target.
func (db *DB) CreateJob(ctx context.Context, user string, job store.NewJob) (uuid.UUID, error) {
	if err := job.Validate(); err != nil {
		return uuid.Nil, err
	}
	status := job.Status
	if status == "" {
		status = store.StatusTarget
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, company, title, location, url, jd_text, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		user, strings.TrimSpace(job.Company), strings.TrimSpace(job.Title),
		strings.TrimSpace(job.Location), strings.TrimSpace(job.URL), job.JDText, string(status),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// ListJobs returns the user's jobs, most recent first.
func (db *DB) ListJobs(ctx context.Context, user string) ([]store.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// GetJob returns a job by id, scoped to the user.
func (db *DB) GetJob(ctx context.Context, user string, id uuid.UUID) (*store.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE user_id = $1 AND id = $2`,
		user, id,
	)
	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &store.NotFoundError{Kind: "job", ID: id.String()}
		}
		return nil, err
	}
	return j, nil
}

// UpdateJobStatus overwrites status and status_date. Pure write; the
// required-date rule runs in the tracker package before this call.
func (db *DB) UpdateJobStatus(ctx context.Context, user string, id uuid.UUID, status store.Status, statusDate *time.Time) error {
	if !status.Valid() {
		return &store.ValidationError{Field: "status", Message: "unknown status: " + string(status)}
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET status = $1, status_date = $2
		 WHERE user_id = $3 AND id = $4`,
		string(status), statusDate, user, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &store.NotFoundError{Kind: "job", ID: id.String()}
	}
	return nil
}

// UpdateJobDates replaces the reporting dates, outcome, and notes. Full
// replace: nil dates and empty strings clear the stored values.
func (db *DB) UpdateJobDates(ctx context.Context, user string, id uuid.UUID, dates store.JobDates) error {
	if err := dates.Validate(); err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET applied_date = $1,
		     followup_date = $2,
		     finished_date = $3,
		     finished_outcome = $4,
		     notes = $5
		 WHERE user_id = $6 AND id = $7`,
		dates.AppliedDate, dates.FollowupDate, dates.FinishedDate,
		string(dates.FinishedOutcome), strings.TrimSpace(dates.Notes), user, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job dates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &store.NotFoundError{Kind: "job", ID: id.String()}
	}
	return nil
}

// scanJob scans one job row; DATE columns come back at date precision.
func scanJob(row pgx.Row) (*store.Job, error) {
	var j store.Job
	var status, outcome string
	err := row.Scan(&j.ID, &j.UserID, &j.Company, &j.Title, &j.Location, &j.URL,
		&j.JDText, &status, &j.StatusDate, &j.AppliedDate, &j.FollowupDate,
		&j.FinishedDate, &outcome, &j.Notes, &j.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}
	j.Status = store.Status(status)
	j.FinishedOutcome = store.Outcome(outcome)
	return &j, nil
}
