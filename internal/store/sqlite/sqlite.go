// Package sqlite implements the store.Store contract on an embedded SQLite
// file. This is the legacy single-user backend: the user scope is accepted
// for contract compatibility but not persisted or filtered on.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/job-tailor/internal/store"
)

const dateLayout = "2006-01-02"

// DB wraps the embedded SQLite handle and implements store.Store.
type DB struct {
	db *sql.DB
}

var _ store.Store = (*DB)(nil)

// Open opens (or creates) the SQLite database at path and ensures the schema
// exists. The parent directory is created if needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	s := &DB{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database file.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS resumes (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    resume_text TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS jobs (
    id               TEXT PRIMARY KEY,
    company          TEXT NOT NULL,
    title            TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    url              TEXT NOT NULL DEFAULT '',
    jd_text          TEXT NOT NULL,
    status           TEXT NOT NULL DEFAULT 'Target',
    status_date      TEXT,
    applied_date     TEXT,
    followup_date    TEXT,
    finished_date    TEXT,
    finished_outcome TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS versions (
    id                  TEXT PRIMARY KEY,
    job_id              TEXT NOT NULL,
    base_resume_id      TEXT NOT NULL,
    version_name        TEXT NOT NULL,
    tailored_resume     TEXT NOT NULL,
    changes_summary     TEXT NOT NULL DEFAULT '[]',
    suggested_additions TEXT NOT NULL DEFAULT '[]',
    accuracy_checklist  TEXT NOT NULL DEFAULT '[]',
    created_at          TEXT NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return nil
}

// ---------- Resumes ----------

// CreateResume stores an immutable base resume.
func (s *DB) CreateResume(ctx context.Context, _ string, name, text string) (uuid.UUID, error) {
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, &store.ValidationError{Field: "name", Message: "resume name is required"}
	}
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, &store.ValidationError{Field: "resume_text", Message: "resume text is required"}
	}

	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, name, resume_text, created_at) VALUES (?, ?, ?, ?)`,
		id.String(), strings.TrimSpace(name), text, now(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// ListResumes returns resumes, most recent first.
func (s *DB) ListResumes(ctx context.Context, user string) ([]store.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, resume_text, created_at FROM resumes ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []store.Resume
	for rows.Next() {
		var r store.Resume
		var id, created string
		if err := rows.Scan(&id, &r.Name, &r.Text, &created); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt resume id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("corrupt resume timestamp %q: %w", created, err)
		}
		r.UserID = user // single-user mode: scope is echoed, not stored
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// GetResume returns a resume by id.
func (s *DB) GetResume(ctx context.Context, user string, id uuid.UUID) (*store.Resume, error) {
	var r store.Resume
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, resume_text, created_at FROM resumes WHERE id = ?`,
		id.String(),
	).Scan(&r.Name, &r.Text, &created)
	if err == sql.ErrNoRows {
		return nil, &store.NotFoundError{Kind: "resume", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	r.ID = id
	r.UserID = user
	if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("corrupt resume timestamp %q: %w", created, err)
	}
	return &r, nil
}

// ---------- Jobs ----------

// CreateJob stores a new job. An empty status defaults to Target.
func (s *DB) CreateJob(ctx context.Context, _ string, job store.NewJob) (uuid.UUID, error) {
	if err := job.Validate(); err != nil {
		return uuid.Nil, err
	}
	status := job.Status
	if status == "" {
		status = store.StatusTarget
	}

	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, company, title, location, url, jd_text, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), strings.TrimSpace(job.Company), strings.TrimSpace(job.Title),
		strings.TrimSpace(job.Location), strings.TrimSpace(job.URL), job.JDText,
		string(status), now(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// ListJobs returns jobs, most recent first.
func (s *DB) ListJobs(ctx context.Context, user string) ([]store.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company, title, location, url, jd_text, status, status_date,
		        applied_date, followup_date, finished_date, finished_outcome, notes, created_at
		 FROM jobs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []store.Job
	for rows.Next() {
		j, err := scanJob(rows, user)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// GetJob returns a job by id.
func (s *DB) GetJob(ctx context.Context, user string, id uuid.UUID) (*store.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, company, title, location, url, jd_text, status, status_date,
		        applied_date, followup_date, finished_date, finished_outcome, notes, created_at
		 FROM jobs WHERE id = ?`,
		id.String(),
	)
	j, err := scanJob(row, user)
	if err == sql.ErrNoRows {
		return nil, &store.NotFoundError{Kind: "job", ID: id.String()}
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// UpdateJobStatus overwrites status and status_date.
func (s *DB) UpdateJobStatus(ctx context.Context, _ string, id uuid.UUID, status store.Status, statusDate *time.Time) error {
	if !status.Valid() {
		return &store.ValidationError{Field: "status", Message: "unknown status: " + string(status)}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, status_date = ? WHERE id = ?`,
		string(status), dateOrNil(statusDate), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return checkFound(res, "job", id)
}

// UpdateJobDates replaces the reporting dates, outcome, and notes.
func (s *DB) UpdateJobDates(ctx context.Context, _ string, id uuid.UUID, dates store.JobDates) error {
	if err := dates.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs
		 SET applied_date = ?, followup_date = ?, finished_date = ?,
		     finished_outcome = ?, notes = ?
		 WHERE id = ?`,
		dateOrNil(dates.AppliedDate), dateOrNil(dates.FollowupDate),
		dateOrNil(dates.FinishedDate), string(dates.FinishedOutcome),
		strings.TrimSpace(dates.Notes), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update job dates: %w", err)
	}
	return checkFound(res, "job", id)
}

// ---------- Versions ----------

// CreateVersion stores an immutable generation result after checking that the
// job and base resume exist.
func (s *DB) CreateVersion(ctx context.Context, _ string, v store.NewVersion) (uuid.UUID, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE id = ?`, v.JobID.String()).Scan(&n); err != nil {
		return uuid.Nil, fmt.Errorf("failed to check job reference: %w", err)
	}
	if n == 0 {
		return uuid.Nil, &store.ValidationError{Field: "job_id", Message: "job does not exist: " + v.JobID.String()}
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes WHERE id = ?`, v.BaseResumeID.String()).Scan(&n); err != nil {
		return uuid.Nil, fmt.Errorf("failed to check resume reference: %w", err)
	}
	if n == 0 {
		return uuid.Nil, &store.ValidationError{Field: "base_resume_id", Message: "base resume does not exist: " + v.BaseResumeID.String()}
	}

	changes, err := encodeList(v.ChangesSummary)
	if err != nil {
		return uuid.Nil, err
	}
	additions, err := encodeList(v.SuggestedAdditions)
	if err != nil {
		return uuid.Nil, err
	}
	checklist, err := encodeList(v.AccuracyChecklist)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO versions (id, job_id, base_resume_id, version_name, tailored_resume,
		                       changes_summary, suggested_additions, accuracy_checklist, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), v.JobID.String(), v.BaseResumeID.String(), strings.TrimSpace(v.Name),
		v.TailoredText, changes, additions, checklist, now(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListVersionsForJob returns the job's versions, most recent first, annotated
// with the base resume's name.
func (s *DB) ListVersionsForJob(ctx context.Context, _ string, jobID uuid.UUID) ([]store.VersionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.id, v.version_name, v.tailored_resume, r.name, v.created_at
		 FROM versions v
		 JOIN resumes r ON r.id = v.base_resume_id
		 WHERE v.job_id = ?
		 ORDER BY v.created_at DESC, v.rowid DESC`,
		jobID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []store.VersionSummary
	for rows.Next() {
		var v store.VersionSummary
		var id, created string
		if err := rows.Scan(&id, &v.Name, &v.TailoredText, &v.ResumeName, &created); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if v.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt version id %q: %w", id, err)
		}
		if v.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("corrupt version timestamp %q: %w", created, err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// ---------- Reports ----------

// JobsReportRows returns every job flattened for tabular export.
func (s *DB) JobsReportRows(ctx context.Context, user string) ([]store.ReportRow, error) {
	jobs, err := s.ListJobs(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]store.ReportRow, 0, len(jobs))
	for i := range jobs {
		out = append(out, store.ReportRowFromJob(&jobs[i]))
	}
	return out, nil
}

// FollowupsDueRows returns jobs with followup_date set and on or before
// today, ascending. ISO date strings compare lexicographically.
func (s *DB) FollowupsDueRows(ctx context.Context, _ string, today time.Time) ([]store.FollowupRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, company, title, followup_date, status
		 FROM jobs
		 WHERE followup_date IS NOT NULL AND followup_date <= ?
		 ORDER BY followup_date ASC`,
		today.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list followups due: %w", err)
	}
	defer rows.Close()

	var due []store.FollowupRow
	for rows.Next() {
		var f store.FollowupRow
		var id, followup, status string
		if err := rows.Scan(&id, &f.Company, &f.Title, &followup, &status); err != nil {
			return nil, fmt.Errorf("failed to scan followup row: %w", err)
		}
		if f.JobID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("corrupt job id %q: %w", id, err)
		}
		if f.FollowupDate, err = time.Parse(dateLayout, followup); err != nil {
			return nil, fmt.Errorf("corrupt followup date %q: %w", followup, err)
		}
		f.Status = store.Status(status)
		due = append(due, f)
	}
	return due, rows.Err()
}

// ---------- helpers ----------

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode version list: %w", err)
	}
	return string(b), nil
}

func checkFound(res sql.Result, kind string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return &store.NotFoundError{Kind: kind, ID: id.String()}
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanJob.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner, user string) (*store.Job, error) {
	var j store.Job
	var id, status, outcome, created string
	var statusDate, appliedDate, followupDate, finishedDate sql.NullString

	err := row.Scan(&id, &j.Company, &j.Title, &j.Location, &j.URL, &j.JDText,
		&status, &statusDate, &appliedDate, &followupDate, &finishedDate,
		&outcome, &j.Notes, &created)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt job id %q: %w", id, err)
	}
	if j.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("corrupt job timestamp %q: %w", created, err)
	}
	for _, f := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{statusDate, &j.StatusDate},
		{appliedDate, &j.AppliedDate},
		{followupDate, &j.FollowupDate},
		{finishedDate, &j.FinishedDate},
	} {
		if f.src.Valid && f.src.String != "" {
			d, err := time.Parse(dateLayout, f.src.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt date %q: %w", f.src.String, err)
			}
			*f.dst = &d
		}
	}
	j.UserID = user
	j.Status = store.Status(status)
	j.FinishedOutcome = store.Outcome(outcome)
	return &j, nil
}
