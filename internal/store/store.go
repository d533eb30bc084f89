// Package store defines the persistence contract for resumes, jobs, and
// tailored resume versions, plus the entity types shared by both backends.
//
// Two implementations exist: store/postgres (user-scoped, server-side) and
// store/sqlite (legacy single-user, embedded file). Both satisfy Store and are
// selected by configuration. Every operation is scoped by a free-text user
// identifier; the sqlite backend treats the scope as a no-op.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence repository contract. All reads and writes are
// filtered by the caller's user identifier: a user never observes rows owned
// by another user. Writes are durable and atomic per call.
//
// Store performs required-field validation (non-empty company, jd_text, name)
// and referential checks only. Lifecycle rules such as the required status
// date and date auto-fill belong to the tracker package and run before any
// Store call.
type Store interface {
	// CreateResume stores an immutable base resume. Returns a ValidationError
	// if name or text is empty.
	CreateResume(ctx context.Context, user, name, text string) (uuid.UUID, error)
	// ListResumes returns the user's resumes, most recent first.
	ListResumes(ctx context.Context, user string) ([]Resume, error)
	// GetResume returns a resume by id. Returns a NotFoundError if the row is
	// absent or owned by another user.
	GetResume(ctx context.Context, user string, id uuid.UUID) (*Resume, error)

	// CreateJob stores a new job. Returns a ValidationError if company or
	// jd_text is empty. An empty status defaults to StatusTarget.
	CreateJob(ctx context.Context, user string, job NewJob) (uuid.UUID, error)
	// ListJobs returns the user's jobs, most recent first.
	ListJobs(ctx context.Context, user string) ([]Job, error)
	// GetJob returns a job by id with NotFoundError semantics as GetResume.
	GetJob(ctx context.Context, user string, id uuid.UUID) (*Job, error)
	// UpdateJobStatus overwrites status and status_date. It is a pure write:
	// the required-date rule is the caller's responsibility.
	UpdateJobStatus(ctx context.Context, user string, id uuid.UUID, status Status, statusDate *time.Time) error
	// UpdateJobDates replaces the applied/followup/finished dates, the
	// finished outcome, and the notes. This is a full replace, not a merge:
	// nil dates and empty strings clear the stored values.
	UpdateJobDates(ctx context.Context, user string, id uuid.UUID, dates JobDates) error

	// CreateVersion stores an immutable generation result. Returns a
	// ValidationError when the job or base resume does not resolve to an
	// existing same-user row.
	CreateVersion(ctx context.Context, user string, v NewVersion) (uuid.UUID, error)
	// ListVersionsForJob returns the job's versions, most recent first, each
	// annotated with the base resume's name.
	ListVersionsForJob(ctx context.Context, user string, jobID uuid.UUID) ([]VersionSummary, error)

	// JobsReportRows returns every job flattened for tabular export, with
	// dates pre-formatted for display.
	JobsReportRows(ctx context.Context, user string) ([]ReportRow, error)
	// FollowupsDueRows returns jobs whose followup_date is set and on or
	// before today, ordered by followup_date ascending. The store does not
	// filter by status; tracker.DueFollowups owns that policy.
	FollowupsDueRows(ctx context.Context, user string, today time.Time) ([]FollowupRow, error)

	// Close releases the underlying connection pool or file handle.
	Close() error
}
