// Package app orchestrates the store, the lifecycle rules, and the model
// client into the operations the HTTP handlers and CLI commands expose.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/resumetext"
	"github.com/jonathan/job-tailor/internal/store"
	"github.com/jonathan/job-tailor/internal/tracker"
)

// Service wires persistence and generation together. One Service serves all
// users; every method takes the caller's user scope.
type Service struct {
	store store.Store
	gen   llm.Generator

	// generating collapses concurrent duplicate tailoring requests for the
	// same user/job/resume into one model call.
	generating singleflight.Group

	now func() time.Time
}

func NewService(st store.Store, gen llm.Generator) *Service {
	return &Service{store: st, gen: gen, now: time.Now}
}

// SaveResume normalizes and stores a base resume.
func (s *Service) SaveResume(ctx context.Context, user, name, text string) (uuid.UUID, error) {
	name = strings.TrimSpace(name)
	text = resumetext.Normalize(text)
	return s.store.CreateResume(ctx, user, name, text)
}

func (s *Service) Resumes(ctx context.Context, user string) ([]store.Resume, error) {
	return s.store.ListResumes(ctx, user)
}

func (s *Service) Resume(ctx context.Context, user string, id uuid.UUID) (*store.Resume, error) {
	return s.store.GetResume(ctx, user, id)
}

// ExtractJob asks the model to read a job posting URL. An ExtractionError
// means the page was unreadable; the caller then collects pasted text instead.
func (s *Service) ExtractJob(ctx context.Context, url string) (*llm.JobExtract, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &store.ValidationError{Field: "url", Message: "url is required"}
	}
	return llm.ExtractJobFromURL(ctx, s.gen, url)
}

// AddJob stores a new job. A job created from pasted text has no posting URL;
// the pasted sentinel is stored so the report column is never blank.
func (s *Service) AddJob(ctx context.Context, user string, job store.NewJob) (uuid.UUID, error) {
	if strings.TrimSpace(job.URL) == "" {
		job.URL = store.PastedURL
	}
	return s.store.CreateJob(ctx, user, job)
}

func (s *Service) Jobs(ctx context.Context, user string) ([]store.Job, error) {
	return s.store.ListJobs(ctx, user)
}

func (s *Service) Job(ctx context.Context, user string, id uuid.UUID) (*store.Job, error) {
	return s.store.GetJob(ctx, user, id)
}

// UpdateStatus applies the lifecycle rules to a requested status change and
// persists it, including any first-write date auto-fill.
func (s *Service) UpdateStatus(ctx context.Context, user string, id uuid.UUID, status store.Status, statusDate *time.Time) (*store.Job, error) {
	job, err := s.store.GetJob(ctx, user, id)
	if err != nil {
		return nil, err
	}
	change, err := tracker.ApplyStatusChange(job, status, statusDate)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateJobStatus(ctx, user, id, change.Status, change.StatusDate); err != nil {
		return nil, err
	}
	if change.HasFill() {
		if err := s.store.UpdateJobDates(ctx, user, id, change.Dates(job)); err != nil {
			return nil, err
		}
	}
	return s.store.GetJob(ctx, user, id)
}

// SaveDates replaces a job's reporting dates, outcome, and notes.
func (s *Service) SaveDates(ctx context.Context, user string, id uuid.UUID, dates store.JobDates) (*store.Job, error) {
	if err := dates.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.GetJob(ctx, user, id); err != nil {
		return nil, err
	}
	if err := s.store.UpdateJobDates(ctx, user, id, dates); err != nil {
		return nil, err
	}
	return s.store.GetJob(ctx, user, id)
}

// JobsReport returns every job flattened for tabular export.
func (s *Service) JobsReport(ctx context.Context, user string) ([]store.ReportRow, error) {
	return s.store.JobsReportRows(ctx, user)
}

// FollowupsDue returns the jobs whose follow-up date has arrived, oldest
// first, with finished jobs excluded.
func (s *Service) FollowupsDue(ctx context.Context, user string) ([]store.FollowupRow, error) {
	rows, err := s.store.FollowupsDueRows(ctx, user, s.now())
	if err != nil {
		return nil, err
	}
	return tracker.DueFollowups(rows), nil
}

func (s *Service) Versions(ctx context.Context, user string, jobID uuid.UUID) ([]store.VersionSummary, error) {
	return s.store.ListVersionsForJob(ctx, user, jobID)
}
