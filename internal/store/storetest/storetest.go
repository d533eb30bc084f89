// Package storetest provides an in-memory Store implementation for tests.
// It honors the same validation, scoping, and ordering contract as the real
// backends so orchestration and handler tests can run without a database.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/store"
)

// Store is an in-memory store.Store. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	resumes []store.Resume
	jobs    []store.Job
	// versions are stored with the base resume name pre-resolved.
	versions []store.VersionSummary
	byJob    map[uuid.UUID][]int

	// Err, when set, is returned by every operation. Lets tests exercise
	// storage failure paths.
	Err error

	clock func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		byJob: make(map[uuid.UUID][]int),
		clock: time.Now,
	}
}

// SetClock overrides the timestamp source for deterministic ordering tests.
func (s *Store) SetClock(clock func() time.Time) { s.clock = clock }

func (s *Store) CreateResume(_ context.Context, user, name, text string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return uuid.Nil, s.Err
	}
	if strings.TrimSpace(name) == "" {
		return uuid.Nil, &store.ValidationError{Field: "name", Message: "resume name is required"}
	}
	if strings.TrimSpace(text) == "" {
		return uuid.Nil, &store.ValidationError{Field: "resume_text", Message: "resume text is required"}
	}
	r := store.Resume{
		ID:        uuid.New(),
		UserID:    user,
		Name:      name,
		Text:      text,
		CreatedAt: s.clock(),
	}
	s.resumes = append(s.resumes, r)
	return r.ID, nil
}

func (s *Store) ListResumes(_ context.Context, user string) ([]store.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.Resume, 0)
	for i := len(s.resumes) - 1; i >= 0; i-- {
		if s.resumes[i].UserID == user {
			out = append(out, s.resumes[i])
		}
	}
	return out, nil
}

func (s *Store) GetResume(_ context.Context, user string, id uuid.UUID) (*store.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.resumes {
		if s.resumes[i].ID == id && s.resumes[i].UserID == user {
			r := s.resumes[i]
			return &r, nil
		}
	}
	return nil, &store.NotFoundError{Kind: "resume", ID: id.String()}
}

func (s *Store) CreateJob(_ context.Context, user string, job store.NewJob) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return uuid.Nil, s.Err
	}
	if err := job.Validate(); err != nil {
		return uuid.Nil, err
	}
	status := job.Status
	if status == "" {
		status = store.StatusTarget
	}
	j := store.Job{
		ID:        uuid.New(),
		UserID:    user,
		Company:   job.Company,
		Title:     job.Title,
		Location:  job.Location,
		URL:       job.URL,
		JDText:    job.JDText,
		Status:    status,
		CreatedAt: s.clock(),
	}
	s.jobs = append(s.jobs, j)
	return j.ID, nil
}

func (s *Store) ListJobs(_ context.Context, user string) ([]store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.Job, 0)
	for i := len(s.jobs) - 1; i >= 0; i-- {
		if s.jobs[i].UserID == user {
			out = append(out, s.jobs[i])
		}
	}
	return out, nil
}

func (s *Store) GetJob(_ context.Context, user string, id uuid.UUID) (*store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getJobLocked(user, id)
}

func (s *Store) getJobLocked(user string, id uuid.UUID) (*store.Job, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.jobs {
		if s.jobs[i].ID == id && s.jobs[i].UserID == user {
			j := s.jobs[i]
			return &j, nil
		}
	}
	return nil, &store.NotFoundError{Kind: "job", ID: id.String()}
}

func (s *Store) UpdateJobStatus(_ context.Context, user string, id uuid.UUID, status store.Status, statusDate *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.jobs {
		if s.jobs[i].ID == id && s.jobs[i].UserID == user {
			s.jobs[i].Status = status
			s.jobs[i].StatusDate = statusDate
			return nil
		}
	}
	return &store.NotFoundError{Kind: "job", ID: id.String()}
}

func (s *Store) UpdateJobDates(_ context.Context, user string, id uuid.UUID, dates store.JobDates) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if err := dates.Validate(); err != nil {
		return err
	}
	for i := range s.jobs {
		if s.jobs[i].ID == id && s.jobs[i].UserID == user {
			s.jobs[i].AppliedDate = dates.AppliedDate
			s.jobs[i].FollowupDate = dates.FollowupDate
			s.jobs[i].FinishedDate = dates.FinishedDate
			s.jobs[i].FinishedOutcome = dates.FinishedOutcome
			s.jobs[i].Notes = dates.Notes
			return nil
		}
	}
	return &store.NotFoundError{Kind: "job", ID: id.String()}
}

func (s *Store) CreateVersion(_ context.Context, user string, v store.NewVersion) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return uuid.Nil, s.Err
	}
	if _, err := s.getJobLocked(user, v.JobID); err != nil {
		return uuid.Nil, &store.ValidationError{Field: "job_id", Message: "job does not exist"}
	}
	var resumeName string
	found := false
	for i := range s.resumes {
		if s.resumes[i].ID == v.BaseResumeID && s.resumes[i].UserID == user {
			resumeName = s.resumes[i].Name
			found = true
			break
		}
	}
	if !found {
		return uuid.Nil, &store.ValidationError{Field: "base_resume_id", Message: "base resume does not exist"}
	}
	sum := store.VersionSummary{
		ID:           uuid.New(),
		Name:         v.Name,
		TailoredText: v.TailoredText,
		ResumeName:   resumeName,
		CreatedAt:    s.clock(),
	}
	s.versions = append(s.versions, sum)
	s.byJob[v.JobID] = append(s.byJob[v.JobID], len(s.versions)-1)
	return sum.ID, nil
}

func (s *Store) ListVersionsForJob(_ context.Context, user string, jobID uuid.UUID) ([]store.VersionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, err := s.getJobLocked(user, jobID); err != nil {
		return nil, err
	}
	idxs := s.byJob[jobID]
	out := make([]store.VersionSummary, 0, len(idxs))
	for i := len(idxs) - 1; i >= 0; i-- {
		out = append(out, s.versions[idxs[i]])
	}
	return out, nil
}

func (s *Store) JobsReportRows(_ context.Context, user string) ([]store.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.ReportRow, 0)
	for i := len(s.jobs) - 1; i >= 0; i-- {
		if s.jobs[i].UserID == user {
			out = append(out, store.ReportRowFromJob(&s.jobs[i]))
		}
	}
	return out, nil
}

func (s *Store) FollowupsDueRows(_ context.Context, user string, today time.Time) ([]store.FollowupRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]store.FollowupRow, 0)
	for i := range s.jobs {
		j := s.jobs[i]
		if j.UserID != user || j.FollowupDate == nil || j.FollowupDate.After(today) {
			continue
		}
		out = append(out, store.FollowupRow{
			JobID:        j.ID,
			Company:      j.Company,
			Title:        j.Title,
			FollowupDate: *j.FollowupDate,
			Status:       j.Status,
		})
	}
	// ascending by followup date, matching the backends
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && out[k].FollowupDate.Before(out[k-1].FollowupDate); k-- {
			out[k], out[k-1] = out[k-1], out[k]
		}
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
