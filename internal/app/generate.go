package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/store"
)

// Generation is an unsaved tailoring result. Nothing is persisted until the
// caller saves it as a version; regenerating simply produces a new Generation.
type Generation struct {
	JobID        uuid.UUID        `json:"job_id"`
	BaseResumeID uuid.UUID        `json:"base_resume_id"`
	Result       *llm.TailorResult `json:"result"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Generate tailors a base resume against a job's description. Concurrent
// calls for the same user/job/resume share one model call. The result is
// returned, not stored; Result.TailoredResume may be empty and the caller
// decides how to surface that.
func (s *Service) Generate(ctx context.Context, user string, jobID, resumeID uuid.UUID) (*Generation, error) {
	job, err := s.store.GetJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	resume, err := s.store.GetResume(ctx, user, resumeID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s|%s|%s", user, jobID, resumeID)
	v, err, _ := s.generating.Do(key, func() (any, error) {
		result, err := llm.TailorResume(ctx, s.gen, resume.Text, job.JDText)
		if err != nil {
			return nil, err
		}
		return &Generation{
			JobID:        jobID,
			BaseResumeID: resumeID,
			Result:       result,
			CreatedAt:    s.now(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Generation), nil
}

// SaveVersion persists a generation as an immutable version under name.
func (s *Service) SaveVersion(ctx context.Context, user, name string, g *Generation) (uuid.UUID, error) {
	if g == nil || g.Result == nil {
		return uuid.Nil, &store.ValidationError{Field: "generation", Message: "nothing generated yet"}
	}
	return s.store.CreateVersion(ctx, user, store.NewVersion{
		JobID:              g.JobID,
		BaseResumeID:       g.BaseResumeID,
		Name:               name,
		TailoredText:       g.Result.TailoredResume,
		ChangesSummary:     g.Result.ChangesSummary,
		SuggestedAdditions: g.Result.SuggestedAdditions,
		AccuracyChecklist:  g.Result.AccuracyChecklist,
	})
}
