// Package tracker enforces the job lifecycle rules that run at the boundary
// before persistence: the required status date, first-write-wins date
// auto-fill, and the follow-ups-due reporting policy.
//
// There is no transition table. Any status may follow any other; the pipeline
// is free-form. Target is the initial status and Finished is terminal by
// convention only.
package tracker

import (
	"time"

	"github.com/jonathan/job-tailor/internal/store"
)

// StatusChange is the outcome of applying the lifecycle rules to a requested
// status update: the pure status write plus any date auto-fill side effect.
type StatusChange struct {
	Status     store.Status
	StatusDate *time.Time

	// FillAppliedDate / FillFinishedDate carry a first-write auto-fill for
	// the corresponding reporting date, or nil when no fill applies.
	FillAppliedDate  *time.Time
	FillFinishedDate *time.Time
}

// ApplyStatusChange validates a requested status update against the current
// job state and computes the auto-fill side effects.
//
// Rules:
//   - status must be a member of the fixed set
//   - any status other than Target requires a date
//   - moving to Applied fills applied_date only if currently unset
//   - moving to Finished fills finished_date only if currently unset
func ApplyStatusChange(job *store.Job, status store.Status, statusDate *time.Time) (*StatusChange, error) {
	if !status.Valid() {
		return nil, &store.ValidationError{Field: "status", Message: "unknown status: " + string(status)}
	}
	if status != store.StatusTarget && statusDate == nil {
		return nil, &store.ValidationError{Field: "status_date", Message: "a date is required for status " + string(status)}
	}

	change := &StatusChange{Status: status, StatusDate: statusDate}
	if statusDate != nil {
		if status == store.StatusApplied && job.AppliedDate == nil {
			change.FillAppliedDate = statusDate
		}
		if status == store.StatusFinished && job.FinishedDate == nil {
			change.FillFinishedDate = statusDate
		}
	}
	return change, nil
}

// Dates returns the job's reporting dates with the change's auto-fill
// applied, suitable for a full-replace UpdateJobDates write.
func (c *StatusChange) Dates(job *store.Job) store.JobDates {
	dates := store.JobDates{
		AppliedDate:     job.AppliedDate,
		FollowupDate:    job.FollowupDate,
		FinishedDate:    job.FinishedDate,
		FinishedOutcome: job.FinishedOutcome,
		Notes:           job.Notes,
	}
	if c.FillAppliedDate != nil {
		dates.AppliedDate = c.FillAppliedDate
	}
	if c.FillFinishedDate != nil {
		dates.FinishedDate = c.FillFinishedDate
	}
	return dates
}

// HasFill reports whether the change carries any date auto-fill.
func (c *StatusChange) HasFill() bool {
	return c.FillAppliedDate != nil || c.FillFinishedDate != nil
}

// DueFollowups applies the reporting policy to the store's unfiltered
// follow-ups-due rows: jobs already Finished are excluded. The store keeps
// returning unfiltered rows; this is the only place the policy lives.
func DueFollowups(rows []store.FollowupRow) []store.FollowupRow {
	due := make([]store.FollowupRow, 0, len(rows))
	for _, row := range rows {
		if row.Status == store.StatusFinished {
			continue
		}
		due = append(due, row)
	}
	return due
}
