package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the pipeline stage label for a job. The set is fixed; the order
// below is display order, not an enforced progression — any status may follow
// any other.
type Status string

const (
	StatusTarget         Status = "Target"
	StatusApplied        Status = "Applied"
	StatusRecruiter      Status = "Recruiter Screen"
	StatusHiringManager  Status = "Hiring Manager"
	StatusPanel          Status = "Panel"
	StatusFinalRound     Status = "Final Round"
	StatusOffer          Status = "Offer"
	StatusFinished       Status = "Finished"
	StatusPaused         Status = "Paused"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusTarget,
	StatusApplied,
	StatusRecruiter,
	StatusHiringManager,
	StatusPanel,
	StatusFinalRound,
	StatusOffer,
	StatusFinished,
	StatusPaused,
}

// Valid reports whether s is a member of the fixed status set.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Outcome records how a finished application ended. Meaningful once the
// status is Finished, but settable at any time.
type Outcome string

const (
	OutcomeNone          Outcome = ""
	OutcomeNotSelected   Outcome = "Not selected"
	OutcomeWithdrew      Outcome = "Withdrew"
	OutcomeRoleClosed    Outcome = "Role closed"
	OutcomeOfferDeclined Outcome = "Offer declined"
	OutcomeOfferAccepted Outcome = "Offer accepted"
)

// Outcomes lists every finished outcome, including the empty default.
var Outcomes = []Outcome{
	OutcomeNone,
	OutcomeNotSelected,
	OutcomeWithdrew,
	OutcomeRoleClosed,
	OutcomeOfferDeclined,
	OutcomeOfferAccepted,
}

// Valid reports whether o is a member of the fixed outcome set.
func (o Outcome) Valid() bool {
	for _, known := range Outcomes {
		if o == known {
			return true
		}
	}
	return false
}

// PastedURL is the sentinel stored when a job was created from pasted text
// rather than a posting URL.
const PastedURL = "(pasted)"

// DisplayDateFormat is the MM/DD/YYYY layout used in report rows.
const DisplayDateFormat = "01/02/2006"

// Resume is an immutable base resume. There is no update operation.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Text      string    `json:"resume_text"`
	CreatedAt time.Time `json:"created_at"`
}

// Job is a tracked job posting and its pipeline state.
type Job struct {
	ID              uuid.UUID  `json:"id"`
	UserID          string     `json:"user_id"`
	Company         string     `json:"company"` // shown as "Job Name"
	Title           string     `json:"title,omitempty"`
	Location        string     `json:"location,omitempty"`
	URL             string     `json:"url"`
	JDText          string     `json:"jd_text"`
	Status          Status     `json:"status"`
	StatusDate      *time.Time `json:"status_date,omitempty"`
	AppliedDate     *time.Time `json:"applied_date,omitempty"`
	FollowupDate    *time.Time `json:"followup_date,omitempty"`
	FinishedDate    *time.Time `json:"finished_date,omitempty"`
	FinishedOutcome Outcome    `json:"finished_outcome,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewJob is the input for Store.CreateJob.
type NewJob struct {
	Company  string
	Title    string
	Location string
	URL      string
	JDText   string
	Status   Status
}

// Validate checks the required-field invariants for a job about to be
// persisted. Both backends call this before writing.
func (n *NewJob) Validate() error {
	if strings.TrimSpace(n.Company) == "" {
		return &ValidationError{Field: "company", Message: "company is required"}
	}
	if strings.TrimSpace(n.JDText) == "" {
		return &ValidationError{Field: "jd_text", Message: "job description text is required"}
	}
	if n.Status != "" && !n.Status.Valid() {
		return &ValidationError{Field: "status", Message: "unknown status: " + string(n.Status)}
	}
	return nil
}

// JobDates is the input for Store.UpdateJobDates. Absent values clear the
// stored fields.
type JobDates struct {
	AppliedDate     *time.Time
	FollowupDate    *time.Time
	FinishedDate    *time.Time
	FinishedOutcome Outcome
	Notes           string
}

// Validate checks that the outcome, if set, is a known value.
func (d *JobDates) Validate() error {
	if !d.FinishedOutcome.Valid() {
		return &ValidationError{Field: "finished_outcome", Message: "unknown outcome: " + string(d.FinishedOutcome)}
	}
	return nil
}

// Version is an immutable tailored-resume generation result tied to a job and
// the base resume it was generated from.
type Version struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"user_id"`
	JobID              uuid.UUID `json:"job_id"`
	BaseResumeID       uuid.UUID `json:"base_resume_id"`
	Name               string    `json:"version_name"`
	TailoredText       string    `json:"tailored_resume"`
	ChangesSummary     []string  `json:"changes_summary"`
	SuggestedAdditions []string  `json:"suggested_additions"`
	AccuracyChecklist  []string  `json:"accuracy_checklist"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewVersion is the input for Store.CreateVersion.
type NewVersion struct {
	JobID              uuid.UUID
	BaseResumeID       uuid.UUID
	Name               string
	TailoredText       string
	ChangesSummary     []string
	SuggestedAdditions []string
	AccuracyChecklist  []string
}

// VersionSummary is a version annotated with the base resume's name, as
// returned by ListVersionsForJob.
type VersionSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"version_name"`
	TailoredText string    `json:"tailored_resume"`
	ResumeName   string    `json:"resume_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportRow is one flattened job for tabular export. Dates are already
// formatted for display; the export package maps fields to display headers.
type ReportRow struct {
	JobID           uuid.UUID `json:"id"`
	Company         string    `json:"company"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	URL             string    `json:"url"`
	Status          Status    `json:"status"`
	AppliedDate     string    `json:"applied_date"`
	FollowupDate    string    `json:"followup_date"`
	FinishedDate    string    `json:"finished_date"`
	FinishedOutcome Outcome   `json:"finished_outcome"`
	Notes           string    `json:"notes"`
	CreatedDate     string    `json:"created_date"`
}

// FollowupRow is one job in the follow-ups-due report.
type FollowupRow struct {
	JobID        uuid.UUID `json:"id"`
	Company      string    `json:"company"`
	Title        string    `json:"title"`
	FollowupDate time.Time `json:"followup_date"`
	Status       Status    `json:"status"`
}

// FormatDate renders a nullable date in the display format, or "" when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DisplayDateFormat)
}

// ReportRowFromJob flattens a job into a display-formatted report row.
func ReportRowFromJob(j *Job) ReportRow {
	return ReportRow{
		JobID:           j.ID,
		Company:         j.Company,
		Title:           j.Title,
		Location:        j.Location,
		URL:             j.URL,
		Status:          j.Status,
		AppliedDate:     FormatDate(j.AppliedDate),
		FollowupDate:    FormatDate(j.FollowupDate),
		FinishedDate:    FormatDate(j.FinishedDate),
		FinishedOutcome: j.FinishedOutcome,
		Notes:           j.Notes,
		CreatedDate:     j.CreatedAt.Format(DisplayDateFormat),
	}
}
