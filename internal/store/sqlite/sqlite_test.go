package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResumeRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateResume(ctx, "local", "Base", "line1\nline2")
	if err != nil {
		t.Fatalf("CreateResume failed: %v", err)
	}

	resume, err := db.GetResume(ctx, "local", id)
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if resume.Name != "Base" || resume.Text != "line1\nline2" {
		t.Errorf("resume = %+v", resume)
	}
	if resume.UserID != "local" {
		t.Errorf("UserID = %q, want echoed scope", resume.UserID)
	}

	resumes, err := db.ListResumes(ctx, "local")
	if err != nil {
		t.Fatalf("ListResumes failed: %v", err)
	}
	if len(resumes) != 1 {
		t.Fatalf("len(resumes) = %d", len(resumes))
	}
}

func TestCreateResume_Validation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for name, args := range map[string][2]string{
		"empty name": {"  ", "text"},
		"empty text": {"Base", " \n "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := db.CreateResume(ctx, "local", args[0], args[1])
			var ve *store.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestGetResume_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetResume(context.Background(), "local", uuid.New())
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestJobRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.CreateJob(ctx, "local", store.NewJob{
		Company:  "Acme",
		Title:    "Staff Engineer",
		Location: "Remote",
		URL:      "https://jobs.example/1",
		JDText:   "Build the platform.",
	})
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	job, err := db.GetJob(ctx, "local", id)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Company != "Acme" || job.Status != store.StatusTarget {
		t.Errorf("job = %+v", job)
	}
	if job.StatusDate != nil || job.AppliedDate != nil {
		t.Error("new job should carry no dates")
	}
}

func TestCreateJob_Validation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.CreateJob(ctx, "local", store.NewJob{Company: "", JDText: "x"})
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	jobs, err := db.ListJobs(ctx, "local")
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Error("failed create must not leave a row")
	}
}

func TestUpdateJobStatusAndDates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, _ := db.CreateJob(ctx, "local", store.NewJob{Company: "Acme", JDText: "x"})

	d := date(2024, 1, 15)
	if err := db.UpdateJobStatus(ctx, "local", id, store.StatusApplied, d); err != nil {
		t.Fatalf("UpdateJobStatus failed: %v", err)
	}

	if err := db.UpdateJobDates(ctx, "local", id, store.JobDates{
		AppliedDate:     d,
		FollowupDate:    date(2024, 1, 22),
		FinishedOutcome: store.OutcomeNone,
		Notes:           "referred",
	}); err != nil {
		t.Fatalf("UpdateJobDates failed: %v", err)
	}

	job, err := db.GetJob(ctx, "local", id)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != store.StatusApplied || job.StatusDate == nil || !job.StatusDate.Equal(*d) {
		t.Errorf("status = %q %v", job.Status, job.StatusDate)
	}
	if job.AppliedDate == nil || job.FollowupDate == nil || job.Notes != "referred" {
		t.Errorf("dates = %+v", job)
	}

	// Full replace: clearing everything leaves no dates behind.
	if err := db.UpdateJobDates(ctx, "local", id, store.JobDates{}); err != nil {
		t.Fatalf("UpdateJobDates failed: %v", err)
	}
	job, _ = db.GetJob(ctx, "local", id)
	if job.AppliedDate != nil || job.FollowupDate != nil || job.Notes != "" {
		t.Errorf("dates not cleared: %+v", job)
	}
}

func TestUpdateJobStatus_UnknownJob(t *testing.T) {
	db := openTestDB(t)

	err := db.UpdateJobStatus(context.Background(), "local", uuid.New(), store.StatusApplied, date(2024, 1, 1))
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestVersions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	jobID, _ := db.CreateJob(ctx, "local", store.NewJob{Company: "Acme", JDText: "x"})
	resumeID, _ := db.CreateResume(ctx, "local", "Base", "text")

	id, err := db.CreateVersion(ctx, "local", store.NewVersion{
		JobID:          jobID,
		BaseResumeID:   resumeID,
		Name:           "v1",
		TailoredText:   "tailored",
		ChangesSummary: []string{"reordered"},
	})
	if err != nil {
		t.Fatalf("CreateVersion failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("version id is nil")
	}

	versions, err := db.ListVersionsForJob(ctx, "local", jobID)
	if err != nil {
		t.Fatalf("ListVersionsForJob failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("len(versions) = %d", len(versions))
	}
	if versions[0].Name != "v1" || versions[0].ResumeName != "Base" {
		t.Errorf("version = %+v", versions[0])
	}
}

func TestCreateVersion_DanglingReferences(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	jobID, _ := db.CreateJob(ctx, "local", store.NewJob{Company: "Acme", JDText: "x"})
	resumeID, _ := db.CreateResume(ctx, "local", "Base", "text")

	tests := []struct {
		name string
		v    store.NewVersion
	}{
		{"missing job", store.NewVersion{JobID: uuid.New(), BaseResumeID: resumeID, Name: "v1"}},
		{"missing resume", store.NewVersion{JobID: jobID, BaseResumeID: uuid.New(), Name: "v1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.CreateVersion(ctx, "local", tt.v)
			var ve *store.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}
}

func TestFollowupsDueRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mk := func(company string, followup *time.Time) {
		id, err := db.CreateJob(ctx, "local", store.NewJob{Company: company, JDText: "x"})
		if err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
		if err := db.UpdateJobDates(ctx, "local", id, store.JobDates{FollowupDate: followup}); err != nil {
			t.Fatalf("UpdateJobDates failed: %v", err)
		}
	}

	mk("Late", date(2024, 1, 20))
	mk("Early", date(2024, 1, 5))
	mk("Future", date(2024, 3, 1))
	mk("None", nil)

	due, err := db.FollowupsDueRows(ctx, "local", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FollowupsDueRows failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2", len(due))
	}
	if due[0].Company != "Early" || due[1].Company != "Late" {
		t.Errorf("order = %q, %q; want Early then Late", due[0].Company, due[1].Company)
	}
}

func TestJobsReportRows(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, _ := db.CreateJob(ctx, "local", store.NewJob{Company: "Acme", JDText: "x"})
	if err := db.UpdateJobDates(ctx, "local", id, store.JobDates{AppliedDate: date(2024, 1, 15)}); err != nil {
		t.Fatalf("UpdateJobDates failed: %v", err)
	}

	rows, err := db.JobsReportRows(ctx, "local")
	if err != nil {
		t.Fatalf("JobsReportRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d", len(rows))
	}
	if rows[0].Company != "Acme" || rows[0].AppliedDate != "01/15/2024" {
		t.Errorf("row = %+v", rows[0])
	}
	if rows[0].FollowupDate != "" {
		t.Errorf("FollowupDate = %q, want empty", rows[0].FollowupDate)
	}
}
