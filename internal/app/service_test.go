package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/store"
	"github.com/jonathan/job-tailor/internal/store/storetest"
)

// fakeGenerator returns text as the primary response for every call.
type fakeGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	block chan struct{}
}

func (f *fakeGenerator) Generate(_ context.Context, _ llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{
		PrimaryText: f.text,
		Candidates:  []llm.Candidate{{TextFragments: []string{f.text}}},
	}, nil
}

func (f *fakeGenerator) Close() error { return nil }

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const testUser = "jane@example.com"

func newTestService(gen llm.Generator) (*Service, *storetest.Store) {
	st := storetest.New()
	if gen == nil {
		gen = &fakeGenerator{text: `{"tailored_resume":"x"}`}
	}
	return NewService(st, gen), st
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSaveResume_Normalizes(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, err := svc.SaveResume(ctx, testUser, "  Base  ", "line1\r\n\r\nline2\r\n")
	if err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}

	resume, err := svc.Resume(ctx, testUser, id)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resume.Name != "Base" {
		t.Errorf("Name = %q, want trimmed", resume.Name)
	}
	if resume.Text != "line1\nline2" {
		t.Errorf("Text = %q, want normalized", resume.Text)
	}
}

func TestSaveResume_EmptyTextRejected(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SaveResume(context.Background(), testUser, "Base", "  \n \n")
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestAddJob_PastedSentinel(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, err := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	job, err := svc.Job(ctx, testUser, id)
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if job.URL != store.PastedURL {
		t.Errorf("URL = %q, want pasted sentinel", job.URL)
	}
	if job.Status != store.StatusTarget {
		t.Errorf("Status = %q, want Target default", job.Status)
	}
}

func TestAddJob_KeepsURL(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, err := svc.AddJob(ctx, testUser, store.NewJob{
		Company: "Acme", JDText: "build", URL: "https://jobs.example/1",
	})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	job, _ := svc.Job(ctx, testUser, id)
	if job.URL != "https://jobs.example/1" {
		t.Errorf("URL = %q", job.URL)
	}
}

func TestExtractJob_UnreadableURL(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{text: "I cannot read that page."})

	_, err := svc.ExtractJob(context.Background(), "https://jobs.example/blocked")
	var ee *llm.ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want ExtractionError", err)
	}
}

func TestUpdateStatus_AutoFillsAppliedDate(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, _ := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})

	d := date(2024, 1, 15)
	job, err := svc.UpdateStatus(ctx, testUser, id, store.StatusApplied, d)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if job.Status != store.StatusApplied {
		t.Errorf("Status = %q", job.Status)
	}
	if job.AppliedDate == nil || !job.AppliedDate.Equal(*d) {
		t.Errorf("AppliedDate = %v, want %v", job.AppliedDate, d)
	}

	// Re-applying later must not move the original applied date.
	later := date(2024, 2, 1)
	job, err = svc.UpdateStatus(ctx, testUser, id, store.StatusApplied, later)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !job.AppliedDate.Equal(*d) {
		t.Errorf("AppliedDate = %v, want %v unchanged", job.AppliedDate, d)
	}
	if !job.StatusDate.Equal(*later) {
		t.Errorf("StatusDate = %v, want %v", job.StatusDate, later)
	}
}

func TestUpdateStatus_RequiresDate(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, _ := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})

	_, err := svc.UpdateStatus(ctx, testUser, id, store.StatusPanel, nil)
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	// A failed change must not have touched the job.
	job, _ := svc.Job(ctx, testUser, id)
	if job.Status != store.StatusTarget {
		t.Errorf("Status = %q, want unchanged Target", job.Status)
	}
}

func TestSaveDates_FullReplace(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, _ := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})
	if _, err := svc.UpdateStatus(ctx, testUser, id, store.StatusApplied, date(2024, 1, 15)); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	// Saving with a nil applied date clears the auto-filled value.
	job, err := svc.SaveDates(ctx, testUser, id, store.JobDates{
		FollowupDate: date(2024, 1, 22),
		Notes:        "follow up with recruiter",
	})
	if err != nil {
		t.Fatalf("SaveDates failed: %v", err)
	}
	if job.AppliedDate != nil {
		t.Errorf("AppliedDate = %v, want cleared", job.AppliedDate)
	}
	if job.FollowupDate == nil {
		t.Error("FollowupDate not saved")
	}
	if job.Notes != "follow up with recruiter" {
		t.Errorf("Notes = %q", job.Notes)
	}
}

func TestSaveDates_UnknownOutcome(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, _ := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})
	_, err := svc.SaveDates(ctx, testUser, id, store.JobDates{FinishedOutcome: "Ghosted"})
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestFollowupsDue_ExcludesFinished(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	mkJob := func(company string, followup *time.Time, status store.Status, statusDate *time.Time) {
		id, err := svc.AddJob(ctx, testUser, store.NewJob{Company: company, JDText: "build"})
		if err != nil {
			t.Fatalf("AddJob failed: %v", err)
		}
		if status != store.StatusTarget {
			if _, err := svc.UpdateStatus(ctx, testUser, id, status, statusDate); err != nil {
				t.Fatalf("UpdateStatus failed: %v", err)
			}
		}
		if _, err := svc.SaveDates(ctx, testUser, id, store.JobDates{FollowupDate: followup}); err != nil {
			t.Fatalf("SaveDates failed: %v", err)
		}
	}

	mkJob("Due", date(2024, 1, 20), store.StatusApplied, date(2024, 1, 10))
	mkJob("Earlier", date(2024, 1, 5), store.StatusTarget, nil)
	mkJob("Done", date(2024, 1, 15), store.StatusFinished, date(2024, 1, 30))
	mkJob("Future", date(2024, 3, 1), store.StatusTarget, nil)
	mkJob("NoFollowup", nil, store.StatusTarget, nil)

	due, err := svc.FollowupsDue(ctx, testUser)
	if err != nil {
		t.Fatalf("FollowupsDue failed: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2: %+v", len(due), due)
	}
	if due[0].Company != "Earlier" || due[1].Company != "Due" {
		t.Errorf("order = %q, %q; want Earlier then Due", due[0].Company, due[1].Company)
	}
}

func TestUserScoping(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	id, _ := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "build"})

	_, err := svc.Job(ctx, "other@example.com", id)
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError for foreign user", err)
	}

	jobs, err := svc.Jobs(ctx, "other@example.com")
	if err != nil {
		t.Fatalf("Jobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("foreign user sees %d jobs", len(jobs))
	}
}
