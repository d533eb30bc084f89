package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/store"
)

const generationPayload = `{
	"tailored_resume": "Jane Doe\nStaff Engineer",
	"changes_summary": ["led with platform work"],
	"suggested_additions": [],
	"accuracy_checklist": ["no invented employers"]
}`

func seedJobAndResume(t *testing.T, svc *Service) (jobID, resumeID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	jobID, err := svc.AddJob(ctx, testUser, store.NewJob{Company: "Acme", JDText: "Staff Engineer role"})
	if err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}
	resumeID, err = svc.SaveResume(ctx, testUser, "Base", "Jane Doe\n- Led platform team")
	if err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}
	return jobID, resumeID
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{text: generationPayload}
	svc, _ := newTestService(gen)
	jobID, resumeID := seedJobAndResume(t, svc)

	g, err := svc.Generate(context.Background(), testUser, jobID, resumeID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if g.Result.TailoredResume == "" {
		t.Error("TailoredResume is empty")
	}
	if g.JobID != jobID || g.BaseResumeID != resumeID {
		t.Errorf("generation pairing = %s/%s", g.JobID, g.BaseResumeID)
	}
}

func TestGenerate_MissingJob(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{text: generationPayload})
	_, resumeID := seedJobAndResume(t, svc)

	_, err := svc.Generate(context.Background(), testUser, uuid.New(), resumeID)
	var nf *store.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestGenerate_MalformedResponse(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{text: "not json"})
	jobID, resumeID := seedJobAndResume(t, svc)

	_, err := svc.Generate(context.Background(), testUser, jobID, resumeID)
	var me *llm.MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
}

func TestGenerate_CollapsesConcurrentDuplicates(t *testing.T) {
	gen := &fakeGenerator{text: generationPayload, block: make(chan struct{})}
	svc, _ := newTestService(gen)
	jobID, resumeID := seedJobAndResume(t, svc)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*Generation, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Generate(context.Background(), testUser, jobID, resumeID)
		}(i)
	}

	// Wait until the first caller reaches the model, give the rest time to
	// join the flight, then release.
	for gen.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	close(gen.block)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Error("callers received different generations")
		}
	}
	if got := gen.callCount(); got != 1 {
		t.Errorf("model calls = %d, want 1", got)
	}
}

func TestSaveVersion(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{text: generationPayload})
	jobID, resumeID := seedJobAndResume(t, svc)
	ctx := context.Background()

	g, err := svc.Generate(ctx, testUser, jobID, resumeID)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	id, err := svc.SaveVersion(ctx, testUser, "v1 platform focus", g)
	if err != nil {
		t.Fatalf("SaveVersion failed: %v", err)
	}
	if id == uuid.Nil {
		t.Error("version id is nil")
	}

	versions, err := svc.Versions(ctx, testUser, jobID)
	if err != nil {
		t.Fatalf("Versions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("len(versions) = %d, want 1", len(versions))
	}
	if versions[0].Name != "v1 platform focus" {
		t.Errorf("Name = %q", versions[0].Name)
	}
	if versions[0].ResumeName != "Base" {
		t.Errorf("ResumeName = %q, want Base", versions[0].ResumeName)
	}
}

func TestSaveVersion_NothingGenerated(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SaveVersion(context.Background(), testUser, "v1", nil)
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}
