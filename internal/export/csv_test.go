package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/store"
)

func TestWriteJobsCSV(t *testing.T) {
	id := uuid.New()
	rows := []store.ReportRow{
		{
			JobID:           id,
			Company:         "Acme",
			Title:           "Staff Engineer",
			Location:        "Remote",
			URL:             "https://jobs.example/1",
			Status:          store.StatusApplied,
			AppliedDate:     "01/15/2024",
			FollowupDate:    "01/22/2024",
			FinishedOutcome: store.OutcomeNone,
			Notes:           "referred by Sam, \"strong\" fit",
			CreatedDate:     "01/10/2024",
		},
	}

	var buf bytes.Buffer
	if err := WriteJobsCSV(&buf, rows); err != nil {
		t.Fatalf("WriteJobsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}

	wantHeader := []string{
		"Job ID", "Job Name", "Title", "Location", "URL", "Status",
		"Applied Date", "Follow up Date", "Finished Date", "Finished Outcome",
		"Notes", "Created Date",
	}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != id.String() {
		t.Errorf("Job ID = %q", row[0])
	}
	if row[1] != "Acme" || row[5] != "Applied" {
		t.Errorf("row = %v", row)
	}
	if row[8] != "" {
		t.Errorf("Finished Date = %q, want empty", row[8])
	}
	if row[10] != `referred by Sam, "strong" fit` {
		t.Errorf("Notes = %q, quoting not round-tripped", row[10])
	}
}

func TestWriteJobsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteJobsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back CSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want header only", len(records))
	}
}
