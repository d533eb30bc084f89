package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-tailor/internal/store"
)

// JobsReportRows returns every job flattened for tabular export, most recent
// first, with dates formatted for display.
func (db *DB) JobsReportRows(ctx context.Context, user string) ([]store.ReportRow, error) {
	jobs, err := db.ListJobs(ctx, user)
	if err != nil {
		return nil, err
	}

	rows := make([]store.ReportRow, 0, len(jobs))
	for i := range jobs {
		rows = append(rows, store.ReportRowFromJob(&jobs[i]))
	}
	return rows, nil
}

// FollowupsDueRows returns jobs with followup_date set and on or before
// today, ordered by followup_date ascending. No status filtering here; the
// tracker package owns the Finished-exclusion policy.
func (db *DB) FollowupsDueRows(ctx context.Context, user string, today time.Time) ([]store.FollowupRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company, title, followup_date, status
		 FROM jobs
		 WHERE user_id = $1
		   AND followup_date IS NOT NULL
		   AND followup_date <= $2
		 ORDER BY followup_date ASC`,
		user, today,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list followups due: %w", err)
	}
	defer rows.Close()

	var due []store.FollowupRow
	for rows.Next() {
		var f store.FollowupRow
		var status string
		if err := rows.Scan(&f.JobID, &f.Company, &f.Title, &f.FollowupDate, &status); err != nil {
			return nil, fmt.Errorf("failed to scan followup row: %w", err)
		}
		f.Status = store.Status(status)
		due = append(due, f)
	}
	return due, rows.Err()
}
