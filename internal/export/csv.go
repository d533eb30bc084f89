// Package export renders report rows into downloadable formats.
package export

import (
	"encoding/csv"
	"io"

	"github.com/jonathan/job-tailor/internal/store"
)

// csvHeaders is the fixed column order for the jobs report.
var csvHeaders = []string{
	"Job ID",
	"Job Name",
	"Title",
	"Location",
	"URL",
	"Status",
	"Applied Date",
	"Follow up Date",
	"Finished Date",
	"Finished Outcome",
	"Notes",
	"Created Date",
}

// WriteJobsCSV renders report rows as CSV, header row first. Dates arrive
// pre-formatted on the rows; no value transformation happens here.
func WriteJobsCSV(w io.Writer, rows []store.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.JobID.String(),
			row.Company,
			row.Title,
			row.Location,
			row.URL,
			string(row.Status),
			row.AppliedDate,
			row.FollowupDate,
			row.FinishedDate,
			string(row.FinishedOutcome),
			row.Notes,
			row.CreatedDate,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
