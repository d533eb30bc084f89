// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tailor/internal/store"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobs outputs a summary of tracked jobs, most recent first.
func (p *Printer) PrintJobs(jobs []store.Job) {
	if len(jobs) == 0 {
		p.printBox("TRACKED JOBS", "No jobs tracked yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs: %d\n\n", len(jobs)))

	count := min(len(jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("%s — %s\n", job.Company, job.Title))
		sb.WriteString(fmt.Sprintf("    Status: %s", job.Status))
		if job.StatusDate != nil {
			sb.WriteString(fmt.Sprintf(" (%s)", store.FormatDate(job.StatusDate)))
		}
		sb.WriteString("\n")
		if job.FollowupDate != nil {
			sb.WriteString(fmt.Sprintf("    Follow up: %s\n", store.FormatDate(job.FollowupDate)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-maxItemsToShow))
	}

	p.printBox("TRACKED JOBS", sb.String())
}

// PrintFollowups outputs the follow-ups-due list, oldest first.
func (p *Printer) PrintFollowups(rows []store.FollowupRow) {
	if len(rows) == 0 {
		p.printBox("FOLLOW-UPS DUE", "No follow-ups due.")
		return
	}

	var sb strings.Builder
	for i, row := range rows {
		sb.WriteString(fmt.Sprintf("%s  %s", row.FollowupDate.Format(store.DisplayDateFormat), row.Company))
		if row.Title != "" {
			sb.WriteString(fmt.Sprintf(" — %s", row.Title))
		}
		sb.WriteString(fmt.Sprintf("\n    Status: %s", row.Status))
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FOLLOW-UPS DUE", sb.String())
}
