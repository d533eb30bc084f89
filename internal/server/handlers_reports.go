package server

import (
	"log"
	"net/http"

	"github.com/jonathan/job-tailor/internal/export"
)

func (s *Server) handleJobsReport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.JobsReport(r.Context(), s.user(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": rows})
}

// handleJobsReportCSV serves the jobs report as a CSV download.
func (s *Server) handleJobsReportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.JobsReport(r.Context(), s.user(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	if err := export.WriteJobsCSV(w, rows); err != nil {
		log.Printf("Error writing CSV response: %v", err)
	}
}

func (s *Server) handleFollowupsDue(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.FollowupsDue(r.Context(), s.user(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"followups": rows})
}
