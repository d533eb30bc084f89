package server

import (
	"net/http"

	"github.com/jonathan/job-tailor/internal/store"
)

// CreateJobRequest is the body for POST /jobs. URL is empty for jobs created
// from pasted text; the pasted sentinel is stored in its place.
type CreateJobRequest struct {
	Company  string `json:"company" validate:"required"`
	Title    string `json:"title"`
	Location string `json:"location"`
	URL      string `json:"url"`
	JDText   string `json:"jd_text" validate:"required"`
	Status   string `json:"status"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	id, err := s.svc.AddJob(r.Context(), s.user(r), store.NewJob{
		Company:  req.Company,
		Title:    req.Title,
		Location: req.Location,
		URL:      req.URL,
		JDText:   req.JDText,
		Status:   store.Status(req.Status),
	})
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// ExtractJobRequest is the body for POST /jobs/extract.
type ExtractJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleExtractJob previews a job posting pulled from a URL. A 422 means the
// page was unreadable and the client should fall back to pasted text.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req ExtractJobRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	extract, err := s.svc.ExtractJob(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, extract)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.svc.Jobs(r.Context(), s.user(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	job, err := s.svc.Job(r.Context(), s.user(r), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// UpdateStatusRequest is the body for PUT /jobs/{id}/status. StatusDate is
// required for every status except Target.
type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	StatusDate string `json:"status_date"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	statusDate, err := parseDate("status_date", req.StatusDate)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.svc.UpdateStatus(r.Context(), s.user(r), id, store.Status(req.Status), statusDate)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// UpdateDatesRequest is the body for PUT /jobs/{id}/dates. This is a full
// replace: omitted dates clear the stored values.
type UpdateDatesRequest struct {
	AppliedDate     string `json:"applied_date"`
	FollowupDate    string `json:"followup_date"`
	FinishedDate    string `json:"finished_date"`
	FinishedOutcome string `json:"finished_outcome"`
	Notes           string `json:"notes"`
}

func (s *Server) handleUpdateDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var req UpdateDatesRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	dates := store.JobDates{
		FinishedOutcome: store.Outcome(req.FinishedOutcome),
		Notes:           req.Notes,
	}
	if dates.AppliedDate, err = parseDate("applied_date", req.AppliedDate); err != nil {
		s.errorResponse(w, err)
		return
	}
	if dates.FollowupDate, err = parseDate("followup_date", req.FollowupDate); err != nil {
		s.errorResponse(w, err)
		return
	}
	if dates.FinishedDate, err = parseDate("finished_date", req.FinishedDate); err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.svc.SaveDates(r.Context(), s.user(r), id, dates)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}
