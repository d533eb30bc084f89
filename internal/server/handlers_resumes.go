package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/resumetext"
	"github.com/jonathan/job-tailor/internal/store"
)

// decodeAndValidate reads the JSON body into req and runs struct validation.
func (s *Server) decodeAndValidate(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return &store.ValidationError{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if err := s.validate.Struct(req); err != nil {
		return &store.ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &store.ValidationError{Field: "id", Message: "invalid id: " + r.PathValue("id")}
	}
	return id, nil
}

// parseDate parses an optional YYYY-MM-DD string from a request body.
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &store.ValidationError{Field: field, Message: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", value)}
	}
	return &t, nil
}

// CreateResumeRequest is the body for POST /resumes.
type CreateResumeRequest struct {
	Name string `json:"name" validate:"required"`
	Text string `json:"resume_text" validate:"required"`
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req CreateResumeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	id, err := s.svc.SaveResume(r.Context(), s.user(r), req.Name, req.Text)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	resumes, err := s.svc.Resumes(r.Context(), s.user(r))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	resume, err := s.svc.Resume(r.Context(), s.user(r), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleExportResume serves a resume as a plain-text download.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	resume, err := s.svc.Resume(r.Context(), s.user(r), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.Name+".txt"))
	fmt.Fprint(w, resumetext.Export(resume.Name, resume.Text))
}
