package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/store"
)

// TailorRequest is the body for POST /jobs/{id}/tailor.
type TailorRequest struct {
	ResumeID string `json:"resume_id" validate:"required,uuid"`
}

// handleTailor generates a tailored resume for the job/resume pairing and
// parks the unsaved result in the caller's session. Changing the pairing
// discards any earlier result.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var req TailorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		s.errorResponse(w, &store.ValidationError{Field: "resume_id", Message: "invalid resume_id"})
		return
	}

	user := s.user(r)
	sess := s.sessions.For(user)
	sess.Select(jobID, resumeID)

	g, err := s.svc.Generate(r.Context(), user, jobID, resumeID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	sess.SetGeneration(g)
	s.jsonResponse(w, http.StatusOK, g)
}

// SaveVersionRequest is the body for POST /jobs/{id}/versions.
type SaveVersionRequest struct {
	Name string `json:"version_name" validate:"required"`
}

// handleSaveVersion persists the session's pending generation under a name.
func (s *Server) handleSaveVersion(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var req SaveVersionRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	user := s.user(r)
	sess := s.sessions.For(user)
	g := sess.Generation()
	if g == nil || g.JobID != jobID {
		s.errorResponse(w, &store.ValidationError{Field: "generation", Message: "nothing generated for this job yet"})
		return
	}

	id, err := s.svc.SaveVersion(r.Context(), user, req.Name, g)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	sess.SetSavedMessage("Saved version " + req.Name)
	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id.String(),
		"message": sess.SavedMessage(),
	})
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	versions, err := s.svc.Versions(r.Context(), s.user(r), jobID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"versions": versions})
}
