package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/justin/job-advisor/internal/content"
	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/types"
)

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req types.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app := &db.Application{
		JobID:     req.JobID,
		ProfileID: req.ProfileID,
		Status:    req.Status,
	}
	if req.CoverLetter != "" {
		app.CoverLetter = &req.CoverLetter
	}
	if req.Notes != "" {
		app.Notes = &req.Notes
	}

	created, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filters := db.ApplicationFilters{
		Status: r.URL.Query().Get("status"),
	}

	if v := r.URL.Query().Get("job_id"); v != "" {
		jobID, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid job_id filter")
			return
		}
		filters.JobID = jobID
	}
	if v := r.URL.Query().Get("profile_id"); v != "" {
		profileID, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid profile_id filter")
			return
		}
		filters.ProfileID = profileID
	}

	apps, err := s.store.ListApplications(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": apps,
		"count":        len(apps),
	})
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	app, err := s.store.GetApplication(r.Context(), appID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.UpdateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	app, err := s.store.UpdateApplication(r.Context(), appID, db.ApplicationUpdate{
		CoverLetter: req.CoverLetter,
		Notes:       req.Notes,
		Status:      req.Status,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	if err := s.store.DeleteApplication(r.Context(), appID); err != nil {
		if err.Error() == "application not found: "+appID.String() {
			s.errorResponse(w, http.StatusNotFound, "Application not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGenerateContent gathers the profile, job, company, and stories,
// runs the content generator, and records the result as a draft
// application.
func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := s.store.GetProfile(r.Context(), req.ProfileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	job, err := s.store.GetJob(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	in := content.Input{Profile: profile, Job: job}

	if job.CompanyID != nil {
		company, err := s.store.GetCompany(r.Context(), *job.CompanyID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		in.Company = company
	} else if company, err := s.store.GetCompanyByName(r.Context(), job.CompanyName); err == nil {
		// Best effort; generation works without research context
		in.Company = company
	}

	stories, err := s.store.ListStories(r.Context(), req.ProfileID)
	if err != nil {
		log.Printf("[server] failed to load stories for profile %s: %v", req.ProfileID, err)
	} else {
		in.Stories = stories
	}

	out, err := s.generator.Generate(r.Context(), in)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	app := &db.Application{
		JobID:          req.JobID,
		ProfileID:      req.ProfileID,
		CoverLetter:    &out.CoverLetter,
		OutreachEmails: out.OutreachEmails,
	}
	if out.Strategy != "" {
		app.Strategy = &out.Strategy
	}

	created, err := s.store.CreateApplication(r.Context(), app)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}
