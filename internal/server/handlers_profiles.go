package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/justin/job-advisor/internal/builder"
	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/ingestion"
	"github.com/justin/job-advisor/internal/types"
)

// maxResumeBytes bounds the resume upload body
const maxResumeBytes = 1 << 20

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var email, resumeText *string
	if req.Email != "" {
		email = &req.Email
	}
	if req.ResumeText != "" {
		cleaned := ingestion.CleanText(req.ResumeText)
		resumeText = &cleaned
	}

	profile, err := s.store.CreateProfile(r.Context(), req.Name, email, resumeText)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, profile)
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	profile, err := s.store.GetProfile(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	update := db.ProfileUpdate{
		Name:       req.Name,
		Email:      req.Email,
		ResumeText: req.ResumeText,
		ResumeURL:  req.ResumeURL,
	}
	if req.Interests != nil {
		interests := db.StringArray(*req.Interests)
		update.Interests = &interests
	}
	if req.Strengths != nil {
		strengths := db.StringArray(*req.Strengths)
		update.Strengths = &strengths
	}
	if req.Weaknesses != nil {
		weaknesses := db.StringArray(*req.Weaknesses)
		update.Weaknesses = &weaknesses
	}
	if req.Goals != nil {
		update.CareerGoals = &db.CareerGoals{
			ShortTerm:           req.Goals.ShortTerm,
			LongTerm:            req.Goals.LongTerm,
			PreferredIndustries: req.Goals.PreferredIndustries,
			PreferredRoles:      req.Goals.PreferredRoles,
			PreferredLocations:  req.Goals.PreferredLocations,
		}
	}

	profile, err := s.store.UpdateProfile(r.Context(), profileID, update)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	if err := s.store.DeleteProfile(r.Context(), profileID); err != nil {
		if err.Error() == "profile not found: "+profileID.String() {
			s.errorResponse(w, http.StatusNotFound, "Profile not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleUploadResume accepts a plain-text resume body, normalizes it, and
// stores it on the profile. Structured extraction runs best-effort; a
// failure there does not undo the save.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxResumeBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	cleaned := ingestion.CleanText(string(body))
	if strings.TrimSpace(cleaned) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Resume text is required")
		return
	}

	if err := s.store.SetProfileResume(r.Context(), profileID, cleaned); err != nil {
		if err.Error() == "profile not found: "+profileID.String() {
			s.errorResponse(w, http.StatusNotFound, "Profile not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	info, err := ingestion.ExtractResumeInfo(r.Context(), s.llm, cleaned)
	if err != nil {
		log.Printf("[server] resume extraction failed for profile %s: %v", profileID, err)
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "saved"})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "saved",
		"resume_info": info,
	})
}

// handleBuild advances the profile interview. resume_text starts or resumes
// a session; user_response submits an answer to the outstanding questions.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	var req types.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var result *builder.Result
	switch {
	case req.UserResponse != nil:
		result, err = s.builder.SubmitAnswer(r.Context(), profileID, *req.UserResponse)
	case req.ResumeText != nil:
		result, err = s.builder.Start(r.Context(), profileID, *req.ResumeText)
	default:
		s.errorResponse(w, http.StatusBadRequest, "Request must include resume_text or user_response")
		return
	}
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
