package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/types"
)

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	var req types.CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Reject dangling stories up front rather than relying on the fk error
	profile, err := s.store.GetProfile(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}

	story, err := s.store.CreateStory(r.Context(), profileID,
		req.Situation, req.Task, req.Action, req.Result, db.StringArray(req.Tags))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, story)
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile ID")
		return
	}

	stories, err := s.store.ListStories(r.Context(), profileID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"stories": stories,
		"count":   len(stories),
	})
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid story ID")
		return
	}

	if err := s.store.DeleteStory(r.Context(), storyID); err != nil {
		if err.Error() == "story not found: "+storyID.String() {
			s.errorResponse(w, http.StatusNotFound, "Story not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
