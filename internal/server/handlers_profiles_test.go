package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justin/job-advisor/internal/builder"
	"github.com/justin/job-advisor/internal/db"
)

func postJSON(t *testing.T, s *testServer, handler http.HandlerFunc, target string, pathID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleCreateProfile(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateProfile, "/profiles", "", map[string]string{
		"name":  "Justin",
		"email": "justin@example.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var profile db.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Justin", profile.Name)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "justin@example.com", *profile.Email)
	assert.Len(t, s.store.profiles, 1)
}

func TestHandleCreateProfile_CleansResumeText(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateProfile, "/profiles", "", map[string]string{
		"name":        "Justin",
		"resume_text": "Engineer   at   Acme\n\n\n\nBuilt things",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var profile db.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.NotNil(t, profile.ResumeText)
	assert.Contains(t, *profile.ResumeText, "Engineer at Acme")
	assert.NotContains(t, *profile.ResumeText, "\n\n\n")
}

func TestHandleCreateProfile_MissingName(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateProfile, "/profiles", "", map[string]string{
		"email": "justin@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.store.profiles)
}

func TestHandleCreateProfile_BadEmail(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateProfile, "/profiles", "", map[string]string{
		"name":  "Justin",
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateProfile_InvalidBody(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.handleCreateProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid request body")
}

func TestHandleGetProfile_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/profiles/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	s.handleGetProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetProfile_NotFound(t *testing.T) {
	s := newTestServer()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/profiles/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleGetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateProfile(t *testing.T) {
	s := newTestServer()
	profile, err := s.store.CreateProfile(context.Background(), "Justin", nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]any{
		"interests": []string{"databases", "compilers"},
		"career_goals": map[string]any{
			"short_term": "Senior engineer",
		},
	}))
	req := httptest.NewRequest(http.MethodPatch, "/profiles/"+profile.ID.String(), &buf)
	req.SetPathValue("id", profile.ID.String())
	w := httptest.NewRecorder()
	s.handleUpdateProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated db.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, db.StringArray{"databases", "compilers"}, updated.Interests)
	assert.Equal(t, "Senior engineer", updated.CareerGoals.ShortTerm)
}

func TestHandleUpdateProfile_NotFound(t *testing.T) {
	s := newTestServer()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/profiles/"+id.String(), strings.NewReader(`{"name":"New"}`))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleUpdateProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteProfile(t *testing.T) {
	s := newTestServer()
	profile, err := s.store.CreateProfile(context.Background(), "Justin", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/profiles/"+profile.ID.String(), nil)
	req.SetPathValue("id", profile.ID.String())
	w := httptest.NewRecorder()
	s.handleDeleteProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.store.profiles)

	// Second delete is a 404
	w = httptest.NewRecorder()
	s.handleDeleteProfile(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUploadResume(t *testing.T) {
	s := newTestServer()
	profile, err := s.store.CreateProfile(context.Background(), "Justin", nil, nil)
	require.NoError(t, err)

	s.llm.response = `{"name": "Justin", "skills": ["Go", "SQL"]}`
	s.llm.err = nil

	req := httptest.NewRequest(http.MethodPost, "/profiles/"+profile.ID.String()+"/resume",
		strings.NewReader("Justin   Engineer\n\n\n\nAcme Corp"))
	req.SetPathValue("id", profile.ID.String())
	w := httptest.NewRecorder()
	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp["status"])
	assert.Contains(t, resp, "resume_info")

	// Text was cleaned before storage
	require.NotNil(t, s.store.profiles[profile.ID].ResumeText)
	assert.Contains(t, *s.store.profiles[profile.ID].ResumeText, "Justin Engineer")
	assert.NotContains(t, *s.store.profiles[profile.ID].ResumeText, "\n\n\n")
}

func TestHandleUploadResume_ExtractionFailureStillSaves(t *testing.T) {
	s := newTestServer()
	profile, err := s.store.CreateProfile(context.Background(), "Justin", nil, nil)
	require.NoError(t, err)

	// fakeLLM errors by default, so extraction fails
	req := httptest.NewRequest(http.MethodPost, "/profiles/"+profile.ID.String()+"/resume",
		strings.NewReader("Justin, Engineer at Acme"))
	req.SetPathValue("id", profile.ID.String())
	w := httptest.NewRecorder()
	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "saved", resp["status"])
	assert.NotContains(t, resp, "resume_info")
	require.NotNil(t, s.store.profiles[profile.ID].ResumeText)
}

func TestHandleUploadResume_EmptyBody(t *testing.T) {
	s := newTestServer()
	profile, err := s.store.CreateProfile(context.Background(), "Justin", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/profiles/"+profile.ID.String()+"/resume",
		strings.NewReader("   \n\n  "))
	req.SetPathValue("id", profile.ID.String())
	w := httptest.NewRecorder()
	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUploadResume_ProfileNotFound(t *testing.T) {
	s := newTestServer()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/profiles/"+id.String()+"/resume",
		strings.NewReader("Some resume text"))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleUploadResume(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleBuild_StartsWithoutAnswer(t *testing.T) {
	s := newTestServer()
	sessionID := uuid.New()
	s.builder.result = &builder.Result{
		SessionID: sessionID,
		Questions: []string{"What kind of work energizes you?"},
	}

	id := uuid.New()
	w := postJSON(t, s, s.handleBuild, "/profiles/"+id.String()+"/build", id.String(), map[string]string{
		"resume_text": "Engineer at Acme",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.builder.startCalls)
	assert.Equal(t, 0, s.builder.submitCalls)
	assert.Equal(t, "Engineer at Acme", s.builder.lastResume)

	var result builder.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, sessionID, result.SessionID)
	assert.Len(t, result.Questions, 1)
}

func TestHandleBuild_EmptyBodyRejected(t *testing.T) {
	s := newTestServer()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/profiles/"+id.String()+"/build", nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleBuild(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.builder.startCalls)
	assert.Equal(t, 0, s.builder.submitCalls)
}

func TestHandleBuild_EmptyResumeTextStillStarts(t *testing.T) {
	s := newTestServer()
	s.builder.result = &builder.Result{SessionID: uuid.New(), Questions: []string{"Q"}}

	id := uuid.New()
	w := postJSON(t, s, s.handleBuild, "/profiles/"+id.String()+"/build", id.String(), map[string]string{
		"resume_text": "",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.builder.startCalls)
	assert.Equal(t, "", s.builder.lastResume)
}

func TestHandleBuild_SubmitsAnswer(t *testing.T) {
	s := newTestServer()
	s.builder.result = &builder.Result{
		SessionID: uuid.New(),
		Completed: true,
		Profile:   &db.Profile{Name: "Justin"},
	}

	id := uuid.New()
	w := postJSON(t, s, s.handleBuild, "/profiles/"+id.String()+"/build", id.String(), map[string]string{
		"user_response": "I like building data systems",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.builder.submitCalls)
	assert.Equal(t, "I like building data systems", s.builder.lastAnswer)

	var result builder.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Completed)
	require.NotNil(t, result.Profile)
}

func TestHandleBuild_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		retryable  bool
	}{
		{
			name:       "profile not found",
			err:        &builder.NotFoundError{Resource: "profile", ID: uuid.New().String()},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "no active session",
			err:        &builder.InvalidStateError{Message: "no active session"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "generation unavailable",
			err:        &builder.GenerationUnavailableError{Message: "model call failed"},
			wantStatus: http.StatusBadGateway,
			retryable:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.builder.err = tt.err

			id := uuid.New()
			w := postJSON(t, s, s.handleBuild, "/profiles/"+id.String()+"/build", id.String(), map[string]string{
				"user_response": "an answer",
			})

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.retryable {
				assert.Equal(t, true, resp["retryable"])
			} else {
				assert.NotContains(t, resp, "retryable")
			}
		})
	}
}
