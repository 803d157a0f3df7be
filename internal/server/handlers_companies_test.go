package server

import (
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

func TestHandleCreateCompany(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateCompany, "/companies", "", map[string]string{
		"name":    "Acme",
		"website": "https://acme.example.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var company db.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.Equal(t, "Acme", company.Name)
	require.NotNil(t, company.Website)
	assert.Equal(t, "https://acme.example.com", *company.Website)
}

func TestHandleCreateCompany_MissingName(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleCreateCompany, "/companies", "", map[string]string{
		"website": "https://acme.example.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetCompany_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/companies/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	s.handleGetCompany(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid company ID")
}

func TestHandleGetCompanyByName(t *testing.T) {
	s := newTestServer()
	_, err := s.store.CreateCompany(context.Background(), &db.Company{Name: "Acme"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/companies/by-name?name=Acme", nil)
	w := httptest.NewRecorder()
	s.handleGetCompanyByName(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var company db.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.Equal(t, "Acme", company.Name)
}

func TestHandleGetCompanyByName_EmptyName(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/companies/by-name", nil)
	w := httptest.NewRecorder()
	s.handleGetCompanyByName(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Company name is required")
}

func TestHandleGetCompanyByName_NotFound(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/companies/by-name?name=Ghost", nil)
	w := httptest.NewRecorder()
	s.handleGetCompanyByName(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleUpdateCompany_NotFound(t *testing.T) {
	s := newTestServer()

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/companies/"+id.String(),
		strings.NewReader(`{"industry": "Robotics"}`))
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	s.handleUpdateCompany(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleResearchCompany(t *testing.T) {
	s := newTestServer()
	summary := "Acme builds reliable rockets."
	s.researcher.company = &db.Company{
		ID:              uuid.New(),
		Name:            "Acme",
		ResearchSummary: &summary,
	}

	w := postJSON(t, s, s.handleResearchCompany, "/companies/research", "", map[string]string{
		"company_name": "Acme",
		"job_title":    "Staff Engineer",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Acme", s.researcher.lastReq.CompanyName)
	assert.Equal(t, "Staff Engineer", s.researcher.lastReq.JobTitle)

	var company db.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	require.NotNil(t, company.ResearchSummary)
	assert.Equal(t, summary, *company.ResearchSummary)
}

func TestHandleResearchCompany_MissingName(t *testing.T) {
	s := newTestServer()

	w := postJSON(t, s, s.handleResearchCompany, "/companies/research", "", map[string]string{
		"job_title": "Staff Engineer",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleResearchCompany_GenerationFailure(t *testing.T) {
	s := newTestServer()
	s.researcher.err = &builder.GenerationUnavailableError{Message: "summary generation failed"}

	w := postJSON(t, s, s.handleResearchCompany, "/companies/research", "", map[string]string{
		"company_name": "Acme",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["retryable"])
}
