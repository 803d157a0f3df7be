package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/justin/job-advisor/internal/db"
	"github.com/justin/job-advisor/internal/research"
	"github.com/justin/job-advisor/internal/types"
)

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	company := &db.Company{Name: req.Name}
	if req.Website != "" {
		company.Website = &req.Website
	}
	if req.Industry != "" {
		company.Industry = &req.Industry
	}
	if req.Size != "" {
		company.Size = &req.Size
	}
	if req.Description != "" {
		company.Description = &req.Description
	}

	created, err := s.store.CreateCompany(r.Context(), company)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companies,
		"count":     len(companies),
	})
}

// handleGetCompanyByName looks a company up by exact name, passed as a
// query parameter to avoid a route conflict with /companies/{id}.
func (s *Server) handleGetCompanyByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Company name is required")
		return
	}

	company, err := s.store.GetCompanyByName(r.Context(), name)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := s.store.GetCompany(r.Context(), companyID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req types.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	company, err := s.store.UpdateCompany(r.Context(), companyID, db.CompanyUpdate{
		Name:         req.Name,
		Website:      req.Website,
		Industry:     req.Industry,
		Size:         req.Size,
		Description:  req.Description,
		CultureNotes: req.CultureNotes,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	if err := s.store.DeleteCompany(r.Context(), companyID); err != nil {
		if err.Error() == "company not found: "+companyID.String() {
			s.errorResponse(w, http.StatusNotFound, "Company not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleResearchCompany runs the research pipeline and returns the enriched
// company record.
func (s *Server) handleResearchCompany(w http.ResponseWriter, r *http.Request) {
	var req types.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	company, err := s.researcher.Research(r.Context(), research.Request{
		CompanyName: req.CompanyName,
		Website:     req.Website,
		JobTitle:    req.JobTitle,
	})
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}
