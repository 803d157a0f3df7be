// Package types provides request type definitions for the job advisor HTTP API.
package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateProfileRequest represents the request to create a profile.
type CreateProfileRequest struct {
	Name       string `json:"name" validate:"required,min=1"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	ResumeText string `json:"resume_text,omitempty"`
}

// UpdateProfileRequest represents a partial profile update. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name       *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	Email      *string      `json:"email,omitempty" validate:"omitempty,email"`
	ResumeText *string      `json:"resume_text,omitempty"`
	ResumeURL  *string      `json:"resume_url,omitempty" validate:"omitempty,url"`
	Interests  *[]string    `json:"interests,omitempty"`
	Strengths  *[]string    `json:"strengths,omitempty"`
	Weaknesses *[]string    `json:"weaknesses,omitempty"`
	Goals      *CareerGoals `json:"career_goals,omitempty"`
}

// CareerGoals mirrors the stored career goals block in API requests.
type CareerGoals struct {
	ShortTerm           string   `json:"short_term,omitempty"`
	LongTerm            string   `json:"long_term,omitempty"`
	PreferredIndustries []string `json:"preferred_industries,omitempty"`
	PreferredRoles      []string `json:"preferred_roles,omitempty"`
	PreferredLocations  []string `json:"preferred_locations,omitempty"`
}

// BuildRequest represents one step of the profile interview. resume_text
// starts (or resumes) a session; user_response answers the outstanding
// questions. Pointers distinguish an absent field from an empty one.
type BuildRequest struct {
	ResumeText   *string `json:"resume_text,omitempty"`
	UserResponse *string `json:"user_response,omitempty"`
}

// CreateStoryRequest represents the request to record a STAR story.
type CreateStoryRequest struct {
	Situation string   `json:"situation" validate:"required,min=1"`
	Task      string   `json:"task" validate:"required,min=1"`
	Action    string   `json:"action" validate:"required,min=1"`
	Result    string   `json:"result" validate:"required,min=1"`
	Tags      []string `json:"tags,omitempty"`
}

// CreateJobRequest represents the request to track a job.
type CreateJobRequest struct {
	ProfileID   uuid.UUID `json:"profile_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1"`
	CompanyName string    `json:"company_name" validate:"required,min=1"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty" validate:"omitempty,url"`
	Location    string    `json:"location,omitempty"`
	SalaryRange string    `json:"salary_range,omitempty"`
	Source      string    `json:"source,omitempty" validate:"omitempty,oneof=manual search"`
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof=interested applied interviewing rejected offered"`
}

// UpdateJobRequest represents a partial job update.
type UpdateJobRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	CompanyName *string    `json:"company_name,omitempty" validate:"omitempty,min=1"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Description *string    `json:"description,omitempty"`
	URL         *string    `json:"url,omitempty" validate:"omitempty,url"`
	Location    *string    `json:"location,omitempty"`
	SalaryRange *string    `json:"salary_range,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=interested applied interviewing rejected offered"`
}

// CreateCompanyRequest represents the request to record a company.
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateCompanyRequest represents a partial company update.
type UpdateCompanyRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Website      *string `json:"website,omitempty" validate:"omitempty,url"`
	Industry     *string `json:"industry,omitempty"`
	Size         *string `json:"size,omitempty"`
	Description  *string `json:"description,omitempty"`
	CultureNotes *string `json:"culture_notes,omitempty"`
}

// ResearchRequest represents the request to research a company.
type ResearchRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	JobTitle    string `json:"job_title,omitempty"`
}

// CreateApplicationRequest represents the request to record an application.
type CreateApplicationRequest struct {
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	ProfileID   uuid.UUID `json:"profile_id" validate:"required"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// UpdateApplicationRequest represents a partial application update.
type UpdateApplicationRequest struct {
	CoverLetter *string `json:"cover_letter,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// GenerateContentRequest represents the request to generate application
// material for a job.
type GenerateContentRequest struct {
	JobID     uuid.UUID `json:"job_id" validate:"required"`
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
}

// Validate validates the CreateProfileRequest using the validator.
func (r *CreateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateStoryRequest using the validator.
func (r *CreateStoryRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateCompanyRequest using the validator.
func (r *CreateCompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateCompanyRequest using the validator.
func (r *UpdateCompanyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ResearchRequest using the validator.
func (r *ResearchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateApplicationRequest using the validator.
func (r *UpdateApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateContentRequest using the validator.
func (r *GenerateContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
