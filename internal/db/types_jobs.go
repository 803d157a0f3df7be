package db

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a tracked job posting
type Job struct {
	ID          uuid.UUID  `json:"id"`
	ProfileID   uuid.UUID  `json:"profile_id"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	Title       string     `json:"title"`
	CompanyName string     `json:"company_name"`
	Description *string    `json:"description,omitempty"`
	URL         *string    `json:"url,omitempty"`
	Location    *string    `json:"location,omitempty"`
	SalaryRange *string    `json:"salary_range,omitempty"`
	Source      string     `json:"source"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Source constants for jobs
const (
	JobSourceManual = "manual"
	JobSourceSearch = "search"
)

// Status constants for jobs. Transitions are unconstrained; the status is a
// label, not a workflow.
const (
	JobStatusInterested   = "interested"
	JobStatusApplied      = "applied"
	JobStatusInterviewing = "interviewing"
	JobStatusRejected     = "rejected"
	JobStatusOffered      = "offered"
)

// ValidJobStatus reports whether s is a known job status
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusInterested, JobStatusApplied, JobStatusInterviewing,
		JobStatusRejected, JobStatusOffered:
		return true
	default:
		return false
	}
}

// ValidJobSource reports whether s is a known job source
func ValidJobSource(s string) bool {
	return s == JobSourceManual || s == JobSourceSearch
}

// JobUpdate holds optional fields for a partial job update
type JobUpdate struct {
	Title       *string
	CompanyName *string
	CompanyID   *uuid.UUID
	Description *string
	URL         *string
	Location    *string
	SalaryRange *string
	Status      *string
}

// JobFilters holds optional filters for listing jobs
type JobFilters struct {
	ProfileID uuid.UUID
	CompanyID uuid.UUID
	Status    string
	Company   string
	Limit     int
}

// JobDetail bundles a job with its company and applications
type JobDetail struct {
	Job          Job           `json:"job"`
	Company      *Company      `json:"company,omitempty"`
	Applications []Application `json:"applications"`
}
