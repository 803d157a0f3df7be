package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutreachEmail is one generated outreach message attached to an application
type OutreachEmail struct {
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Purpose   string `json:"purpose"` // 'recruiter', 'hiring_manager', 'connection'
}

// EmailList handles the JSONB outreach_emails column
type EmailList []OutreachEmail

// Scan implements the Scanner interface for EmailList
func (e *EmailList) Scan(src interface{}) error {
	if src == nil {
		*e = EmailList{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, e)
}

// Value implements the Valuer interface for EmailList
func (e EmailList) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(e)
}

// Purpose constants for outreach emails
const (
	EmailPurposeRecruiter     = "recruiter"
	EmailPurposeHiringManager = "hiring_manager"
	EmailPurposeConnection    = "connection"
)

// Application represents generated application material for a job
type Application struct {
	ID             uuid.UUID  `json:"id"`
	JobID          uuid.UUID  `json:"job_id"`
	ProfileID      uuid.UUID  `json:"profile_id"`
	CoverLetter    *string    `json:"cover_letter,omitempty"`
	OutreachEmails EmailList  `json:"outreach_emails"`
	Strategy       *string    `json:"strategy,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	Status         string     `json:"status"`
	AppliedAt      *time.Time `json:"applied_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ApplicationUpdate holds optional fields for a partial application update
type ApplicationUpdate struct {
	CoverLetter    *string
	OutreachEmails *EmailList
	Strategy       *string
	Notes          *string
	Status         *string
	AppliedAt      *time.Time
}

// ApplicationFilters holds optional filters for listing applications
type ApplicationFilters struct {
	JobID     uuid.UUID
	ProfileID uuid.UUID
	Status    string
}
