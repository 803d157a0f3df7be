package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// NewsItem is one recent-news entry for a company
type NewsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// NewsList handles the JSONB recent_news column
type NewsList []NewsItem

// Scan implements the Scanner interface for NewsList
func (n *NewsList) Scan(src interface{}) error {
	if src == nil {
		*n = NewsList{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, n)
}

// Value implements the Valuer interface for NewsList
func (n NewsList) Value() (driver.Value, error) {
	if n == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n)
}

// KeyPerson is one notable person at a company
type KeyPerson struct {
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// PeopleList handles the JSONB key_people column
type PeopleList []KeyPerson

// Scan implements the Scanner interface for PeopleList
func (p *PeopleList) Scan(src interface{}) error {
	if src == nil {
		*p = PeopleList{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, p)
}

// Value implements the Valuer interface for PeopleList
func (p PeopleList) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Company represents a researched company record
type Company struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Website          *string    `json:"website,omitempty"`
	Industry         *string    `json:"industry,omitempty"`
	Size             *string    `json:"size,omitempty"`
	Description      *string    `json:"description,omitempty"`
	CultureNotes     *string    `json:"culture_notes,omitempty"`
	RecentNews       NewsList   `json:"recent_news"`
	KeyPeople        PeopleList `json:"key_people"`
	ResearchSummary  *string    `json:"research_summary,omitempty"`
	LastResearchedAt *time.Time `json:"last_researched_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CompanyUpdate holds optional fields for a partial company update
type CompanyUpdate struct {
	Name            *string
	Website         *string
	Industry        *string
	Size            *string
	Description     *string
	CultureNotes    *string
	RecentNews      *NewsList
	KeyPeople       *PeopleList
	ResearchSummary *string
}
