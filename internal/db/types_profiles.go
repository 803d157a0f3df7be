package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CareerGoals captures a profile's stated direction. Stored as a single
// JSONB column so the whole block is replaced atomically on update.
type CareerGoals struct {
	ShortTerm           string   `json:"short_term,omitempty"`
	LongTerm            string   `json:"long_term,omitempty"`
	PreferredIndustries []string `json:"preferred_industries,omitempty"`
	PreferredRoles      []string `json:"preferred_roles,omitempty"`
	PreferredLocations  []string `json:"preferred_locations,omitempty"`
}

// Scan implements the Scanner interface for CareerGoals
func (g *CareerGoals) Scan(src interface{}) error {
	return scanJSONB(src, g)
}

// Value implements the Valuer interface for CareerGoals
func (g CareerGoals) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// IsZero reports whether no goal field has been set.
func (g CareerGoals) IsZero() bool {
	return g.ShortTerm == "" && g.LongTerm == "" &&
		len(g.PreferredIndustries) == 0 && len(g.PreferredRoles) == 0 &&
		len(g.PreferredLocations) == 0
}

// Profile represents a user profile record
type Profile struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       *string     `json:"email,omitempty"`
	ResumeText  *string     `json:"resume_text,omitempty"`
	ResumeURL   *string     `json:"resume_url,omitempty"`
	Interests   StringArray `json:"interests"`
	Strengths   StringArray `json:"strengths"`
	Weaknesses  StringArray `json:"weaknesses"`
	CareerGoals CareerGoals `json:"career_goals"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Summary renders the profile's known facts as prompt context.
func (p *Profile) Summary() string {
	doc := map[string]any{
		"name": p.Name,
	}
	if len(p.Interests) > 0 {
		doc["interests"] = p.Interests
	}
	if len(p.Strengths) > 0 {
		doc["strengths"] = p.Strengths
	}
	if len(p.Weaknesses) > 0 {
		doc["weaknesses"] = p.Weaknesses
	}
	if !p.CareerGoals.IsZero() {
		doc["career_goals"] = p.CareerGoals
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return p.Name
	}
	return string(out)
}

// ProfileUpdate holds optional fields for a partial profile update
type ProfileUpdate struct {
	Name        *string
	Email       *string
	ResumeText  *string
	ResumeURL   *string
	Interests   *StringArray
	Strengths   *StringArray
	Weaknesses  *StringArray
	CareerGoals *CareerGoals
}
