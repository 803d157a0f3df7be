package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Turn is one question/answer round of a builder session. Questions is the
// set the assistant asked; Answer is empty until the user responds.
type Turn struct {
	Questions []string `json:"questions"`
	Answer    string   `json:"answer,omitempty"`
}

// TurnList handles the JSONB turns column
type TurnList []Turn

// Scan implements the Scanner interface for TurnList
func (t *TurnList) Scan(src interface{}) error {
	if src == nil {
		*t = TurnList{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, t)
}

// Value implements the Valuer interface for TurnList
func (t TurnList) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// BuilderSession represents an interview session driving profile extraction.
// At most one non-completed session exists per profile; the partial unique
// index on builder_sessions enforces this.
type BuilderSession struct {
	ID        uuid.UUID   `json:"id"`
	ProfileID uuid.UUID   `json:"profile_id"`
	Turns     TurnList    `json:"turns"`
	Pending   StringArray `json:"pending"`
	Completed bool        `json:"completed"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TurnCount returns the number of question rounds asked so far
func (s *BuilderSession) TurnCount() int {
	return len(s.Turns)
}

// History renders the session's question/answer rounds as prompt context.
func (s *BuilderSession) History() string {
	if len(s.Turns) == 0 {
		return "(no conversation yet)"
	}
	out, err := json.MarshalIndent(s.Turns, "", "  ")
	if err != nil {
		return "(history unavailable)"
	}
	return string(out)
}
