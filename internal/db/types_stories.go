package db

import (
	"time"

	"github.com/google/uuid"
)

// Story represents a STAR (situation, task, action, result) story used as
// raw material for cover letters and outreach content.
type Story struct {
	ID        uuid.UUID   `json:"id"`
	ProfileID uuid.UUID   `json:"profile_id"`
	Situation string      `json:"situation"`
	Task      string      `json:"task"`
	Action    string      `json:"action"`
	Result    string      `json:"result"`
	Tags      StringArray `json:"tags"`
	CreatedAt time.Time   `json:"created_at"`
}
