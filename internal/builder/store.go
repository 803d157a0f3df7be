package builder

import (
	"context"

	"github.com/google/uuid"

	"github.com/justin/job-advisor/internal/db"
)

// Store is the persistence surface the builder needs. *db.DB satisfies it;
// tests inject an in-memory implementation.
type Store interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	GetActiveSession(ctx context.Context, profileID uuid.UUID) (*db.BuilderSession, error)
	CreateSession(ctx context.Context, profileID uuid.UUID) (*db.BuilderSession, error)
	UpdateSession(ctx context.Context, session *db.BuilderSession) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	CompleteSessionWithProfile(ctx context.Context, session *db.BuilderSession,
		interests, strengths, weaknesses db.StringArray, goals db.CareerGoals) (*db.Profile, error)
}
