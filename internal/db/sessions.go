package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, profile_id, turns, pending, completed, created_at, updated_at`

func scanSession(row pgx.Row) (*BuilderSession, error) {
	var s BuilderSession
	err := row.Scan(&s.ID, &s.ProfileID, &s.Turns, &s.Pending, &s.Completed,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession inserts a new active session for a profile. The insert is
// conditional on the partial unique index over (profile_id) WHERE NOT
// completed: when an active session already exists it returns nil and the
// caller should fetch the existing one via GetActiveSession.
func (db *DB) CreateSession(ctx context.Context, profileID uuid.UUID) (*BuilderSession, error) {
	s, err := scanSession(db.pool.QueryRow(ctx,
		`INSERT INTO builder_sessions (profile_id)
		 VALUES ($1)
		 ON CONFLICT (profile_id) WHERE NOT completed DO NOTHING
		 RETURNING `+sessionColumns,
		profileID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Lost the race to an existing active session
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// GetActiveSession retrieves the profile's non-completed session, if any
func (db *DB) GetActiveSession(ctx context.Context, profileID uuid.UUID) (*BuilderSession, error) {
	s, err := scanSession(db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM builder_sessions
		 WHERE profile_id = $1 AND NOT completed`,
		profileID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return s, nil
}

// GetSession retrieves a session by ID, returning nil when absent
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*BuilderSession, error) {
	s, err := scanSession(db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM builder_sessions WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// UpdateSession persists a session's turns and pending questions
func (db *DB) UpdateSession(ctx context.Context, session *BuilderSession) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE builder_sessions
		 SET turns = $1, pending = $2, updated_at = NOW()
		 WHERE id = $3`,
		session.Turns, session.Pending, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", session.ID)
	}
	return nil
}

// DeleteSession removes a session row. Used to roll back a freshly created
// session when the opening generation call fails.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM builder_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CompleteSessionWithProfile marks the session completed and applies the
// extracted profile fields in a single transaction, so a crash between the
// two writes can never leave a completed session without its extraction.
func (db *DB) CompleteSessionWithProfile(ctx context.Context, session *BuilderSession,
	interests, strengths, weaknesses StringArray, goals CareerGoals) (*Profile, error) {

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE builder_sessions
		 SET turns = $1, pending = '[]', completed = true, updated_at = NOW()
		 WHERE id = $2`,
		session.Turns, session.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	p, err := scanProfile(tx.QueryRow(ctx,
		`UPDATE profiles
		 SET interests = $1, strengths = $2, weaknesses = $3, career_goals = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+profileColumns,
		interests, strengths, weaknesses, goals, session.ProfileID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to apply extraction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit session completion: %w", err)
	}
	return p, nil
}
