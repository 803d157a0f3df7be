package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, name, email, resume_text, resume_url, interests, strengths, weaknesses, career_goals, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.ResumeText, &p.ResumeURL,
		&p.Interests, &p.Strengths, &p.Weaknesses, &p.CareerGoals,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile inserts a new profile and returns the stored record
func (db *DB) CreateProfile(ctx context.Context, name string, email, resumeText *string) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (name, email, resume_text)
		 VALUES ($1, $2, $3)
		 RETURNING `+profileColumns,
		name, email, resumeText,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

// GetProfile retrieves a profile by ID, returning nil when absent
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListProfiles retrieves all profiles, newest first
func (db *DB) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.ResumeText, &p.ResumeURL,
			&p.Interests, &p.Strengths, &p.Weaknesses, &p.CareerGoals,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// UpdateProfile applies a partial update and returns the stored record.
// Returns nil when the profile does not exist.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*Profile, error) {
	query := `UPDATE profiles SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if update.Name != nil {
		addSet("name", *update.Name)
	}
	if update.Email != nil {
		addSet("email", *update.Email)
	}
	if update.ResumeText != nil {
		addSet("resume_text", *update.ResumeText)
	}
	if update.ResumeURL != nil {
		addSet("resume_url", *update.ResumeURL)
	}
	if update.Interests != nil {
		addSet("interests", *update.Interests)
	}
	if update.Strengths != nil {
		addSet("strengths", *update.Strengths)
	}
	if update.Weaknesses != nil {
		addSet("weaknesses", *update.Weaknesses)
	}
	if update.CareerGoals != nil {
		addSet("career_goals", *update.CareerGoals)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, profileColumns)
	args = append(args, id)

	p, err := scanProfile(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// SetProfileResume stores uploaded resume text on a profile
func (db *DB) SetProfileResume(ctx context.Context, id uuid.UUID, resumeText string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE profiles SET resume_text = $1, updated_at = NOW() WHERE id = $2`,
		resumeText, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set profile resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// DeleteProfile deletes a profile and its stories, jobs, applications and
// builder sessions (via cascade)
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}
