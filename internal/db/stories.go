package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const storyColumns = `id, profile_id, situation, task, action, result, tags, created_at`

// CreateStory inserts a new STAR story for a profile
func (db *DB) CreateStory(ctx context.Context, profileID uuid.UUID, situation, task, action, result string, tags StringArray) (*Story, error) {
	var s Story
	err := db.pool.QueryRow(ctx,
		`INSERT INTO stories (profile_id, situation, task, action, result, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+storyColumns,
		profileID, situation, task, action, result, tags,
	).Scan(&s.ID, &s.ProfileID, &s.Situation, &s.Task, &s.Action, &s.Result, &s.Tags, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return &s, nil
}

// GetStory retrieves a story by ID, returning nil when absent
func (db *DB) GetStory(ctx context.Context, id uuid.UUID) (*Story, error) {
	var s Story
	err := db.pool.QueryRow(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = $1`, id,
	).Scan(&s.ID, &s.ProfileID, &s.Situation, &s.Task, &s.Action, &s.Result, &s.Tags, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &s, nil
}

// ListStories retrieves all stories for a profile, oldest first
func (db *DB) ListStories(ctx context.Context, profileID uuid.UUID) ([]Story, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE profile_id = $1 ORDER BY created_at ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		var s Story
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Situation, &s.Task, &s.Action, &s.Result, &s.Tags, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, nil
}

// DeleteStory deletes a story by ID
func (db *DB) DeleteStory(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("story not found: %s", id)
	}
	return nil
}
