package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, job_id, profile_id, cover_letter, outreach_emails, strategy, notes, status, applied_at, created_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.JobID, &a.ProfileID, &a.CoverLetter, &a.OutreachEmails,
		&a.Strategy, &a.Notes, &a.Status, &a.AppliedAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication inserts a new application record
func (db *DB) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	if app.Status == "" {
		app.Status = "draft"
	}

	a, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (job_id, profile_id, cover_letter, outreach_emails, strategy, notes, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+applicationColumns,
		app.JobID, app.ProfileID, app.CoverLetter, app.OutreachEmails,
		app.Strategy, app.Notes, app.Status, app.AppliedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// GetApplication retrieves an application by ID, returning nil when absent
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplications retrieves applications with optional filters
func (db *DB) ListApplications(ctx context.Context, filters ApplicationFilters) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.JobID != uuid.Nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, filters.JobID)
		argNum++
	}
	if filters.ProfileID != uuid.Nil {
		query += fmt.Sprintf(" AND profile_id = $%d", argNum)
		args = append(args, filters.ProfileID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.ProfileID, &a.CoverLetter, &a.OutreachEmails,
			&a.Strategy, &a.Notes, &a.Status, &a.AppliedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, nil
}

// UpdateApplication applies a partial update and returns the stored record.
// Returns nil when the application does not exist.
func (db *DB) UpdateApplication(ctx context.Context, id uuid.UUID, update ApplicationUpdate) (*Application, error) {
	query := `UPDATE applications SET id = id`
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if update.CoverLetter != nil {
		addSet("cover_letter", *update.CoverLetter)
	}
	if update.OutreachEmails != nil {
		addSet("outreach_emails", *update.OutreachEmails)
	}
	if update.Strategy != nil {
		addSet("strategy", *update.Strategy)
	}
	if update.Notes != nil {
		addSet("notes", *update.Notes)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}
	if update.AppliedAt != nil {
		addSet("applied_at", *update.AppliedAt)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, applicationColumns)
	args = append(args, id)

	a, err := scanApplication(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return a, nil
}

// DeleteApplication deletes an application by ID
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}
