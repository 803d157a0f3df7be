package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, profile_id, company_id, title, company_name, description, url, location, salary_range, source, status, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.ProfileID, &j.CompanyID, &j.Title, &j.CompanyName,
		&j.Description, &j.URL, &j.Location, &j.SalaryRange, &j.Source, &j.Status,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a new job record
func (db *DB) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	if job.Source == "" {
		job.Source = JobSourceManual
	}
	if job.Status == "" {
		job.Status = JobStatusInterested
	}

	j, err := scanJob(db.pool.QueryRow(ctx,
		`INSERT INTO jobs (profile_id, company_id, title, company_name, description, url, location, salary_range, source, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+jobColumns,
		job.ProfileID, job.CompanyID, job.Title, job.CompanyName, job.Description,
		job.URL, job.Location, job.SalaryRange, job.Source, job.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// GetJob retrieves a job by ID, returning nil when absent
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListJobs retrieves jobs with optional filters
func (db *DB) ListJobs(ctx context.Context, filters JobFilters) ([]Job, error) {
	if filters.Limit == 0 {
		filters.Limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.ProfileID != uuid.Nil {
		query += fmt.Sprintf(" AND profile_id = $%d", argNum)
		args = append(args, filters.ProfileID)
		argNum++
	}
	if filters.CompanyID != uuid.Nil {
		query += fmt.Sprintf(" AND company_id = $%d", argNum)
		args = append(args, filters.CompanyID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Company != "" {
		query += fmt.Sprintf(" AND company_name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.ProfileID, &j.CompanyID, &j.Title, &j.CompanyName,
			&j.Description, &j.URL, &j.Location, &j.SalaryRange, &j.Source, &j.Status,
			&j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// UpdateJob applies a partial update and returns the stored record.
// Returns nil when the job does not exist.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, update JobUpdate) (*Job, error) {
	query := `UPDATE jobs SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		query += fmt.Sprintf(", %s = $%d", column, argNum)
		args = append(args, value)
		argNum++
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.CompanyName != nil {
		addSet("company_name", *update.CompanyName)
	}
	if update.CompanyID != nil {
		addSet("company_id", *update.CompanyID)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.URL != nil {
		addSet("url", *update.URL)
	}
	if update.Location != nil {
		addSet("location", *update.Location)
	}
	if update.SalaryRange != nil {
		addSet("salary_range", *update.SalaryRange)
	}
	if update.Status != nil {
		addSet("status", *update.Status)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, jobColumns)
	args = append(args, id)

	j, err := scanJob(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return j, nil
}

// DeleteJob deletes a job and its applications (via cascade)
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}

// GetJobDetail retrieves a job along with its linked company and
// applications. Returns nil when the job does not exist.
func (db *DB) GetJobDetail(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	job, err := db.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	detail := JobDetail{Job: *job, Applications: []Application{}}

	if job.CompanyID != nil {
		company, err := db.GetCompany(ctx, *job.CompanyID)
		if err != nil {
			return nil, err
		}
		detail.Company = company
	}

	apps, err := db.ListApplications(ctx, ApplicationFilters{JobID: id})
	if err != nil {
		return nil, err
	}
	if apps != nil {
		detail.Applications = apps
	}
	return &detail, nil
}
