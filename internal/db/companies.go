package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, website, industry, size, description, culture_notes, recent_news, key_people, research_summary, last_researched_at, created_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Size,
		&c.Description, &c.CultureNotes, &c.RecentNews, &c.KeyPeople,
		&c.ResearchSummary, &c.LastResearchedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany inserts a new company record
func (db *DB) CreateCompany(ctx context.Context, company *Company) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, website, industry, size, description, culture_notes, recent_news, key_people, research_summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+companyColumns,
		company.Name, company.Website, company.Industry, company.Size,
		company.Description, company.CultureNotes, company.RecentNews,
		company.KeyPeople, company.ResearchSummary,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

// FindOrCreateCompany finds an existing company by exact name or creates one
func (db *DB) FindOrCreateCompany(ctx context.Context, name string) (*Company, error) {
	if name == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	company, err := db.GetCompanyByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}

	c, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING `+companyColumns,
		name,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

// GetCompany retrieves a company by its UUID, returning nil when absent
func (db *DB) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetCompanyByName retrieves a company by exact name, returning nil when absent
func (db *DB) GetCompanyByName(ctx context.Context, name string) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name = $1`, name,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by name: %w", err)
	}
	return c, nil
}

// ListCompanies retrieves all companies, alphabetical by name
func (db *DB) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Website, &c.Industry, &c.Size,
			&c.Description, &c.CultureNotes, &c.RecentNews, &c.KeyPeople,
			&c.ResearchSummary, &c.LastResearchedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// UpdateCompany applies a partial update and returns the stored record.
// Returns nil when the company does not exist.
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, update CompanyUpdate) (*Company, error) {
	query := `UPDATE companies SET id = id`
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
	if update.Website != nil {
		addSet("website", *update.Website)
	}
	if update.Industry != nil {
		addSet("industry", *update.Industry)
	}
	if update.Size != nil {
		addSet("size", *update.Size)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.CultureNotes != nil {
		addSet("culture_notes", *update.CultureNotes)
	}
	if update.RecentNews != nil {
		addSet("recent_news", *update.RecentNews)
	}
	if update.KeyPeople != nil {
		addSet("key_people", *update.KeyPeople)
	}
	if update.ResearchSummary != nil {
		addSet("research_summary", *update.ResearchSummary)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argNum, companyColumns)
	args = append(args, id)

	c, err := scanCompany(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return c, nil
}

// SaveCompanyResearch stores researcher output on a company and stamps
// last_researched_at
func (db *DB) SaveCompanyResearch(ctx context.Context, id uuid.UUID, update CompanyUpdate) (*Company, error) {
	c, err := db.UpdateCompany(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	c, err = scanCompany(db.pool.QueryRow(ctx,
		`UPDATE companies SET last_researched_at = NOW() WHERE id = $1
		 RETURNING `+companyColumns,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to stamp company research: %w", err)
	}
	return c, nil
}

// DeleteCompany deletes a company; linked jobs keep their row with
// company_id set to NULL
func (db *DB) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("company not found: %s", id)
	}
	return nil
}
