package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecometrics/ingest/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// companyRepository implements CompanyRepository interface
type companyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) CompanyRepository {
	return &companyRepository{pool: pool}
}

// Create creates a new company
func (r *companyRepository) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	const query = `
		INSERT INTO companies (id, name, industry, description, demo, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, industry, description, demo, active, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query,
		company.ID, company.Name, company.Industry, company.Description,
		company.Demo, company.Active, company.CreatedAt, company.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID retrieves a company by ID
func (r *companyRepository) GetByID(ctx context.Context, id string) (domain.Company, error) {
	const query = `
		SELECT id, name, industry, description, demo, active, created_at, updated_at
		FROM companies WHERE id = $1`

	company, err := scanCompany(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("company %q: %w", id, ErrNotFound)
		}
		return domain.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// List retrieves all active companies
func (r *companyRepository) List(ctx context.Context) ([]domain.Company, error) {
	const query = `
		SELECT id, name, industry, description, demo, active, created_at, updated_at
		FROM companies WHERE active ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// Update updates a company record
func (r *companyRepository) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	const query = `
		UPDATE companies
		SET name = $2, industry = $3, description = $4, demo = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING id, name, industry, description, demo, active, created_at, updated_at`

	updated, err := scanCompany(r.pool.QueryRow(ctx, query,
		company.ID, company.Name, company.Industry, company.Description, company.Demo, company.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, fmt.Errorf("company %q: %w", company.ID, ErrNotFound)
		}
		return domain.Company{}, fmt.Errorf("failed to update company: %w", err)
	}
	return updated, nil
}

// Deactivate soft-deletes a company
func (r *companyRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE companies SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %q: %w", id, ErrNotFound)
	}
	return nil
}

func scanCompany(row pgx.Row) (domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Description, &c.Demo, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
