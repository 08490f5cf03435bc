package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecometrics/ingest/internal/domain"
)

// mappingRepository implements MappingRepository on top of a JSONB column, the
// same shape the configuration store has always used for schema mappings.
type mappingRepository struct {
	pool *pgxpool.Pool
}

// NewMappingRepository creates a new mapping repository
func NewMappingRepository(pool *pgxpool.Pool) MappingRepository {
	return &mappingRepository{pool: pool}
}

type mappingDocument struct {
	Columns map[string]string     `json:"columns"`
	Derived []domain.DerivedField `json:"derived,omitempty"`
}

// Upsert stores or replaces the mapping rule set for (company, data type).
func (r *mappingRepository) Upsert(ctx context.Context, m domain.MappingRuleSet) error {
	doc, err := json.Marshal(mappingDocument{Columns: m.Columns, Derived: m.Derived})
	if err != nil {
		return fmt.Errorf("failed to encode mapping: %w", err)
	}

	const query = `
		INSERT INTO company_mappings (company_id, data_type, mapping, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, data_type)
		DO UPDATE SET mapping = EXCLUDED.mapping, updated_at = now()`

	if _, err := r.pool.Exec(ctx, query, m.CompanyID, string(m.DataType), doc); err != nil {
		return fmt.Errorf("failed to upsert mapping: %w", err)
	}
	return nil
}

// GetByCompany returns all mapping rule sets registered for one company.
func (r *mappingRepository) GetByCompany(ctx context.Context, companyID string) ([]domain.MappingRuleSet, error) {
	const query = `
		SELECT company_id, data_type, mapping
		FROM company_mappings WHERE company_id = $1 ORDER BY data_type`
	return r.queryMappings(ctx, query, companyID)
}

// ListAll returns every persisted mapping rule set.
func (r *mappingRepository) ListAll(ctx context.Context) ([]domain.MappingRuleSet, error) {
	const query = `
		SELECT company_id, data_type, mapping
		FROM company_mappings ORDER BY company_id, data_type`
	return r.queryMappings(ctx, query)
}

func (r *mappingRepository) queryMappings(ctx context.Context, query string, args ...any) ([]domain.MappingRuleSet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.MappingRuleSet
	for rows.Next() {
		var (
			m        domain.MappingRuleSet
			dataType string
			raw      []byte
		)
		if err := rows.Scan(&m.CompanyID, &dataType, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		m.DataType = domain.DataType(dataType)

		var doc mappingDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode mapping for %s/%s: %w", m.CompanyID, dataType, err)
		}
		m.Columns = doc.Columns
		m.Derived = doc.Derived
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}
