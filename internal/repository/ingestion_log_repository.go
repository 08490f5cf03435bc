package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecometrics/ingest/internal/domain"
)

// ingestionLogRepository implements IngestionLogRepository
type ingestionLogRepository struct {
	pool *pgxpool.Pool
}

// NewIngestionLogRepository creates a new ingestion log repository
func NewIngestionLogRepository(pool *pgxpool.Pool) IngestionLogRepository {
	return &ingestionLogRepository{pool: pool}
}

// Record persists one finding surfaced during an upload.
func (r *ingestionLogRepository) Record(ctx context.Context, entry domain.IngestionLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	const query = `
		INSERT INTO ingestion_logs (id, company_id, data_type, file_name, row_number, kind, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.CompanyID, string(entry.DataType), entry.FileName,
		entry.RowNumber, string(entry.Kind), entry.Message)
	if err != nil {
		return fmt.Errorf("failed to record ingestion log entry: %w", err)
	}
	return nil
}

// ListByCompany returns the most recent findings for one company.
func (r *ingestionLogRepository) ListByCompany(ctx context.Context, companyID string, limit int) ([]domain.IngestionLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT id, company_id, data_type, file_name, row_number, kind, message, created_at
		FROM ingestion_logs
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.IngestionLogEntry
	for rows.Next() {
		var (
			entry    domain.IngestionLogEntry
			dataType string
			kind     string
		)
		if err := rows.Scan(&entry.ID, &entry.CompanyID, &dataType, &entry.FileName,
			&entry.RowNumber, &kind, &entry.Message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion log entry: %w", err)
		}
		entry.DataType = domain.DataType(dataType)
		entry.Kind = domain.ErrorKind(kind)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
