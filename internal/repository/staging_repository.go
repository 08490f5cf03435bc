package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecometrics/ingest/internal/domain"
)

// stagingRepository implements StagingRepository over two tables: staged_batches
// for batch metadata and staged_records for the mapped rows as JSONB.
type stagingRepository struct {
	pool *pgxpool.Pool
}

// NewStagingRepository creates a new staging repository
func NewStagingRepository(pool *pgxpool.Pool) StagingRepository {
	return &stagingRepository{pool: pool}
}

// StageBatch inserts the batch metadata and all mapped rows in one transaction.
func (r *stagingRepository) StageBatch(ctx context.Context, batch StagedBatch) (StageResult, error) {
	result := StageResult{BatchID: uuid.New()}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StageResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertBatch = `
		INSERT INTO staged_batches (id, company_id, data_type, file_name, row_count, fingerprint)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.Exec(ctx, insertBatch,
		result.BatchID, batch.CompanyID, string(batch.DataType),
		batch.FileName, len(batch.Batch.Rows), batch.Fingerprint); err != nil {
		return StageResult{}, fmt.Errorf("failed to insert staged batch: %w", err)
	}

	insertRows := make([][]any, 0, len(batch.Batch.Rows))
	for idx, row := range batch.Batch.Rows {
		properties, err := json.Marshal(row)
		if err != nil {
			return StageResult{}, fmt.Errorf("failed to encode row %d: %w", idx, err)
		}
		insertRows = append(insertRows, []any{result.BatchID, batch.CompanyID, idx, properties})
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"staged_records"},
		[]string{"batch_id", "company_id", "row_index", "properties"},
		pgx.CopyFromRows(insertRows))
	if err != nil {
		return StageResult{}, fmt.Errorf("failed to copy staged rows: %w", err)
	}
	result.RowsStaged = int(copied)

	if err := tx.Commit(ctx); err != nil {
		return StageResult{}, fmt.Errorf("failed to commit staged batch: %w", err)
	}
	return result, nil
}

// ListBatches returns staged batch metadata for one company, newest first.
func (r *stagingRepository) ListBatches(ctx context.Context, companyID string) ([]StagedBatchRecord, error) {
	const query = `
		SELECT id, company_id, data_type, file_name, row_count, fingerprint, created_at
		FROM staged_batches
		WHERE company_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged batches: %w", err)
	}
	defer rows.Close()

	var records []StagedBatchRecord
	for rows.Next() {
		var (
			rec      StagedBatchRecord
			dataType string
		)
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &dataType, &rec.FileName,
			&rec.RowCount, &rec.Fingerprint, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staged batch: %w", err)
		}
		rec.DataType = domain.DataType(dataType)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRows returns the mapped rows of one staged batch in source order.
func (r *stagingRepository) ListRows(ctx context.Context, batchID uuid.UUID) ([]map[string]any, error) {
	const query = `
		SELECT properties FROM staged_records
		WHERE batch_id = $1
		ORDER BY row_index`

	rows, err := r.pool.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staged rows: %w", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan staged row: %w", err)
		}
		var properties map[string]any
		if err := json.Unmarshal(raw, &properties); err != nil {
			return nil, fmt.Errorf("failed to decode staged row: %w", err)
		}
		out = append(out, properties)
	}
	return out, rows.Err()
}
