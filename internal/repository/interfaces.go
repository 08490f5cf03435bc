package repository

import (
	"context"
	"time"

	"github.com/ecometrics/ingest/internal/domain"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for tenant record operations
type CompanyRepository interface {
	Create(ctx context.Context, company domain.Company) (domain.Company, error)
	GetByID(ctx context.Context, id string) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Update(ctx context.Context, company domain.Company) (domain.Company, error)
	Deactivate(ctx context.Context, id string) error
}

// MappingRepository owns persistence of tenant mapping rule sets; the registry
// hydrates its in-memory lookup tables from here at startup.
type MappingRepository interface {
	Upsert(ctx context.Context, m domain.MappingRuleSet) error
	GetByCompany(ctx context.Context, companyID string) ([]domain.MappingRuleSet, error)
	ListAll(ctx context.Context) ([]domain.MappingRuleSet, error)
}

// IngestionLogRepository records findings surfaced while processing uploads.
type IngestionLogRepository interface {
	Record(ctx context.Context, entry domain.IngestionLogEntry) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]domain.IngestionLogEntry, error)
}

// StagedBatch is one accepted mapped batch destined for the staging tables.
type StagedBatch struct {
	CompanyID   string
	DataType    domain.DataType
	FileName    string
	Fingerprint string
	Batch       domain.MappedRecordBatch
}

// StageResult returns metadata about a staged batch.
type StageResult struct {
	BatchID    uuid.UUID
	RowsStaged int
}

// StagedBatchRecord captures persisted batch metadata.
type StagedBatchRecord struct {
	ID          uuid.UUID
	CompanyID   string
	DataType    domain.DataType
	FileName    string
	RowCount    int
	Fingerprint string
	CreatedAt   time.Time
}

// StagingRepository persists validated batches for the downstream analytics
// models.
type StagingRepository interface {
	StageBatch(ctx context.Context, batch StagedBatch) (StageResult, error)
	ListBatches(ctx context.Context, companyID string) ([]StagedBatchRecord, error)
	ListRows(ctx context.Context, batchID uuid.UUID) ([]map[string]any, error)
}
