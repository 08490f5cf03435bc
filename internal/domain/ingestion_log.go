package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestionLogEntry captures one finding surfaced while processing an upload.
type IngestionLogEntry struct {
	ID        uuid.UUID `json:"id"`
	CompanyID string    `json:"company_id"`
	DataType  DataType  `json:"data_type"`
	FileName  string    `json:"file_name"`
	RowNumber *int      `json:"row_number,omitempty"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
