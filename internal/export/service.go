// Package export renders staged batches back out as CSV or Excel files so
// tenants can download the canonicalized form of their data.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/repository"
)

// Format selects the output file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a raw string into a Format.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatCSV, FormatXLSX:
		return Format(raw), nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// SchemaSource resolves the canonical schema used to order export columns.
type SchemaSource interface {
	ResolveSchema(companyID string, dataType domain.DataType) (domain.CanonicalSchema, error)
}

// Service streams staged batches as downloadable files.
type Service struct {
	staging repository.StagingRepository
	schemas SchemaSource
}

// NewService creates a new export service.
func NewService(staging repository.StagingRepository, schemas SchemaSource) *Service {
	return &Service{staging: staging, schemas: schemas}
}

// Export writes the batch to w in the requested format and returns the column
// header that was used.
func (s *Service) Export(ctx context.Context, record repository.StagedBatchRecord, format Format, w io.Writer) ([]string, error) {
	rows, err := s.staging.ListRows(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	columns := s.exportColumns(record, rows)

	switch format {
	case FormatCSV:
		return columns, writeCSV(w, columns, rows)
	case FormatXLSX:
		return columns, writeXLSX(w, columns, rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// exportColumns orders columns by canonical schema declaration, appending any
// extra keys (e.g. derived fields beyond the schema) sorted at the end.
func (s *Service) exportColumns(record repository.StagedBatchRecord, rows []map[string]any) []string {
	present := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			present[key] = true
		}
	}

	var columns []string
	if schema, err := s.schemas.ResolveSchema(record.CompanyID, record.DataType); err == nil {
		for _, name := range schema.FieldNames() {
			if present[name] {
				columns = append(columns, name)
				delete(present, name)
			}
		}
	}

	extra := make([]string, 0, len(present))
	for key := range present {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func writeCSV(w io.Writer, columns []string, rows []map[string]any) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = cellString(row[column])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, columns []string, rows []map[string]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, column := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, column); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, column := range columns {
			value, ok := row[column]
			if !ok || value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func cellString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// FindBatch looks up batch metadata by id within a company's staged batches.
func (s *Service) FindBatch(ctx context.Context, companyID string, batchID uuid.UUID) (repository.StagedBatchRecord, error) {
	batches, err := s.staging.ListBatches(ctx, companyID)
	if err != nil {
		return repository.StagedBatchRecord{}, err
	}
	for _, record := range batches {
		if record.ID == batchID {
			return record, nil
		}
	}
	return repository.StagedBatchRecord{}, fmt.Errorf("batch %s not found for company %q", batchID, companyID)
}
