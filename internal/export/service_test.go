package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/registry"
	"github.com/ecometrics/ingest/internal/repository"
)

type stubStaging struct {
	batches []repository.StagedBatchRecord
	rows    map[uuid.UUID][]map[string]any
}

func (s *stubStaging) StageBatch(ctx context.Context, batch repository.StagedBatch) (repository.StageResult, error) {
	return repository.StageResult{}, nil
}

func (s *stubStaging) ListBatches(ctx context.Context, companyID string) ([]repository.StagedBatchRecord, error) {
	return s.batches, nil
}

func (s *stubStaging) ListRows(ctx context.Context, batchID uuid.UUID) ([]map[string]any, error) {
	return s.rows[batchID], nil
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Errorf("empty format should default to csv, got %v %v", f, err)
	}
	if f, err := ParseFormat("xlsx"); err != nil || f != FormatXLSX {
		t.Errorf("expected xlsx, got %v %v", f, err)
	}
	if _, err := ParseFormat("parquet"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExportCSVColumnOrder(t *testing.T) {
	reg := registry.New()
	reg.RegisterCompany(domain.NewCompany("acme", "Acme", "", ""))

	batchID := uuid.New()
	staging := &stubStaging{
		rows: map[uuid.UUID][]map[string]any{
			batchID: {
				{"revenue": "500", "date": "2024-03-01", "product_line": "Electronics", "units_sold": "10", "zz_custom": "x"},
			},
		},
	}
	svc := NewService(staging, reg)

	record := repository.StagedBatchRecord{
		ID:        batchID,
		CompanyID: "acme",
		DataType:  domain.DataTypeSales,
	}

	var buf bytes.Buffer
	columns, err := svc.Export(context.Background(), record, FormatCSV, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Schema order first, unknown keys sorted at the end.
	want := []string{"date", "product_line", "units_sold", "revenue", "zz_custom"}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("expected columns %v, got %v", want, columns)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("failed to re-read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if !reflect.DeepEqual(records[0], want) {
		t.Errorf("csv header mismatch: %v", records[0])
	}
	if records[1][0] != "2024-03-01" || records[1][3] != "500" {
		t.Errorf("unexpected csv row: %v", records[1])
	}
}

func TestExportXLSXProducesWorkbook(t *testing.T) {
	reg := registry.New()
	reg.RegisterCompany(domain.NewCompany("acme", "Acme", "", ""))

	batchID := uuid.New()
	staging := &stubStaging{
		rows: map[uuid.UUID][]map[string]any{
			batchID: {{"date": "2024-03-01", "revenue": float64(500)}},
		},
	}
	svc := NewService(staging, reg)

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), repository.StagedBatchRecord{
		ID:        batchID,
		CompanyID: "acme",
		DataType:  domain.DataTypeSales,
	}, FormatXLSX, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected xlsx bytes")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("expected zip container signature")
	}
}

func TestFindBatch(t *testing.T) {
	reg := registry.New()
	batchID := uuid.New()
	staging := &stubStaging{
		batches: []repository.StagedBatchRecord{
			{ID: uuid.New(), CompanyID: "acme"},
			{ID: batchID, CompanyID: "acme", FileName: "sales.csv"},
		},
	}
	svc := NewService(staging, reg)

	record, err := svc.FindBatch(context.Background(), "acme", batchID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.FileName != "sales.csv" {
		t.Errorf("expected sales.csv, got %s", record.FileName)
	}

	if _, err := svc.FindBatch(context.Background(), "acme", uuid.New()); err == nil {
		t.Error("expected error for unknown batch id")
	}
}
