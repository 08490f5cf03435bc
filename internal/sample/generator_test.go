package sample

import (
	"reflect"
	"testing"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/pipeline"
	"github.com/ecometrics/ingest/internal/registry"
	"github.com/ecometrics/ingest/internal/schema/validator"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(domain.DataTypeSales, 20, 42)
	b := Generate(domain.DataTypeSales, 20, 42)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce identical batches")
	}

	c := Generate(domain.DataTypeSales, 20, 43)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should produce different batches")
	}
}

func TestGenerateDefaultsRowCount(t *testing.T) {
	batch := Generate(domain.DataTypeSales, 0, 1)
	if len(batch.Rows) != 100 {
		t.Errorf("expected 100 rows by default, got %d", len(batch.Rows))
	}
}

func TestGenerateUnknownDataType(t *testing.T) {
	batch := Generate(domain.DataType("payroll"), 10, 1)
	if len(batch.Rows) != 0 {
		t.Errorf("expected empty batch for unknown data type, got %d rows", len(batch.Rows))
	}
}

func TestGeneratedBatchesPassValidation(t *testing.T) {
	reg := registry.New()
	reg.RegisterCompany(domain.NewCompany("sample_co", "Sample Co", "", ""))
	coordinator := pipeline.New(reg, validator.DefaultConfig())

	for _, dataType := range domain.KnownDataTypes() {
		batch := Generate(dataType, 50, 7)
		outcome, err := coordinator.Process("sample_co", dataType, batch)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", dataType, err)
		}
		if !outcome.Report.OK {
			t.Errorf("%s: generated batch should validate cleanly, got findings %v",
				dataType, outcome.Report.Findings)
		}
		if outcome.Report.ValidRowCount != 50 {
			t.Errorf("%s: expected 50 valid rows, got %d", dataType, outcome.Report.ValidRowCount)
		}
	}
}
