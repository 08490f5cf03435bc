package validator

import (
	"testing"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/registry"
)

func schemaFor(t *testing.T, dataType domain.DataType) domain.CanonicalSchema {
	t.Helper()
	for _, schema := range registry.DefaultSchemas() {
		if schema.DataType == dataType {
			return schema
		}
	}
	t.Fatalf("no default schema for %s", dataType)
	return domain.CanonicalSchema{}
}

func salesRow(overrides map[string]any) map[string]any {
	row := map[string]any{
		"date":         "2024-03-01",
		"product_line": "Electronics",
		"units_sold":   "10",
		"revenue":      "500",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func findKind(findings []domain.ValidationFinding, kind domain.ErrorKind) (domain.ValidationFinding, bool) {
	for _, f := range findings {
		if f.Kind == kind {
			return f, true
		}
	}
	return domain.ValidationFinding{}, false
}

func TestValidateCleanBatch(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows:   []map[string]any{salesRow(nil), salesRow(map[string]any{"units_sold": "3", "revenue": "90"})},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	if len(outcome.Findings) != 0 {
		t.Fatalf("expected no findings, got %v", outcome.Findings)
	}
	if outcome.RowCount != 2 || outcome.ValidRowCount != 2 {
		t.Errorf("expected 2/2 valid rows, got %d/%d", outcome.ValidRowCount, outcome.RowCount)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold"},
		Rows:   []map[string]any{salesRow(nil)},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	f, ok := findKind(outcome.Findings, domain.ErrMissingColumn)
	if !ok {
		t.Fatalf("expected missing_column finding, got %v", outcome.Findings)
	}
	if f.Field != "revenue" {
		t.Errorf("expected missing field revenue, got %s", f.Field)
	}
	if !f.BatchLevel() {
		t.Error("missing column should be a batch-level finding")
	}
}

func TestValidateNegativePositiveNumeric(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows: []map[string]any{
			salesRow(map[string]any{"units_sold": "-5"}),
			salesRow(nil),
		},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	f, ok := findKind(outcome.Findings, domain.ErrOutOfRange)
	if !ok {
		t.Fatalf("expected out_of_range finding, got %v", outcome.Findings)
	}
	if f.Row != 0 || f.Field != "units_sold" {
		t.Errorf("expected finding at row 0 field units_sold, got row %d field %s", f.Row, f.Field)
	}
	if f.Severity != domain.SeverityBlocking {
		t.Errorf("expected blocking severity, got %s", f.Severity)
	}
	if outcome.ValidRowCount != 1 {
		t.Errorf("expected 1 valid row, got %d", outcome.ValidRowCount)
	}
}

func TestValidateNonNumericValue(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows:   []map[string]any{salesRow(map[string]any{"revenue": "a lot"})},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	f, ok := findKind(outcome.Findings, domain.ErrInvalidType)
	if !ok {
		t.Fatalf("expected invalid_type finding, got %v", outcome.Findings)
	}
	if f.Field != "revenue" {
		t.Errorf("expected finding on revenue, got %s", f.Field)
	}
	if outcome.ValidRowCount != 0 {
		t.Errorf("expected 0 valid rows, got %d", outcome.ValidRowCount)
	}
}

func TestValidatePercentageBounds(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeESG)

	esgRow := func(recycled, virgin any) map[string]any {
		return map[string]any{
			"date":                   "2024-03-01",
			"facility":               "Plant A",
			"emissions_kg_co2":       "120",
			"energy_consumption_kwh": "900",
			"recycled_material_pct":  recycled,
			"virgin_material_pct":    virgin,
		}
	}
	fields := []string{"date", "facility", "emissions_kg_co2", "energy_consumption_kwh", "recycled_material_pct", "virgin_material_pct"}

	// 0 and 100 are inclusive boundaries.
	outcome := Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{esgRow("0", "100")},
	}, schema, DefaultConfig())
	if _, found := findKind(outcome.Findings, domain.ErrOutOfRange); found {
		t.Error("0 and 100 should be valid percentages")
	}

	// 150 is out of range.
	outcome = Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{esgRow("150", "0")},
	}, schema, DefaultConfig())
	f, found := findKind(outcome.Findings, domain.ErrOutOfRange)
	if !found {
		t.Fatalf("expected out_of_range for 150%%, got %v", outcome.Findings)
	}
	if f.Field != "recycled_material_pct" {
		t.Errorf("expected finding on recycled_material_pct, got %s", f.Field)
	}
}

func TestValidateDateRange(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	fields := []string{"date", "product_line", "units_sold", "revenue"}

	outcome := Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{salesRow(map[string]any{"date": "2025-06-01"})},
	}, schema, DefaultConfig())
	if _, found := findKind(outcome.Findings, domain.ErrDateOutOfRange); found {
		t.Error("2025-06-01 should be inside the default window")
	}

	outcome = Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{salesRow(map[string]any{"date": "2031-01-01"})},
	}, schema, DefaultConfig())
	f, found := findKind(outcome.Findings, domain.ErrDateOutOfRange)
	if !found {
		t.Fatalf("expected date_out_of_range for 2031-01-01, got %v", outcome.Findings)
	}
	if f.Row != 0 || f.Field != "date" {
		t.Errorf("expected finding at row 0 field date, got row %d field %s", f.Row, f.Field)
	}
	if outcome.ValidRowCount != 0 {
		t.Errorf("expected 0 valid rows, got %d", outcome.ValidRowCount)
	}
}

func TestValidateUnparseableDateReportedOnce(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows:   []map[string]any{salesRow(map[string]any{"date": "not-a-date"})},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	if _, found := findKind(outcome.Findings, domain.ErrInvalidType); !found {
		t.Fatal("expected invalid_type for unparseable date")
	}
	// The date range pass must not pile a second finding on the same cell.
	if _, found := findKind(outcome.Findings, domain.ErrDateOutOfRange); found {
		t.Error("unparseable date should not also produce date_out_of_range")
	}
}

func TestValidateMaterialCompositionRule(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeESG)
	fields := []string{"date", "facility", "emissions_kg_co2", "energy_consumption_kwh", "recycled_material_pct", "virgin_material_pct"}
	row := map[string]any{
		"date":                   "2024-03-01",
		"facility":               "Plant A",
		"emissions_kg_co2":       "120",
		"energy_consumption_kwh": "900",
		"recycled_material_pct":  "40",
		"virgin_material_pct":    "50",
	}

	outcome := Validate(domain.MappedRecordBatch{Fields: fields, Rows: []map[string]any{row}}, schema, DefaultConfig())

	f, found := findKind(outcome.Findings, domain.ErrBusinessRuleViolation)
	if !found {
		t.Fatalf("expected business_rule_violation for 40+50, got %v", outcome.Findings)
	}
	if f.Severity != domain.SeverityBlocking {
		t.Errorf("expected blocking severity, got %s", f.Severity)
	}
	if outcome.ValidRowCount != 0 {
		t.Errorf("expected 0 valid rows, got %d", outcome.ValidRowCount)
	}
}

func TestValidateDemoModeDowngradesRules(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeESG)
	fields := []string{"date", "facility", "emissions_kg_co2", "energy_consumption_kwh", "recycled_material_pct", "virgin_material_pct"}
	row := map[string]any{
		"date":                   "2024-03-01",
		"facility":               "Plant A",
		"emissions_kg_co2":       "120",
		"energy_consumption_kwh": "900",
		"recycled_material_pct":  "40",
		"virgin_material_pct":    "50",
	}

	cfg := DefaultConfig()
	cfg.DemoMode = true
	outcome := Validate(domain.MappedRecordBatch{Fields: fields, Rows: []map[string]any{row}}, schema, cfg)

	f, found := findKind(outcome.Findings, domain.ErrBusinessRuleViolation)
	if !found {
		t.Fatal("expected business_rule_violation finding in demo mode")
	}
	if f.Severity != domain.SeverityWarning {
		t.Errorf("demo mode should downgrade to warning, got %s", f.Severity)
	}
	if outcome.ValidRowCount != 1 {
		t.Errorf("warning should not block the row, got %d valid rows", outcome.ValidRowCount)
	}
}

func TestValidateRevenueConsistencyRule(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	fields := []string{"date", "product_line", "units_sold", "price", "revenue"}

	// Within 1% relative tolerance: 10 * 50 = 500, revenue 503 passes.
	outcome := Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{salesRow(map[string]any{"price": "50", "revenue": "503"})},
	}, schema, DefaultConfig())
	if _, found := findKind(outcome.Findings, domain.ErrBusinessRuleViolation); found {
		t.Error("revenue within tolerance should not violate the rule")
	}

	// Far out of tolerance.
	outcome = Validate(domain.MappedRecordBatch{
		Fields: fields,
		Rows:   []map[string]any{salesRow(map[string]any{"price": "50", "revenue": "900"})},
	}, schema, DefaultConfig())
	if _, found := findKind(outcome.Findings, domain.ErrBusinessRuleViolation); !found {
		t.Errorf("expected business_rule_violation for revenue 900 vs 500, got %v", outcome.Findings)
	}

	// Rule skipped when price is absent.
	outcome = Validate(domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows:   []map[string]any{salesRow(nil)},
	}, schema, DefaultConfig())
	if _, found := findKind(outcome.Findings, domain.ErrBusinessRuleViolation); found {
		t.Error("rule should be skipped when an operand is missing")
	}
}

func TestValidateEmptyRequiredCell(t *testing.T) {
	schema := schemaFor(t, domain.DataTypeSales)
	batch := domain.MappedRecordBatch{
		Fields: []string{"date", "product_line", "units_sold", "revenue"},
		Rows: []map[string]any{
			salesRow(map[string]any{"product_line": ""}),
			salesRow(nil),
		},
	}

	outcome := Validate(batch, schema, DefaultConfig())

	f, found := findKind(outcome.Findings, domain.ErrInvalidType)
	if !found {
		t.Fatalf("expected invalid_type for empty required cell, got %v", outcome.Findings)
	}
	if f.Row != 0 || f.Field != "product_line" {
		t.Errorf("expected finding at row 0 field product_line, got row %d field %s", f.Row, f.Field)
	}
	if outcome.ValidRowCount != 1 {
		t.Errorf("expected 1 valid row, got %d", outcome.ValidRowCount)
	}
}
