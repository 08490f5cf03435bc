package mapper

import (
	"reflect"
	"testing"

	"github.com/ecometrics/ingest/internal/domain"
)

func testSchema() domain.CanonicalSchema {
	return domain.CanonicalSchema{
		DataType: domain.DataTypeSales,
		Fields: []domain.FieldSpec{
			{Name: "date", Type: domain.SemanticTypeDate, Required: true},
			{Name: "product_line", Type: domain.SemanticTypeText, Required: true},
			{Name: "region", Type: domain.SemanticTypeText},
			{Name: "units_sold", Type: domain.SemanticTypePositiveNumeric, Required: true},
			{Name: "price", Type: domain.SemanticTypeNumeric},
			{Name: "revenue", Type: domain.SemanticTypePositiveNumeric, Required: true},
		},
	}
}

func TestMapRenamesColumns(t *testing.T) {
	schema := testSchema()
	rules := domain.MappingRuleSet{
		CompanyID: "manufacturing_co",
		DataType:  domain.DataTypeSales,
		Columns: map[string]string{
			"date":             "date",
			"product_category": "product_line",
			"location":         "region",
			"units_sold":       "units_sold",
			"revenue":          "revenue",
		},
	}
	raw := domain.RawRecordBatch{
		Columns: []string{"date", "product_category", "location", "units_sold", "revenue"},
		Rows: []map[string]any{
			{"date": "2024-03-01", "product_category": "Electronics", "location": "US", "units_sold": "10", "revenue": "500"},
		},
	}

	result := Map(raw, rules, schema)

	if len(result.UnmappedColumns) != 0 {
		t.Errorf("expected no unmapped columns, got %v", result.UnmappedColumns)
	}
	if len(result.MissingRequired) != 0 {
		t.Errorf("expected no missing required fields, got %v", result.MissingRequired)
	}

	wantFields := []string{"date", "product_line", "region", "units_sold", "revenue"}
	if !reflect.DeepEqual(result.Batch.Fields, wantFields) {
		t.Errorf("expected fields %v in schema order, got %v", wantFields, result.Batch.Fields)
	}

	row := result.Batch.Rows[0]
	if row["product_line"] != "Electronics" {
		t.Errorf("expected product_line=Electronics, got %v", row["product_line"])
	}
	if row["region"] != "US" {
		t.Errorf("expected region=US, got %v", row["region"])
	}
	if _, ok := row["product_category"]; ok {
		t.Error("source column name should not survive mapping")
	}
}

func TestMapReportsUnmappedAndMissing(t *testing.T) {
	schema := testSchema()
	rules := domain.MappingRuleSet{
		CompanyID: "acme",
		DataType:  domain.DataTypeSales,
		Columns:   map[string]string{"date": "date", "sku": "product_line"},
	}
	raw := domain.RawRecordBatch{
		Columns: []string{"date", "sku", "internal_notes", "warehouse"},
		Rows: []map[string]any{
			{"date": "2024-01-15", "sku": "Widgets", "internal_notes": "x", "warehouse": "W1"},
		},
	}

	result := Map(raw, rules, schema)

	wantUnmapped := []string{"internal_notes", "warehouse"}
	if !reflect.DeepEqual(result.UnmappedColumns, wantUnmapped) {
		t.Errorf("expected unmapped %v in source order, got %v", wantUnmapped, result.UnmappedColumns)
	}
	wantMissing := []string{"units_sold", "revenue"}
	if !reflect.DeepEqual(result.MissingRequired, wantMissing) {
		t.Errorf("expected missing %v in schema order, got %v", wantMissing, result.MissingRequired)
	}
}

func TestMapDerivedMultiply(t *testing.T) {
	schema := testSchema()
	rules := domain.MappingRuleSet{
		CompanyID: "acme",
		DataType:  domain.DataTypeSales,
		Columns: map[string]string{
			"date":       "date",
			"sku":        "product_line",
			"unit_price": "price",
			"qty":        "units_sold",
		},
		Derived: []domain.DerivedField{
			{Target: "revenue", Op: domain.CombineMultiply, Inputs: []string{"price", "units_sold"}},
		},
	}
	raw := domain.RawRecordBatch{
		Columns: []string{"date", "sku", "unit_price", "qty"},
		Rows: []map[string]any{
			{"date": "2024-01-15", "sku": "Widgets", "unit_price": "50", "qty": "10"},
			{"date": "2024-01-16", "sku": "Widgets", "unit_price": "", "qty": "3"},
		},
	}

	result := Map(raw, rules, schema)

	if got := result.Batch.Rows[0]["revenue"]; got != float64(500) {
		t.Errorf("expected derived revenue 500, got %v", got)
	}
	// A missing input yields a null target, not a failure.
	if got := result.Batch.Rows[1]["revenue"]; got != nil {
		t.Errorf("expected nil revenue for row with empty price, got %v", got)
	}
	if len(result.MissingRequired) != 0 {
		t.Errorf("revenue derived in at least one row should count as populated, got missing %v", result.MissingRequired)
	}
}

func TestMapDerivedSum(t *testing.T) {
	schema := domain.CanonicalSchema{
		DataType: domain.DataTypeESG,
		Fields: []domain.FieldSpec{
			{Name: "date", Type: domain.SemanticTypeDate, Required: true},
			{Name: "emissions_kg_co2", Type: domain.SemanticTypePositiveNumeric, Required: true},
			{Name: "scope1_kg", Type: domain.SemanticTypePositiveNumeric},
			{Name: "scope2_kg", Type: domain.SemanticTypePositiveNumeric},
		},
	}
	rules := domain.MappingRuleSet{
		CompanyID: "acme",
		DataType:  domain.DataTypeESG,
		Columns: map[string]string{
			"date":   "date",
			"scope1": "scope1_kg",
			"scope2": "scope2_kg",
		},
		Derived: []domain.DerivedField{
			{Target: "emissions_kg_co2", Op: domain.CombineSum, Inputs: []string{"scope1_kg", "scope2_kg"}},
		},
	}
	raw := domain.RawRecordBatch{
		Columns: []string{"date", "scope1", "scope2"},
		Rows: []map[string]any{
			{"date": "2024-01-15", "scope1": "120.5", "scope2": "80"},
		},
	}

	result := Map(raw, rules, schema)
	if got := result.Batch.Rows[0]["emissions_kg_co2"]; got != float64(200.5) {
		t.Errorf("expected derived sum 200.5, got %v", got)
	}
}

func TestMapEmptyValuesDoNotPopulate(t *testing.T) {
	schema := testSchema()
	rules := domain.IdentityMapping("acme", schema)
	raw := domain.RawRecordBatch{
		Columns: []string{"date", "product_line", "units_sold", "revenue"},
		Rows: []map[string]any{
			{"date": "2024-01-15", "product_line": "", "units_sold": "10", "revenue": "500"},
		},
	}

	result := Map(raw, rules, schema)

	// product_line only ever holds empty strings, so the field is structurally
	// missing even though the column exists.
	for _, f := range result.Batch.Fields {
		if f == "product_line" {
			t.Error("field with only empty values should not appear in the field set")
		}
	}
	found := false
	for _, f := range result.MissingRequired {
		if f == "product_line" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected product_line in missing required, got %v", result.MissingRequired)
	}
}
