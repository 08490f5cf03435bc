// Package mapper canonicalizes raw uploaded batches: source columns are
// renamed into the canonical field set per the tenant's mapping rules, derived
// fields are computed, and anything unresolved is reported rather than dropped
// silently. Mapping never fails outright; it degrades to a partial mapping and
// leaves classification of the damage to the validator.
package mapper

import (
	"github.com/ecometrics/ingest/internal/domain"
)

// Result is the mapper output for one batch.
type Result struct {
	Batch domain.MappedRecordBatch
	// UnmappedColumns lists source columns no mapping rule consumes, in
	// source column order. Extra columns are tolerated, not errors.
	UnmappedColumns []string
	// MissingRequired lists required canonical fields that received no value
	// in any row, in schema declaration order.
	MissingRequired []string
}

// Map applies the tenant's mapping rules to a raw batch.
func Map(raw domain.RawRecordBatch, rules domain.MappingRuleSet, schema domain.CanonicalSchema) Result {
	var result Result

	// Resolve which canonical field each source column feeds, preserving
	// source column order for the unmapped report.
	targetOf := make(map[string]string, len(raw.Columns))
	for _, column := range raw.Columns {
		target, ok := rules.Columns[column]
		if !ok {
			result.UnmappedColumns = append(result.UnmappedColumns, column)
			continue
		}
		targetOf[column] = target
	}

	populated := make(map[string]bool, len(schema.Fields))

	rows := make([]map[string]any, len(raw.Rows))
	for i, rawRow := range raw.Rows {
		row := make(map[string]any, len(targetOf)+len(rules.Derived))
		for column, target := range targetOf {
			value, ok := rawRow[column]
			if !ok {
				continue
			}
			row[target] = value
			if !isEmpty(value) {
				populated[target] = true
			}
		}

		// Derived rules run after direct renames, over the canonical values
		// already placed. A missing or non-numeric input yields a null target
		// instead of failing the row.
		for _, d := range rules.Derived {
			value := deriveValue(d, row)
			row[d.Target] = value
			if value != nil {
				populated[d.Target] = true
			}
		}

		rows[i] = row
	}

	// Field set in schema declaration order; only fields that actually
	// received data appear, so the validator can detect structural gaps.
	var fields []string
	for _, spec := range schema.Fields {
		if populated[spec.Name] {
			fields = append(fields, spec.Name)
		}
	}

	for _, spec := range schema.RequiredFields() {
		if !populated[spec.Name] {
			result.MissingRequired = append(result.MissingRequired, spec.Name)
		}
	}

	result.Batch = domain.MappedRecordBatch{Fields: fields, Rows: rows}
	return result
}

func deriveValue(d domain.DerivedField, row map[string]any) any {
	values := make([]float64, 0, len(d.Inputs))
	for _, input := range d.Inputs {
		n, ok := domain.NumericValue(row[input])
		if !ok {
			return nil
		}
		values = append(values, n)
	}

	switch d.Op {
	case domain.CombineMultiply:
		product := 1.0
		for _, v := range values {
			product *= v
		}
		return product
	case domain.CombineSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum
	default:
		return nil
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}
