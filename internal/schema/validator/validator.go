// Package validator checks mapped record batches against a canonical schema
// and its business rules. Validation is a pure function over (batch, schema,
// config): it never mutates the batch, never stops at the first problem, and
// always scans the full batch so the caller gets one complete finding list.
package validator

import (
	"fmt"
	"math"
	"time"

	"github.com/ecometrics/ingest/internal/domain"
)

// Config carries the tunable validation parameters for one run.
type Config struct {
	MinDate time.Time
	MaxDate time.Time
	// DemoMode downgrades business rule violations to warnings for tenants in
	// a transitional demo phase.
	DemoMode bool
}

// DefaultConfig returns the stock date window applied when no override is
// configured.
func DefaultConfig() Config {
	return Config{
		MinDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaxDate: time.Date(2030, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Outcome is the raw validator output, consumed by the report builder.
type Outcome struct {
	Findings      []domain.ValidationFinding
	RowCount      int
	ValidRowCount int
}

// Validate runs every check category over the batch in a fixed order:
// structural, row-level type/format, date range, then cross-field business
// rules. Each category is a single pass over the rows.
func Validate(batch domain.MappedRecordBatch, schema domain.CanonicalSchema, cfg Config) Outcome {
	outcome := Outcome{RowCount: len(batch.Rows)}

	// rowBlocked tracks per-row blocking findings across passes so the valid
	// row count can be computed at the end.
	rowBlocked := make([]bool, len(batch.Rows))

	outcome.Findings = append(outcome.Findings, structuralFindings(batch, schema)...)
	outcome.Findings = append(outcome.Findings, typeFindings(batch, schema, rowBlocked)...)
	outcome.Findings = append(outcome.Findings, dateRangeFindings(batch, schema, cfg, rowBlocked)...)
	outcome.Findings = append(outcome.Findings, businessRuleFindings(batch, schema, cfg, rowBlocked)...)

	for _, blocked := range rowBlocked {
		if !blocked {
			outcome.ValidRowCount++
		}
	}
	return outcome
}

// structuralFindings reports required canonical fields absent from the mapped
// batch's field set, one batch-level finding per field regardless of row count.
func structuralFindings(batch domain.MappedRecordBatch, schema domain.CanonicalSchema) []domain.ValidationFinding {
	var findings []domain.ValidationFinding
	for _, spec := range schema.RequiredFields() {
		if !batch.HasField(spec.Name) {
			findings = append(findings, domain.MissingColumnFinding(spec.Name))
		}
	}
	return findings
}

func typeFindings(batch domain.MappedRecordBatch, schema domain.CanonicalSchema, rowBlocked []bool) []domain.ValidationFinding {
	var findings []domain.ValidationFinding

	for rowIdx, row := range batch.Rows {
		for _, field := range batch.Fields {
			spec, ok := schema.Field(field)
			if !ok {
				continue
			}
			value, present := row[field]
			if !present || value == nil || value == "" {
				if spec.Required {
					findings = append(findings, domain.ValidationFinding{
						Row:      rowIdx,
						Field:    field,
						Kind:     domain.ErrInvalidType,
						Severity: domain.SeverityBlocking,
						Message:  fmt.Sprintf("required field %q has no value", field),
					})
					rowBlocked[rowIdx] = true
				}
				continue
			}

			if finding, bad := checkCell(rowIdx, spec, value); bad {
				findings = append(findings, finding)
				rowBlocked[rowIdx] = true
			}
		}
	}
	return findings
}

// checkCell validates a single present cell against its field spec.
func checkCell(rowIdx int, spec domain.FieldSpec, value any) (domain.ValidationFinding, bool) {
	switch spec.Type {
	case domain.SemanticTypeDate:
		if _, err := domain.DateValue(value); err != nil {
			return cellFinding(rowIdx, spec.Name, domain.ErrInvalidType, value,
				fmt.Sprintf("value %v is not a valid date", value)), true
		}

	case domain.SemanticTypeNumeric:
		if _, ok := domain.NumericValue(value); !ok {
			return cellFinding(rowIdx, spec.Name, domain.ErrInvalidType, value,
				fmt.Sprintf("value %v is not numeric", value)), true
		}

	case domain.SemanticTypePositiveNumeric:
		n, ok := domain.NumericValue(value)
		if !ok {
			return cellFinding(rowIdx, spec.Name, domain.ErrInvalidType, value,
				fmt.Sprintf("value %v is not numeric", value)), true
		}
		if n < 0 {
			return cellFinding(rowIdx, spec.Name, domain.ErrOutOfRange, value,
				fmt.Sprintf("value %v is negative", value)), true
		}

	case domain.SemanticTypePercentage:
		n, ok := domain.NumericValue(value)
		if !ok {
			return cellFinding(rowIdx, spec.Name, domain.ErrInvalidType, value,
				fmt.Sprintf("value %v is not numeric", value)), true
		}
		// Boundaries inclusive: 0 and 100 are valid.
		if n < 0 || n > 100 {
			return cellFinding(rowIdx, spec.Name, domain.ErrOutOfRange, value,
				fmt.Sprintf("value %v is outside 0-100", value)), true
		}
	}

	if n, ok := domain.NumericValue(value); ok {
		if spec.Min != nil && n < *spec.Min {
			return cellFinding(rowIdx, spec.Name, domain.ErrOutOfRange, value,
				fmt.Sprintf("value %v is below minimum %v", value, *spec.Min)), true
		}
		if spec.Max != nil && n > *spec.Max {
			return cellFinding(rowIdx, spec.Name, domain.ErrOutOfRange, value,
				fmt.Sprintf("value %v is above maximum %v", value, *spec.Max)), true
		}
	}

	return domain.ValidationFinding{}, false
}

func dateRangeFindings(batch domain.MappedRecordBatch, schema domain.CanonicalSchema, cfg Config, rowBlocked []bool) []domain.ValidationFinding {
	var findings []domain.ValidationFinding
	for rowIdx, row := range batch.Rows {
		for _, field := range batch.Fields {
			spec, ok := schema.Field(field)
			if !ok || spec.Type != domain.SemanticTypeDate {
				continue
			}
			value, present := row[field]
			if !present || value == nil || value == "" {
				continue
			}
			ts, err := domain.DateValue(value)
			if err != nil {
				// Unparseable dates were already reported by the type pass.
				continue
			}
			if ts.Before(cfg.MinDate) || ts.After(cfg.MaxDate) {
				findings = append(findings, cellFinding(rowIdx, field, domain.ErrDateOutOfRange, value,
					fmt.Sprintf("date %s is outside allowed range %s..%s",
						ts.Format("2006-01-02"), cfg.MinDate.Format("2006-01-02"), cfg.MaxDate.Format("2006-01-02"))))
				rowBlocked[rowIdx] = true
			}
		}
	}
	return findings
}

func businessRuleFindings(batch domain.MappedRecordBatch, schema domain.CanonicalSchema, cfg Config, rowBlocked []bool) []domain.ValidationFinding {
	severity := domain.SeverityBlocking
	if cfg.DemoMode {
		severity = domain.SeverityWarning
	}

	var findings []domain.ValidationFinding
	for rowIdx, row := range batch.Rows {
		for _, rule := range schema.Rules {
			message, violated := evaluateRule(rule, row)
			if !violated {
				continue
			}
			findings = append(findings, domain.ValidationFinding{
				Row:      rowIdx,
				Field:    rule.Target,
				Kind:     domain.ErrBusinessRuleViolation,
				Severity: severity,
				Message:  message,
			})
			if severity == domain.SeverityBlocking {
				rowBlocked[rowIdx] = true
			}
		}
	}
	return findings
}

// evaluateRule checks one rule against one row. Rules with missing or
// non-numeric operands are skipped; the type pass already reported those cells.
func evaluateRule(rule domain.BusinessRule, row map[string]any) (string, bool) {
	operands := make([]float64, 0, len(rule.Operands))
	for _, name := range rule.Operands {
		n, ok := domain.NumericValue(row[name])
		if !ok {
			return "", false
		}
		operands = append(operands, n)
	}

	switch rule.Kind {
	case domain.RuleKindSumEquals:
		sum := 0.0
		for _, v := range operands {
			sum += v
		}
		if math.Abs(sum-rule.Value) > rule.Tolerance {
			return fmt.Sprintf("rule %s violated: fields sum to %v, expected %v", rule.Name, sum, rule.Value), true
		}

	case domain.RuleKindProductMatches:
		target, ok := domain.NumericValue(row[rule.Target])
		if !ok {
			return "", false
		}
		product := 1.0
		for _, v := range operands {
			product *= v
		}
		tolerance := rule.Tolerance * math.Max(math.Abs(target), math.Abs(product))
		if math.Abs(target-product) > tolerance {
			return fmt.Sprintf("rule %s violated: %s is %v, expected %v", rule.Name, rule.Target, target, product), true
		}
	}
	return "", false
}

func cellFinding(row int, field string, kind domain.ErrorKind, value any, message string) domain.ValidationFinding {
	return domain.ValidationFinding{
		Row:      row,
		Field:    field,
		Kind:     kind,
		Severity: domain.SeverityBlocking,
		Message:  message,
		Value:    value,
	}
}
