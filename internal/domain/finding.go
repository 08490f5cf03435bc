package domain

import "fmt"

// ErrorKind is the machine-readable taxonomy for validation findings.
type ErrorKind string

const (
	ErrMissingColumn         ErrorKind = "missing_column"
	ErrInvalidType           ErrorKind = "invalid_type"
	ErrOutOfRange            ErrorKind = "out_of_range"
	ErrDateOutOfRange        ErrorKind = "date_out_of_range"
	ErrBusinessRuleViolation ErrorKind = "business_rule_violation"
	ErrUnmappedExtraColumn   ErrorKind = "unmapped_extra_column"
)

// Severity ranks a finding's effect on batch acceptance.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityWarning  Severity = "warning"
)

// RowBatch marks a finding that applies to the whole batch rather than one row.
const RowBatch = -1

// ValidationFinding is one issue discovered during mapping or validation.
// Findings are immutable once created.
type ValidationFinding struct {
	Row      int       `json:"row"`
	Field    string    `json:"field,omitempty"`
	Kind     ErrorKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Value    any       `json:"value,omitempty"`
}

// BatchLevel reports whether the finding applies to the whole batch.
func (f ValidationFinding) BatchLevel() bool {
	return f.Row == RowBatch
}

// Summary renders one stable, human-readable line suitable for direct display.
func (f ValidationFinding) Summary() string {
	scope := "batch"
	if !f.BatchLevel() {
		scope = fmt.Sprintf("row %d", f.Row)
	}
	if f.Field != "" {
		scope += ", field " + f.Field
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, scope, f.Message)
}

// MissingColumnFinding builds the blocking finding for a required canonical
// field that received no data. Mapper and validator both use this constructor
// so duplicate discoveries collapse during report building.
func MissingColumnFinding(field string) ValidationFinding {
	return ValidationFinding{
		Row:      RowBatch,
		Field:    field,
		Kind:     ErrMissingColumn,
		Severity: SeverityBlocking,
		Message:  fmt.Sprintf("required column %q has no data", field),
	}
}

// ExtraColumnFinding builds the informational finding for a source column that
// no mapping rule consumes.
func ExtraColumnFinding(column string) ValidationFinding {
	return ValidationFinding{
		Row:      RowBatch,
		Field:    column,
		Kind:     ErrUnmappedExtraColumn,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("source column %q is not mapped and was ignored", column),
	}
}

// ValidationReport is the aggregated outcome of one pipeline run. Findings keep
// discovery order with batch-level findings first; OK is true iff no finding is
// blocking.
type ValidationReport struct {
	OK            bool                `json:"ok"`
	Findings      []ValidationFinding `json:"findings"`
	RowCount      int                 `json:"row_count"`
	ValidRowCount int                 `json:"valid_row_count"`
	Fingerprint   string              `json:"fingerprint"`
}

// Summary renders the report as human-readable lines, one per finding.
func (r ValidationReport) Summary() []string {
	lines := make([]string, 0, len(r.Findings)+1)
	status := "accepted"
	if !r.OK {
		status = "rejected"
	}
	lines = append(lines, fmt.Sprintf("batch %s: %d/%d rows valid, %d finding(s)",
		status, r.ValidRowCount, r.RowCount, len(r.Findings)))
	for _, f := range r.Findings {
		lines = append(lines, f.Summary())
	}
	return lines
}
