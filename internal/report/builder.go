// Package report aggregates mapper and validator findings into one ordered,
// deduplicated ValidationReport.
package report

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ecometrics/ingest/internal/domain"
)

// Build merges findings preserving discovery order, with batch-level findings
// ahead of row-level ones. Exact duplicates (same kind, row, field and message)
// collapse to the first occurrence. OK is true iff no finding is blocking;
// warnings may coexist with OK.
func Build(findings []domain.ValidationFinding, rowCount, validRowCount int) domain.ValidationReport {
	ordered := make([]domain.ValidationFinding, 0, len(findings))
	for _, f := range findings {
		if f.BatchLevel() {
			ordered = append(ordered, f)
		}
	}
	for _, f := range findings {
		if !f.BatchLevel() {
			ordered = append(ordered, f)
		}
	}

	seen := make(map[string]struct{}, len(ordered))
	deduped := ordered[:0]
	for _, f := range ordered {
		key := fmt.Sprintf("%s|%d|%s|%s", f.Kind, f.Row, f.Field, f.Message)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, f)
	}

	ok := true
	for _, f := range deduped {
		if f.Severity == domain.SeverityBlocking {
			ok = false
			break
		}
	}

	rep := domain.ValidationReport{
		OK:            ok,
		Findings:      deduped,
		RowCount:      rowCount,
		ValidRowCount: validRowCount,
	}
	rep.Fingerprint = fingerprint(rep)
	return rep
}

// fingerprint hashes the report's canonical serialization. Identical inputs
// produce identical reports, so re-running a batch is cheaply verifiable.
func fingerprint(rep domain.ValidationReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ok=%t;rows=%d;valid=%d;", rep.OK, rep.RowCount, rep.ValidRowCount)
	for _, f := range rep.Findings {
		fmt.Fprintf(&sb, "%s|%s|%d|%s|%s;", f.Kind, f.Severity, f.Row, f.Field, f.Message)
	}
	return fmt.Sprintf("%016x", xxh3.HashString(sb.String()))
}
