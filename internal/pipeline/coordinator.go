// Package pipeline orchestrates one upload through mapping, validation and
// report building. Process is the single entry point the upload handler calls;
// it is idempotent and side effect free, so re-validating the same batch is
// always safe.
package pipeline

import (
	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/mapper"
	"github.com/ecometrics/ingest/internal/registry"
	"github.com/ecometrics/ingest/internal/report"
	"github.com/ecometrics/ingest/internal/schema/validator"
)

// Coordinator resolves tenant configuration and runs the mapping/validation
// pipeline for one batch at a time. It holds no per-run state, so one
// Coordinator serves concurrent uploads from independent tenants.
type Coordinator struct {
	registry *registry.Registry
	cfg      validator.Config
}

// New creates a coordinator over a registry with the given validation config.
func New(reg *registry.Registry, cfg validator.Config) *Coordinator {
	return &Coordinator{registry: reg, cfg: cfg}
}

// Outcome is the result of one pipeline run. Batch is populated only when the
// report is OK; a rejected upload carries the full failing report instead.
type Outcome struct {
	Batch  domain.MappedRecordBatch
	Report domain.ValidationReport
}

// Process validates one raw batch for a tenant and data type. A non-nil error
// is always a *domain.ConfigurationError and means the run aborted before any
// report could be produced; every other failure mode is expressed through the
// report. All blocking findings are collected in one pass so the caller can
// present an itemized correction list.
func (c *Coordinator) Process(companyID string, dataType domain.DataType, raw domain.RawRecordBatch) (Outcome, error) {
	schema, err := c.registry.ResolveSchema(companyID, dataType)
	if err != nil {
		return Outcome{}, err
	}
	rules, err := c.registry.ResolveMapping(companyID, dataType)
	if err != nil {
		return Outcome{}, err
	}

	mapped := mapper.Map(raw, rules, schema)

	var findings []domain.ValidationFinding
	for _, field := range mapped.MissingRequired {
		findings = append(findings, domain.MissingColumnFinding(field))
	}
	for _, column := range mapped.UnmappedColumns {
		findings = append(findings, domain.ExtraColumnFinding(column))
	}

	cfg := c.cfg
	cfg.DemoMode = c.registry.DemoMode(companyID)

	result := validator.Validate(mapped.Batch, schema, cfg)
	findings = append(findings, result.Findings...)

	rep := report.Build(findings, result.RowCount, result.ValidRowCount)

	outcome := Outcome{Report: rep}
	if rep.OK {
		outcome.Batch = mapped.Batch
	}
	return outcome, nil
}
