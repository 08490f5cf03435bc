// Package ingestion is the upload-facing edge of the system: it parses
// uploaded files into raw record batches, hands them to the pipeline
// coordinator, and persists accepted batches plus a log of every blocking
// finding.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ecometrics/ingest/internal/auth"
	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/pipeline"
	"github.com/ecometrics/ingest/internal/repository"
)

// Service processes uploads end to end.
type Service struct {
	coordinator *pipeline.Coordinator
	staging     repository.StagingRepository
	logs        repository.IngestionLogRepository
}

// NewService creates a new ingestion service.
func NewService(
	coordinator *pipeline.Coordinator,
	staging repository.StagingRepository,
	logs repository.IngestionLogRepository,
) *Service {
	return &Service{
		coordinator: coordinator,
		staging:     staging,
		logs:        logs,
	}
}

// UploadRequest describes one uploaded file.
type UploadRequest struct {
	CompanyID string
	DataType  string
	FileName  string
	Data      io.Reader
}

// UploadResult reports the outcome of one upload.
type UploadResult struct {
	Accepted   bool                    `json:"accepted"`
	Report     domain.ValidationReport `json:"report"`
	BatchID    uuid.UUID               `json:"batchId,omitempty"`
	RowsStaged int                     `json:"rowsStaged"`
}

// Upload parses the file, runs the mapping/validation pipeline, and persists
// the mapped batch when the report is clean. Configuration errors are returned
// as-is; validation failures come back inside the report with Accepted=false.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	var result UploadResult

	if strings.TrimSpace(req.CompanyID) == "" {
		// Fall back to the tenant scope carried on the context.
		id, ok := auth.CompanyIDFromContext(ctx)
		if !ok {
			return result, errors.New("company id is required")
		}
		req.CompanyID = id
	}
	if req.Data == nil {
		return result, errors.New("data reader is required")
	}

	dataType, err := domain.ParseDataType(req.DataType)
	if err != nil {
		return result, err
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return result, fmt.Errorf("failed to read upload: %w", err)
	}

	raw, err := ParseFile(req.FileName, payload)
	if err != nil {
		return result, err
	}

	outcome, err := s.coordinator.Process(req.CompanyID, dataType, raw)
	if err != nil {
		return result, err
	}

	s.logFindings(ctx, req, dataType, outcome.Report)
	result.Report = outcome.Report

	if !outcome.Report.OK {
		return result, nil
	}

	if s.staging != nil {
		staged, err := s.staging.StageBatch(ctx, repository.StagedBatch{
			CompanyID:   req.CompanyID,
			DataType:    dataType,
			FileName:    req.FileName,
			Fingerprint: outcome.Report.Fingerprint,
			Batch:       outcome.Batch,
		})
		if err != nil {
			return result, fmt.Errorf("failed to stage batch: %w", err)
		}
		result.BatchID = staged.BatchID
		result.RowsStaged = staged.RowsStaged
	}

	result.Accepted = true
	return result, nil
}

func (s *Service) logFindings(ctx context.Context, req UploadRequest, dataType domain.DataType, rep domain.ValidationReport) {
	if s.logs == nil {
		return
	}
	for _, f := range rep.Findings {
		if f.Severity != domain.SeverityBlocking {
			continue
		}
		entry := domain.IngestionLogEntry{
			CompanyID: req.CompanyID,
			DataType:  dataType,
			FileName:  req.FileName,
			Kind:      f.Kind,
			Message:   f.Summary(),
		}
		if !f.BatchLevel() {
			row := f.Row
			entry.RowNumber = &row
		}
		_ = s.logs.Record(ctx, entry)
	}
}
