package sample

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/pipeline"
	"github.com/ecometrics/ingest/internal/registry"
)

// Handler serves generated sample batches, validated through the real
// pipeline so clients see exactly what an upload outcome looks like.
type Handler struct {
	coordinator *pipeline.Coordinator
	registry    *registry.Registry
}

// NewHTTPHandler creates the sample data endpoint.
func NewHTTPHandler(coordinator *pipeline.Coordinator, reg *registry.Registry) http.Handler {
	return &Handler{coordinator: coordinator, registry: reg}
}

type response struct {
	Batch  domain.RawRecordBatch   `json:"batch"`
	Report domain.ValidationReport `json:"report"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	companyID := strings.TrimSpace(r.URL.Query().Get("companyId"))
	if companyID == "" {
		http.Error(w, "companyId is required", http.StatusBadRequest)
		return
	}
	dataType, err := domain.ParseDataType(r.URL.Query().Get("dataType"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := 100
	if raw := r.URL.Query().Get("rows"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 10000 {
			http.Error(w, "rows must be a positive integer up to 10000", http.StatusBadRequest)
			return
		}
		rows = parsed
	}

	seed := time.Now().UnixNano()
	if raw := r.URL.Query().Get("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		seed = parsed
	}

	batch := Generate(dataType, rows, seed)

	// Generated columns are canonical; rewrite them into the tenant's source
	// vocabulary so the batch exercises the tenant's actual mapping rules.
	if rules, err := h.registry.ResolveMapping(companyID, dataType); err == nil {
		batch = renameToSource(batch, rules)
	}

	outcome, err := h.coordinator.Process(companyID, dataType, batch)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(response{Batch: batch, Report: outcome.Report})
}

// renameToSource rewrites canonical column names into the tenant's source
// vocabulary. For the identity mapping this is a no-op.
func renameToSource(batch domain.RawRecordBatch, rules domain.MappingRuleSet) domain.RawRecordBatch {
	sourceOf := make(map[string]string, len(rules.Columns))
	for source, target := range rules.Columns {
		if _, taken := sourceOf[target]; !taken {
			sourceOf[target] = source
		}
	}

	columns := make([]string, len(batch.Columns))
	for i, column := range batch.Columns {
		if source, ok := sourceOf[column]; ok {
			columns[i] = source
		} else {
			columns[i] = column
		}
	}

	rows := make([]map[string]any, len(batch.Rows))
	for i, row := range batch.Rows {
		renamed := make(map[string]any, len(row))
		for column, value := range row {
			if source, ok := sourceOf[column]; ok {
				renamed[source] = value
			} else {
				renamed[column] = value
			}
		}
		rows[i] = renamed
	}

	return domain.RawRecordBatch{Columns: columns, Rows: rows}
}
