package ingestion

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ecometrics/ingest/internal/repository"
)

// LogHandler serves the ingestion log so tenants can review past blocking
// findings without re-uploading.
type LogHandler struct {
	logs repository.IngestionLogRepository
}

// NewLogHandler creates the ingestion log endpoint.
func NewLogHandler(logs repository.IngestionLogRepository) http.Handler {
	return &LogHandler{logs: logs}
}

func (h *LogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	companyID := strings.TrimSpace(r.URL.Query().Get("companyId"))
	if companyID == "" {
		http.Error(w, "companyId is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.logs.ListByCompany(r.Context(), companyID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
