package export

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Handler exposes batch export as an HTTP download endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
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

	batchID, err := uuid.Parse(strings.TrimSpace(r.URL.Query().Get("batchId")))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid batch id: %v", err), http.StatusBadRequest)
		return
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	record, err := h.service.FindBatch(r.Context(), companyID, batchID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	fileName := fmt.Sprintf("%s_%s_%s.%s", record.CompanyID, record.DataType, batchID, format)
	switch format {
	case FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	case FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if _, err := h.service.Export(r.Context(), record, format, w); err != nil {
		// Headers already written; cut the stream short.
		return
	}
}
