package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ecometrics/ingest/internal/auth"
	"github.com/ecometrics/ingest/internal/domain"
)

// Handler exposes upload processing as an HTTP endpoint.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	companyID := strings.TrimSpace(r.FormValue("companyId"))
	if companyID == "" {
		http.Error(w, "companyId is required", http.StatusBadRequest)
		return
	}
	dataType := strings.TrimSpace(r.FormValue("dataType"))
	if dataType == "" {
		http.Error(w, "dataType is required", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	req := UploadRequest{
		CompanyID: companyID,
		DataType:  dataType,
		FileName:  header.Filename,
		Data:      bytes.NewReader(data),
	}

	ctx := auth.ContextWithCompanyID(r.Context(), companyID)
	result, err := h.service.Upload(ctx, req)
	if err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if !result.Accepted {
		// The full report ships in the body so the client can render an
		// itemized correction list.
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
