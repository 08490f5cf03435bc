// Package company exposes tenant management over HTTP. Creating a company also
// registers it with the schema registry so uploads resolve immediately.
package company

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ecometrics/ingest/internal/domain"
	"github.com/ecometrics/ingest/internal/registry"
	"github.com/ecometrics/ingest/internal/repository"
)

// Handler serves company CRUD requests.
type Handler struct {
	repo     repository.CompanyRepository
	mappings repository.MappingRepository
	registry *registry.Registry
}

// NewHTTPHandler creates the company management handler.
func NewHTTPHandler(repo repository.CompanyRepository, mappings repository.MappingRepository, reg *registry.Registry) http.Handler {
	return &Handler{repo: repo, mappings: mappings, registry: reg}
}

type createRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Demo        bool   `json:"demo"`
}

type mappingRequest struct {
	DataType string                `json:"dataType"`
	Columns  map[string]string     `json:"columns"`
	Derived  []domain.DerivedField `json:"derived,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/companies"), "/")

	switch {
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case rest == "" && r.Method == http.MethodPost:
		h.create(w, r)
	case strings.HasSuffix(rest, "/mappings") && r.Method == http.MethodPut:
		h.putMapping(w, r, strings.TrimSuffix(rest, "/mappings"))
	case rest != "" && r.Method == http.MethodGet:
		h.get(w, r, rest)
	case rest != "" && r.Method == http.MethodDelete:
		h.deactivate(w, r, rest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companies, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, companies)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id string) {
	company, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "id and name are required", http.StatusBadRequest)
		return
	}

	company := domain.NewCompany(req.ID, req.Name, req.Industry, req.Description).WithDemo(req.Demo)
	created, err := h.repo.Create(r.Context(), company)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.registry.RegisterCompany(created)
	writeJSON(w, http.StatusCreated, created)
}

// putMapping registers a tenant-specific mapping rule set. The registry
// validates the mapping against the canonical schema before anything persists,
// so a broken mapping never reaches the configuration store.
func (h *Handler) putMapping(w http.ResponseWriter, r *http.Request, companyID string) {
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	dataType, err := domain.ParseDataType(req.DataType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m := domain.MappingRuleSet{
		CompanyID: companyID,
		DataType:  dataType,
		Columns:   req.Columns,
		Derived:   req.Derived,
	}
	if err := h.registry.RegisterMapping(m); err != nil {
		var cfgErr *domain.ConfigurationError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.mappings.Upsert(r.Context(), m); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
