package registry

import (
	"sync"

	"github.com/ecometrics/ingest/internal/domain"
)

type mappingKey struct {
	companyID string
	dataType  domain.DataType
}

// Registry holds per-tenant configuration: canonical schemas per data type and
// mapping rule sets per (company, data type). The read path is safe for
// concurrent lookups from workers validating different tenants; registered
// schemas are never mutated during a run.
type Registry struct {
	mu        sync.RWMutex
	companies map[string]domain.Company
	schemas   map[domain.DataType]domain.CanonicalSchema
	mappings  map[mappingKey]domain.MappingRuleSet
	industry  map[mappingKey]domain.MappingRuleSet
}

// New creates a registry seeded with the default canonical schemas and the
// default industry mapping sets.
func New() *Registry {
	r := &Registry{
		companies: make(map[string]domain.Company),
		schemas:   make(map[domain.DataType]domain.CanonicalSchema),
		mappings:  make(map[mappingKey]domain.MappingRuleSet),
		industry:  make(map[mappingKey]domain.MappingRuleSet),
	}
	for _, schema := range DefaultSchemas() {
		r.schemas[schema.DataType] = schema
	}
	for industry, sets := range DefaultIndustryMappings() {
		for _, set := range sets {
			r.industry[mappingKey{companyID: industry, dataType: set.DataType}] = set
		}
	}
	return r
}

// RegisterCompany makes a tenant known to the registry.
func (r *Registry) RegisterCompany(company domain.Company) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.companies[company.ID] = company
}

// RegisterSchema registers or replaces the canonical schema for a data type.
func (r *Registry) RegisterSchema(schema domain.CanonicalSchema) error {
	if err := schema.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.DataType] = schema
	return nil
}

// RegisterMapping registers a tenant-specific mapping rule set after checking
// it against the canonical schema for its data type.
func (r *Registry) RegisterMapping(m domain.MappingRuleSet) error {
	r.mu.RLock()
	schema, ok := r.schemas[m.DataType]
	r.mu.RUnlock()
	if !ok {
		return &domain.ConfigurationError{
			Kind:      domain.ConfigErrorUnknownDataType,
			CompanyID: m.CompanyID,
			DataType:  m.DataType,
		}
	}
	if err := m.Validate(schema); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[mappingKey{companyID: m.CompanyID, dataType: m.DataType}] = m
	return nil
}

// Company returns the registered tenant record.
func (r *Registry) Company(companyID string) (domain.Company, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[companyID]
	return company, ok
}

// Companies returns all registered tenants.
func (r *Registry) Companies() []domain.Company {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, c)
	}
	return out
}

// ResolveSchema returns the canonical schema to apply for a tenant upload.
func (r *Registry) ResolveSchema(companyID string, dataType domain.DataType) (domain.CanonicalSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.companies[companyID]; !ok {
		return domain.CanonicalSchema{}, &domain.ConfigurationError{
			Kind:      domain.ConfigErrorUnknownTenant,
			CompanyID: companyID,
			DataType:  dataType,
		}
	}
	schema, ok := r.schemas[dataType]
	if !ok {
		return domain.CanonicalSchema{}, &domain.ConfigurationError{
			Kind:      domain.ConfigErrorUnknownDataType,
			CompanyID: companyID,
			DataType:  dataType,
		}
	}
	return schema, nil
}

// ResolveMapping returns the mapping rule set for a tenant upload. Resolution
// precedence: tenant-specific mapping, then the tenant industry's default set,
// then the identity mapping over the canonical schema.
func (r *Registry) ResolveMapping(companyID string, dataType domain.DataType) (domain.MappingRuleSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, ok := r.companies[companyID]
	if !ok {
		return domain.MappingRuleSet{}, &domain.ConfigurationError{
			Kind:      domain.ConfigErrorUnknownTenant,
			CompanyID: companyID,
			DataType:  dataType,
		}
	}
	schema, ok := r.schemas[dataType]
	if !ok {
		return domain.MappingRuleSet{}, &domain.ConfigurationError{
			Kind:      domain.ConfigErrorUnknownDataType,
			CompanyID: companyID,
			DataType:  dataType,
		}
	}

	if m, ok := r.mappings[mappingKey{companyID: companyID, dataType: dataType}]; ok {
		return m, nil
	}
	if m, ok := r.industry[mappingKey{companyID: company.Industry, dataType: dataType}]; ok {
		m.CompanyID = companyID
		return m, nil
	}
	return domain.IdentityMapping(companyID, schema), nil
}

// DemoMode reports whether the tenant runs in transitional demo mode, which
// downgrades business rule violations to warnings.
func (r *Registry) DemoMode(companyID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	company, ok := r.companies[companyID]
	return ok && company.Demo
}
