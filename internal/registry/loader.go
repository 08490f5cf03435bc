package registry

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ecometrics/ingest/internal/domain"
)

// CompanySource lists tenants from the configuration store.
type CompanySource interface {
	List(ctx context.Context) ([]domain.Company, error)
}

// MappingSource lists persisted mapping rule sets from the configuration store.
type MappingSource interface {
	ListAll(ctx context.Context) ([]domain.MappingRuleSet, error)
}

// Hydrate loads companies and mapping rule sets from the configuration store
// into the registry. Companies and mappings are fetched concurrently; mappings
// are registered after companies so validation runs against loaded schemas.
func Hydrate(ctx context.Context, r *Registry, companies CompanySource, mappings MappingSource) error {
	var (
		loadedCompanies []domain.Company
		loadedMappings  []domain.MappingRuleSet
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := companies.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to load companies: %w", err)
		}
		loadedCompanies = list
		return nil
	})
	g.Go(func() error {
		list, err := mappings.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load mappings: %w", err)
		}
		loadedMappings = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, company := range loadedCompanies {
		r.RegisterCompany(company)
	}
	for _, m := range loadedMappings {
		if err := r.RegisterMapping(m); err != nil {
			return fmt.Errorf("failed to register mapping for %s/%s: %w", m.CompanyID, m.DataType, err)
		}
	}
	return nil
}
