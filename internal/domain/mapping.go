package domain

import "fmt"

// CombineOp is the explicit combination applied by a derived-field rule.
type CombineOp string

const (
	CombineMultiply CombineOp = "multiply"
	CombineSum      CombineOp = "sum"
)

// DerivedField computes a canonical field from already-mapped canonical values,
// e.g. revenue = price * units_sold. A missing input yields a null value for
// the target rather than failing the row.
type DerivedField struct {
	Target string    `json:"target"`
	Op     CombineOp `json:"op"`
	Inputs []string  `json:"inputs"`
}

// MappingRuleSet maps a company's source column vocabulary onto the canonical
// schema for one data type. Columns is a source-to-canonical rename table;
// Derived lists combination rules evaluated after the renames.
type MappingRuleSet struct {
	CompanyID string            `json:"company_id"`
	DataType  DataType          `json:"data_type"`
	Columns   map[string]string `json:"columns"`
	Derived   []DerivedField    `json:"derived,omitempty"`
}

// IdentityMapping returns the default mapping for a schema: every canonical
// field maps to itself. Tenants without a registered mapping fall back to this.
func IdentityMapping(companyID string, schema CanonicalSchema) MappingRuleSet {
	columns := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		columns[f.Name] = f.Name
	}
	return MappingRuleSet{
		CompanyID: companyID,
		DataType:  schema.DataType,
		Columns:   columns,
	}
}

// Validate checks the mapping against the canonical schema it targets. Every
// target must exist in the schema, and two source columns may not map to the
// same canonical field; many-to-one is only allowed through an explicit
// derived-field rule.
func (m MappingRuleSet) Validate(schema CanonicalSchema) error {
	targets := make(map[string]string, len(m.Columns))
	for source, target := range m.Columns {
		if _, ok := schema.Field(target); !ok {
			return &ConfigurationError{
				Kind:      ConfigErrorUnknownMappingTarget,
				CompanyID: m.CompanyID,
				DataType:  m.DataType,
				Detail:    fmt.Sprintf("column %q maps to unknown canonical field %q", source, target),
			}
		}
		if prev, dup := targets[target]; dup {
			return &ConfigurationError{
				Kind:      ConfigErrorDuplicateMappingTarget,
				CompanyID: m.CompanyID,
				DataType:  m.DataType,
				Detail:    fmt.Sprintf("columns %q and %q both map to canonical field %q", prev, source, target),
			}
		}
		targets[target] = source
	}

	for _, d := range m.Derived {
		if _, ok := schema.Field(d.Target); !ok {
			return &ConfigurationError{
				Kind:      ConfigErrorUnknownMappingTarget,
				CompanyID: m.CompanyID,
				DataType:  m.DataType,
				Detail:    fmt.Sprintf("derived rule targets unknown canonical field %q", d.Target),
			}
		}
		if d.Op != CombineMultiply && d.Op != CombineSum {
			return &ConfigurationError{
				Kind:      ConfigErrorUnknownMappingTarget,
				CompanyID: m.CompanyID,
				DataType:  m.DataType,
				Detail:    fmt.Sprintf("derived rule for %q has unknown combination %q", d.Target, d.Op),
			}
		}
		if len(d.Inputs) == 0 {
			return &ConfigurationError{
				Kind:      ConfigErrorUnknownMappingTarget,
				CompanyID: m.CompanyID,
				DataType:  m.DataType,
				Detail:    fmt.Sprintf("derived rule for %q declares no inputs", d.Target),
			}
		}
	}

	return nil
}
