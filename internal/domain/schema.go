package domain

import (
	"errors"
	"fmt"
)

// SemanticType represents the semantic type of a canonical field
type SemanticType string

const (
	SemanticTypeDate            SemanticType = "date"
	SemanticTypeNumeric         SemanticType = "numeric"
	SemanticTypePositiveNumeric SemanticType = "positive_numeric"
	SemanticTypePercentage      SemanticType = "percentage"
	SemanticTypeText            SemanticType = "text"
)

// FieldSpec describes one canonical field of a schema
type FieldSpec struct {
	Name        string       `json:"name"`
	Type        SemanticType `json:"type"`
	Required    bool         `json:"required"`
	Min         *float64     `json:"min,omitempty"`
	Max         *float64     `json:"max,omitempty"`
	Description string       `json:"description,omitempty"`
}

// RuleKind tags the variant of a cross-field business rule.
type RuleKind string

const (
	// RuleKindSumEquals checks that the operand fields sum to Value within an
	// absolute Tolerance.
	RuleKindSumEquals RuleKind = "sum_equals"
	// RuleKindProductMatches checks that the Target field equals the product of
	// the operand fields within a relative Tolerance.
	RuleKindProductMatches RuleKind = "product_matches"
)

// BusinessRule is a cross-field rule evaluated per row. Rules are declared per
// DataType on the canonical schema and evaluated generically by the validator,
// so adding a rule never touches validator control flow.
type BusinessRule struct {
	Name      string   `json:"name"`
	Kind      RuleKind `json:"kind"`
	Operands  []string `json:"operands"`
	Target    string   `json:"target,omitempty"`
	Value     float64  `json:"value,omitempty"`
	Tolerance float64  `json:"tolerance"`
}

// CanonicalSchema is the fixed target field set for one DataType. Field order
// is significant and preserved everywhere downstream.
type CanonicalSchema struct {
	DataType DataType       `json:"data_type"`
	Fields   []FieldSpec    `json:"fields"`
	Rules    []BusinessRule `json:"rules,omitempty"`
}

// Field returns the spec for a canonical field name.
func (cs CanonicalSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range cs.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns all canonical field names in declaration order.
func (cs CanonicalSchema) FieldNames() []string {
	names := make([]string, 0, len(cs.Fields))
	for _, f := range cs.Fields {
		names = append(names, f.Name)
	}
	return names
}

// RequiredFields returns the required field specs in declaration order.
func (cs CanonicalSchema) RequiredFields() []FieldSpec {
	var required []FieldSpec
	for _, f := range cs.Fields {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

// Validate checks schema invariants: unique field names, a non-empty required
// subset, and rule operands/targets that exist in the field set.
func (cs CanonicalSchema) Validate() error {
	if len(cs.Fields) == 0 {
		return errors.New("schema has no fields")
	}

	seen := make(map[string]struct{}, len(cs.Fields))
	requiredCount := 0
	for _, f := range cs.Fields {
		if f.Name == "" {
			return errors.New("schema has a field with an empty name")
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate field name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Required {
			requiredCount++
		}
	}
	if requiredCount == 0 {
		return fmt.Errorf("schema for %s declares no required fields", cs.DataType)
	}

	for _, rule := range cs.Rules {
		for _, operand := range rule.Operands {
			if _, ok := seen[operand]; !ok {
				return fmt.Errorf("rule %s references unknown field %q", rule.Name, operand)
			}
		}
		if rule.Target != "" {
			if _, ok := seen[rule.Target]; !ok {
				return fmt.Errorf("rule %s targets unknown field %q", rule.Name, rule.Target)
			}
		}
	}

	return nil
}
