package registry

import (
	"github.com/ecometrics/ingest/internal/domain"
)

// Default business rule tolerances.
const (
	sumRuleTolerance     = 0.01 // absolute, percentage points
	productRuleTolerance = 0.01 // relative, 1%
)

// DefaultSchemas returns the canonical schema for every known data type. These
// are the fixed target field sets the analytics models downstream consume.
func DefaultSchemas() []domain.CanonicalSchema {
	return []domain.CanonicalSchema{
		{
			DataType: domain.DataTypeSales,
			Fields: []domain.FieldSpec{
				{Name: "date", Type: domain.SemanticTypeDate, Required: true},
				{Name: "product_line", Type: domain.SemanticTypeText, Required: true},
				{Name: "region", Type: domain.SemanticTypeText},
				{Name: "customer_segment", Type: domain.SemanticTypeText},
				{Name: "units_sold", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "revenue", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "cost_of_goods", Type: domain.SemanticTypePositiveNumeric},
				{Name: "price", Type: domain.SemanticTypeNumeric},
			},
			Rules: []domain.BusinessRule{
				{
					Name:      "revenue_consistency",
					Kind:      domain.RuleKindProductMatches,
					Operands:  []string{"price", "units_sold"},
					Target:    "revenue",
					Tolerance: productRuleTolerance,
				},
			},
		},
		{
			DataType: domain.DataTypeESG,
			Fields: []domain.FieldSpec{
				{Name: "date", Type: domain.SemanticTypeDate, Required: true},
				{Name: "facility", Type: domain.SemanticTypeText, Required: true},
				{Name: "product_line", Type: domain.SemanticTypeText},
				{Name: "emissions_kg_co2", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "energy_consumption_kwh", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "water_usage_liters", Type: domain.SemanticTypePositiveNumeric},
				{Name: "recycled_material_pct", Type: domain.SemanticTypePercentage},
				{Name: "virgin_material_pct", Type: domain.SemanticTypePercentage},
				{Name: "renewable_energy_pct", Type: domain.SemanticTypePercentage},
			},
			Rules: []domain.BusinessRule{
				{
					Name:      "material_composition",
					Kind:      domain.RuleKindSumEquals,
					Operands:  []string{"recycled_material_pct", "virgin_material_pct"},
					Value:     100,
					Tolerance: sumRuleTolerance,
				},
			},
		},
		{
			DataType: domain.DataTypeSupplyChain,
			Fields: []domain.FieldSpec{
				{Name: "date", Type: domain.SemanticTypeDate, Required: true},
				{Name: "supplier", Type: domain.SemanticTypeText, Required: true},
				{Name: "order_quantity", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "order_value", Type: domain.SemanticTypePositiveNumeric, Required: true},
				{Name: "on_time_delivery", Type: domain.SemanticTypeText},
			},
		},
	}
}

// DefaultIndustryMappings returns the pre-registered mapping rule sets keyed by
// industry. New tenants in a known industry pick these up automatically; they
// are plain MappingRuleSets, not code branches.
func DefaultIndustryMappings() map[string][]domain.MappingRuleSet {
	return map[string][]domain.MappingRuleSet{
		"Manufacturing": {
			{
				DataType: domain.DataTypeSales,
				Columns: map[string]string{
					"date":             "date",
					"product_category": "product_line",
					"location":         "region",
					"client_type":      "customer_segment",
					"units_sold":       "units_sold",
					"revenue":          "revenue",
					"cost_of_goods":    "cost_of_goods",
					"price":            "price",
				},
			},
		},
		"Retail": {
			{
				DataType: domain.DataTypeSales,
				Columns: map[string]string{
					"date":           "date",
					"category":       "product_line",
					"store_location": "region",
					"customer_type":  "customer_segment",
					"units_sold":     "units_sold",
					"revenue":        "revenue",
					"cost_of_goods":  "cost_of_goods",
					"price":          "price",
				},
			},
		},
	}
}
