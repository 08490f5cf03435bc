// Package sample produces demonstration batches for a data type. Generated
// batches use canonical column names and satisfy every validation rule, so
// running one through the pipeline is a quick end-to-end smoke check for a new
// tenant.
package sample

import (
	"math/rand"
	"time"

	"github.com/ecometrics/ingest/internal/domain"
)

var (
	productLines     = []string{"Electronics", "Automotive", "Machinery", "Textiles"}
	regions          = []string{"North America", "Europe", "Asia Pacific"}
	customerSegments = []string{"Retail", "Wholesale", "Food & Beverage"}
	facilities       = []string{"Plant A", "Plant B", "Plant C"}
	suppliers        = []string{"Supplier A", "Supplier B", "Supplier C", "Supplier D"}
)

// Generate builds a batch of n rows for the data type. The same seed always
// yields the same batch.
func Generate(dataType domain.DataType, n int, seed int64) domain.RawRecordBatch {
	if n <= 0 {
		n = 100
	}
	rng := rand.New(rand.NewSource(seed))

	switch dataType {
	case domain.DataTypeSales:
		return salesBatch(rng, n)
	case domain.DataTypeESG:
		return esgBatch(rng, n)
	case domain.DataTypeSupplyChain:
		return supplyChainBatch(rng, n)
	default:
		return domain.RawRecordBatch{}
	}
}

func salesBatch(rng *rand.Rand, n int) domain.RawRecordBatch {
	columns := []string{"date", "product_line", "region", "customer_segment", "units_sold", "revenue", "cost_of_goods"}
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{
			"date":             randomDate(rng),
			"product_line":     pick(rng, productLines),
			"region":           pick(rng, regions),
			"customer_segment": pick(rng, customerSegments),
			"units_sold":       float64(10 + rng.Intn(990)),
			"revenue":          100 + rng.Float64()*9900,
			"cost_of_goods":    50 + rng.Float64()*4950,
		}
	}
	return domain.RawRecordBatch{Columns: columns, Rows: rows}
}

func esgBatch(rng *rand.Rand, n int) domain.RawRecordBatch {
	columns := []string{"date", "facility", "product_line", "emissions_kg_co2", "energy_consumption_kwh", "water_usage_liters", "recycled_material_pct", "virgin_material_pct"}
	rows := make([]map[string]any, n)
	for i := range rows {
		recycled := 20 + rng.Float64()*60
		rows[i] = map[string]any{
			"date":                   randomDate(rng),
			"facility":               pick(rng, facilities),
			"product_line":           pick(rng, productLines),
			"emissions_kg_co2":       10 + rng.Float64()*490,
			"energy_consumption_kwh": 100 + rng.Float64()*1900,
			"water_usage_liters":     50 + rng.Float64()*950,
			"recycled_material_pct":  recycled,
			"virgin_material_pct":    100 - recycled,
		}
	}
	return domain.RawRecordBatch{Columns: columns, Rows: rows}
}

func supplyChainBatch(rng *rand.Rand, n int) domain.RawRecordBatch {
	columns := []string{"date", "supplier", "order_quantity", "order_value", "on_time_delivery"}
	rows := make([]map[string]any, n)
	for i := range rows {
		delivery := "true"
		if rng.Float64() < 0.2 {
			delivery = "false"
		}
		rows[i] = map[string]any{
			"date":             randomDate(rng),
			"supplier":         pick(rng, suppliers),
			"order_quantity":   float64(100 + rng.Intn(4900)),
			"order_value":      1000 + rng.Float64()*49000,
			"on_time_delivery": delivery,
		}
	}
	return domain.RawRecordBatch{Columns: columns, Rows: rows}
}

func randomDate(rng *rand.Rand) string {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, rng.Intn(365)).Format("2006-01-02")
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
