package domain

import "fmt"

// DataType categorizes an uploaded batch and selects the canonical schema and
// rule set that apply to it.
type DataType string

const (
	DataTypeSales       DataType = "sales"
	DataTypeESG         DataType = "esg"
	DataTypeSupplyChain DataType = "supply_chain"
)

// KnownDataTypes lists every supported data type in a stable order.
func KnownDataTypes() []DataType {
	return []DataType{DataTypeSales, DataTypeESG, DataTypeSupplyChain}
}

// ParseDataType converts a raw string into a DataType.
func ParseDataType(raw string) (DataType, error) {
	switch DataType(raw) {
	case DataTypeSales, DataTypeESG, DataTypeSupplyChain:
		return DataType(raw), nil
	default:
		return "", fmt.Errorf("unknown data type %q", raw)
	}
}
