package domain

// RawRecordBatch is one uploaded table as handed over by the file ingestion
// layer: an ordered column set shared by all rows, and untyped cell values
// (string, number, bool or nil) keyed by source column name.
type RawRecordBatch struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// MappedRecordBatch is the batch after column mapping, keyed by canonical field
// names only. Row order is preserved from the source so findings stay
// traceable, and rows with unresolved required fields are retained rather than
// dropped.
type MappedRecordBatch struct {
	Fields []string         `json:"fields"`
	Rows   []map[string]any `json:"rows"`
}

// HasField reports whether any row received a value for the canonical field.
func (b MappedRecordBatch) HasField(name string) bool {
	for _, f := range b.Fields {
		if f == name {
			return true
		}
	}
	return false
}
