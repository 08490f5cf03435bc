package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ecometrics/ingest/internal/domain"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ParseFile converts an uploaded file into a RawRecordBatch: one shared column
// set and untyped cell values. CSV, Excel (.xlsx) and JSON (array of objects)
// are supported.
func ParseFile(fileName string, payload []byte) (domain.RawRecordBatch, error) {
	if len(payload) == 0 {
		return domain.RawRecordBatch{}, errors.New("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	case ".json":
		return parseJSON(payload)
	default:
		return domain.RawRecordBatch{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) (domain.RawRecordBatch, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return domain.RawRecordBatch{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return tableToBatch(records)
}

func parseExcel(payload []byte) (domain.RawRecordBatch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return domain.RawRecordBatch{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawRecordBatch{}, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return domain.RawRecordBatch{}, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return tableToBatch(rows)
}

func parseJSON(payload []byte) (domain.RawRecordBatch, error) {
	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		return domain.RawRecordBatch{}, fmt.Errorf("failed to parse json: expected an array of objects: %w", err)
	}
	if len(records) == 0 {
		return domain.RawRecordBatch{}, errors.New("no rows found in file")
	}

	// JSON objects carry no column order; collect the union of keys and sort
	// for a deterministic column set.
	keys := make(map[string]struct{})
	for _, record := range records {
		for k := range record {
			keys[k] = struct{}{}
		}
	}
	rawColumns := make([]string, 0, len(keys))
	for k := range keys {
		rawColumns = append(rawColumns, k)
	}
	sort.Strings(rawColumns)

	columns := sanitizeHeaders(rawColumns)
	rows := make([]map[string]any, len(records))
	for i, record := range records {
		row := make(map[string]any, len(columns))
		for idx, raw := range rawColumns {
			if value, ok := record[raw]; ok {
				row[columns[idx]] = value
			}
		}
		rows[i] = row
	}

	return domain.RawRecordBatch{Columns: columns, Rows: rows}, nil
}

// tableToBatch treats the first non-empty row as the header and every later
// non-empty row as data.
func tableToBatch(records [][]string) (domain.RawRecordBatch, error) {
	if len(records) == 0 {
		return domain.RawRecordBatch{}, errors.New("no rows found in file")
	}

	var headerRow []string
	var dataRows [][]string
	for _, row := range records {
		if isBlankRow(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}
	if headerRow == nil {
		return domain.RawRecordBatch{}, errors.New("no header row detected")
	}

	columns := sanitizeHeaders(headerRow)
	rows := make([]map[string]any, len(dataRows))
	for i, dataRow := range dataRows {
		row := make(map[string]any, len(columns))
		for idx, column := range columns {
			if idx < len(dataRow) {
				row[column] = strings.TrimSpace(dataRow[idx])
			} else {
				row[column] = ""
			}
		}
		rows[i] = row
	}

	return domain.RawRecordBatch{Columns: columns, Rows: rows}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// foldAccents strips combining marks so headers like "Región" normalize to the
// same column name as "Region".
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func sanitizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]int)

	for idx, value := range raw {
		name := strings.TrimSpace(value)
		if folded, _, err := transform.String(foldAccents, name); err == nil {
			name = folded
		}
		name = strings.ToLower(name)
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}
