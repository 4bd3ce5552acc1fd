// Package file implements the table loading and serialization boundary:
// CSV, Excel and JSON in, CSV, Excel and JSON out. Readers guarantee a
// defined column order and native maps/sequences/scalars for nested values.
package file

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gotidy/domain/core"
	"gotidy/domain/table"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// Reader loads a tabular file into a Table.
type Reader struct {
	filePath string
	fileType string // "csv", "xlsx" or "json"

	// DataPath selects the records array inside a JSON document
	// (gjson path syntax). Empty means the document root.
	DataPath string
}

// NewReader creates a reader, detecting the format from the file extension.
func NewReader(filePath string) *Reader {
	fileType := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	if fileType == "xls" {
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a table.
func (r *Reader) Read() (*table.Table, error) {
	log.Printf("[Reader] Reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	case "json":
		return r.readJSON()
	default:
		return nil, core.NewUnsupportedFormatError(r.fileType)
	}
}

func (r *Reader) readCSV() (*table.Table, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[Reader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

func (r *Reader) readExcel() (*table.Table, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	log.Printf("[Reader] Excel sheet %s read (%d rows)", sheets[0], len(rows))

	return r.processRows(rows)
}

// processRows converts raw string rows (header first) into a table, reviving
// numbers, booleans and embedded JSON text into native cell values.
func (r *Reader) processRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, core.ErrNoHeader
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := table.New(headers...)
	for _, raw := range rows[1:] {
		row := make(table.Row, len(headers))
		for j, cell := range raw {
			if j >= len(headers) {
				break
			}
			row[headers[j]] = parseCell(cell)
		}
		t.Rows = append(t.Rows, row)
	}

	log.Printf("[Reader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), t.NumColumns(), t.NumRows())
	return t, nil
}

// parseCell revives a raw cell string into a typed value. Embedded JSON
// objects/arrays become native mappings/sequences so the converter sees
// nested structure, not pre-serialized text.
func parseCell(raw string) table.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return table.Null()
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		if gjson.Valid(s) {
			return table.ParseJSON([]byte(s))
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return table.Number(f)
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return table.Bool(b)
	}
	return table.String(s)
}

func (r *Reader) readJSON() (*table.Table, error) {
	raw, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ParseJSONRecords(raw, r.DataPath)
}

// ParseJSONRecords builds a table from a JSON document. dataPath selects the
// records array (gjson path); empty selects the root. A single object is
// wrapped into a one-row table.
func ParseJSONRecords(raw []byte, dataPath string) (*table.Table, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	node := gjson.ParseBytes(raw)
	if dataPath != "" {
		node = node.Get(dataPath)
		if !node.Exists() {
			return nil, fmt.Errorf("data path %q not found in document", dataPath)
		}
	}
	switch {
	case node.IsArray():
		return table.ParseJSONTable(node), nil
	case node.IsObject():
		wrapped := gjson.Parse("[" + node.Raw + "]")
		return table.ParseJSONTable(wrapped), nil
	default:
		return nil, fmt.Errorf("data path %q is not an array or object", dataPath)
	}
}
