package file

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gotidy/domain/core"
	"gotidy/domain/table"

	"github.com/xuri/excelize/v2"
)

// Write serializes a table to a file, picking the format from the extension.
func Write(t *table.Table, filePath string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")
	switch ext {
	case "csv":
		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer f.Close()
		return WriteCSV(t, f)
	case "xlsx":
		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("failed to create Excel file: %w", err)
		}
		defer f.Close()
		return WriteExcel(t, f)
	case "json":
		f, err := os.Create(filePath)
		if err != nil {
			return fmt.Errorf("failed to create JSON file: %w", err)
		}
		defer f.Close()
		return WriteJSON(t, f)
	default:
		return core.NewUnsupportedFormatError(ext)
	}
}

// WriteCSV writes the table as CSV: header row then data rows in column
// order. Complex cells render as compact JSON text.
func WriteCSV(t *table.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j, col := range t.Columns {
			record[j] = cellText(t.Cell(i, col))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcel writes the table to a single-sheet workbook.
func WriteExcel(t *table.Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(t.Columns))
	for j, col := range t.Columns {
		header[j] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := make([]interface{}, len(t.Columns))
	for i := range t.Rows {
		for j, col := range t.Columns {
			row[j] = cellExcel(t.Cell(i, col))
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteJSON writes the table's canonical JSON form, columns plus records.
func WriteJSON(t *table.Table, w io.Writer) error {
	raw, err := t.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize table: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// cellText renders a cell for CSV: nulls become empty fields, complex
// values compact JSON.
func cellText(v table.Value) string {
	if v.IsNull() {
		return ""
	}
	if v.IsComplex() {
		raw, _ := v.MarshalJSON()
		return string(raw)
	}
	return v.StringValue()
}

// cellExcel renders a cell for excelize, keeping native numbers and bools
// so spreadsheet cells stay typed.
func cellExcel(v table.Value) interface{} {
	switch v.Kind() {
	case table.KindNull:
		return nil
	case table.KindScalar:
		return v.ScalarValue()
	default:
		raw, _ := v.MarshalJSON()
		return string(raw)
	}
}
