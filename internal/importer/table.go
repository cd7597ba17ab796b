package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows, read from CSV or the first sheet of
// an XLSX workbook.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Format is a tabular file format, picked from the file extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported table format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadTable loads path according to its extension.
func ReadTable(path string) (*Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return readXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return newTable(records)
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return newTable(rows)
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("table is empty: header row required")
	}
	t := &Table{index: make(map[string]int)}
	for i, h := range records[0] {
		name := normalizeHeader(h)
		t.Header = append(t.Header, name)
		if _, dup := t.index[name]; !dup && name != "" {
			t.index[name] = i
		}
	}
	for _, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// normalizeHeader lowercases and trims a header cell, dropping a UTF-8 BOM.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Has reports whether the table has a column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Require returns an error naming every missing column.
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Value returns the trimmed cell for column in row, or "" when the column or
// cell is absent.
func (t *Table) Value(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// WriteTable writes header and rows to path as CSV or XLSX.
func WriteTable(path string, header []string, rows [][]string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		return writeXLSX(path, header, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, header, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return nil
}

func writeXLSX(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	write := func(r int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, r)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := write(1, header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := write(i+2, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}
