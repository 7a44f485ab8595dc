// Package sheet extracts raw key-value records from workbook sheets whose header row
// position is not known in advance.
package sheet

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only view over a set of named sheets.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string

	// Rows returns every row of the named sheet as formatted cell strings.
	// Trailing empty cells may be omitted, so rows can have different lengths.
	Rows(name string) ([][]string, error)

	// Close releases any resources held by the workbook.
	Close() error
}

// ExcelWorkbook reads .xlsx files through excelize.
type ExcelWorkbook struct {
	file *excelize.File
	path string
}

var _ Workbook = &ExcelWorkbook{} // Compile-time check

// OpenWorkbook opens the spreadsheet at path.
func OpenWorkbook(path string) (*ExcelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", path, err)
	}
	return &ExcelWorkbook{file: f, path: path}, nil
}

// SheetNames implements the Workbook interface.
func (w *ExcelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Rows implements the Workbook interface.
func (w *ExcelWorkbook) Rows(name string) ([][]string, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", name, w.path, err)
	}
	return rows, nil
}

// Close implements the Workbook interface.
func (w *ExcelWorkbook) Close() error {
	return w.file.Close()
}

// MemoryWorkbook is a Workbook held entirely in memory.
type MemoryWorkbook struct {
	names  []string
	sheets map[string][][]string
}

var _ Workbook = &MemoryWorkbook{} // Compile-time check

// NewMemoryWorkbook returns an empty in-memory workbook.
func NewMemoryWorkbook() *MemoryWorkbook {
	return &MemoryWorkbook{sheets: make(map[string][][]string)}
}

// AddSheet adds or replaces a sheet and returns the workbook for chaining.
func (w *MemoryWorkbook) AddSheet(name string, rows [][]string) *MemoryWorkbook {
	if _, ok := w.sheets[name]; !ok {
		w.names = append(w.names, name)
	}
	w.sheets[name] = rows
	return w
}

// SheetNames implements the Workbook interface.
func (w *MemoryWorkbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

// Rows implements the Workbook interface.
func (w *MemoryWorkbook) Rows(name string) ([][]string, error) {
	rows, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return rows, nil
}

// Close implements the Workbook interface.
func (w *MemoryWorkbook) Close() error {
	return nil
}

// FindSheet resolves a sheet name, first exactly and then ignoring case and surrounding spaces.
func FindSheet(wb Workbook, name string) (string, bool) {
	names := wb.SheetNames()
	for _, n := range names {
		if n == name {
			return n, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, n := range names {
		if strings.ToLower(strings.TrimSpace(n)) == want {
			return n, true
		}
	}
	return "", false
}

// WriteWorkbook saves sheets to an .xlsx file at path, in the given order.
// It is used to produce fixtures and sample workbooks.
func WriteWorkbook(path string, order []string, sheets map[string][][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for _, name := range order {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			values := make([]any, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, name, err)
			}
		}
	}
	if len(order) > 0 && !slices.Contains(order, "Sheet1") {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %q: %w", path, err)
	}
	return nil
}
