package sheet

import (
	"fmt"
	"strings"
)

// DefaultOffsets are the header row positions probed when a SheetSpec does not set its own.
var DefaultOffsets = []int{0, 1, 2}

// emptyHeader is the column name given to blank header cells.
const emptyHeader = "__EMPTY"

// Record is one data row keyed by header name. Blank cells are not stored.
type Record map[string]string

// Column returns the key of the first column among names that is present.
// Names match exactly first, then ignoring case and repeated whitespace.
func (r Record) Column(names ...string) (string, bool) {
	for _, name := range names {
		if _, ok := r[name]; ok {
			return name, true
		}
	}
	for _, name := range names {
		want := foldHeader(name)
		for k := range r {
			if foldHeader(k) == want {
				return k, true
			}
		}
	}
	return "", false
}

// Lookup returns the value of the first column among names that is present.
func (r Record) Lookup(names ...string) (string, bool) {
	key, ok := r.Column(names...)
	if !ok {
		return "", false
	}
	return r[key], true
}

// Get returns the value of the first present column among names, or "".
func (r Record) Get(names ...string) string {
	v, _ := r.Lookup(names...)
	return v
}

// foldHeader lowercases and collapses whitespace, so "Bugs  por" equals "bugs por".
func foldHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// SheetSpec describes how to read one named sheet.
type SheetSpec struct {
	Name       string
	Markers    []string // any of these columns identifies the header row
	Offsets    []int    // header row candidates; DefaultOffsets when empty
	SkipTotals bool     // drop rows whose marker value is an aggregate label
}

// headerNames builds unique column names for a header row of the given width.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range width {
		base := ""
		if i < len(header) {
			base = strings.TrimSpace(header[i])
		}
		if base == "" {
			base = emptyHeader
		}
		name := base
		if n := seen[base]; n > 0 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[base]++
		names[i] = name
	}
	return names
}

// RecordsAt reads the rows below offset using rows[offset] as the header.
// Fully blank rows are skipped. An offset past the end yields no records.
func RecordsAt(rows [][]string, offset int) []Record {
	if offset < 0 || offset >= len(rows) {
		return nil
	}

	width := 0
	for _, row := range rows[offset:] {
		width = max(width, len(row))
	}
	names := headerNames(rows[offset], width)

	var records []Record
	for _, row := range rows[offset+1:] {
		rec := make(Record)
		for i, cell := range row {
			if v := strings.TrimSpace(cell); v != "" {
				rec[names[i]] = v
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records
}

// ProbeHeaderOffset returns the first offset whose first record carries a value for any
// marker column. It returns -1 and false when no candidate offset qualifies.
func ProbeHeaderOffset(rows [][]string, offsets []int, markers []string) (int, bool) {
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	for _, offset := range offsets {
		records := RecordsAt(rows, offset)
		if len(records) == 0 {
			continue
		}
		if _, ok := records[0].Lookup(markers...); ok {
			return offset, true
		}
	}
	return -1, false
}

// IsTotalLabel reports whether a marker value labels an aggregate row,
// such as "Total", "Total general" or "Subtotal módulo".
func IsTotalLabel(value string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(value)), "total")
}

// ParseSheet extracts the records of one sheet. The boolean is false when the sheet does
// not exist, which is not an error. A present sheet without a recognizable header yields
// an empty, non-nil slice.
func ParseSheet(wb Workbook, spec SheetSpec) ([]Record, bool, error) {
	name, ok := FindSheet(wb, spec.Name)
	if !ok {
		return nil, false, nil
	}

	rows, err := wb.Rows(name)
	if err != nil {
		return nil, true, err
	}

	offset, ok := ProbeHeaderOffset(rows, spec.Offsets, spec.Markers)
	if !ok {
		return []Record{}, true, nil
	}

	records := RecordsAt(rows, offset)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if spec.SkipTotals && IsTotalLabel(rec.Get(spec.Markers...)) {
			continue
		}
		out = append(out, rec)
	}
	return out, true, nil
}
