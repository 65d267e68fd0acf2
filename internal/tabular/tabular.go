// Package tabular reads spreadsheet uploads into a header-indexed sheet and
// offers the cell parsers the import pipeline shares.
package tabular

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a header row plus data rows, with accent and case insensitive
// column lookup.
type Sheet struct {
	header  []string
	rows    [][]string
	columns map[string]int
}

func NewSheet(header []string, rows [][]string) *Sheet {
	s := &Sheet{header: header, rows: rows, columns: make(map[string]int)}
	for i, name := range header {
		key := NormalizeHeader(name)
		if _, seen := s.columns[key]; !seen && key != "" {
			s.columns[key] = i
		}
	}
	return s
}

// ReadWorkbook loads the first sheet of an xlsx workbook. The first row is
// the header.
func ReadWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return NewSheet(nil, nil), nil
	}
	return NewSheet(rows[0], rows[1:]), nil
}

// ReadWorkbookBytes is ReadWorkbook over an in-memory upload.
func ReadWorkbookBytes(data []byte) (*Sheet, error) {
	return ReadWorkbook(bytes.NewReader(data))
}

// Col resolves the first header matching any of the given names, -1 when
// none is present.
func (s *Sheet) Col(names ...string) int {
	for _, name := range names {
		if i, ok := s.columns[NormalizeHeader(name)]; ok {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at (row, col); out-of-range reads yield "".
func (s *Sheet) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(s.rows) {
		return ""
	}
	cells := s.rows[row]
	if col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func (s *Sheet) Len() int { return len(s.rows) }

var accentFold = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "õ", "o", "ô", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// NormalizeHeader lowercases, strips accents and collapses surrounding
// whitespace so "Código " matches "codigo".
func NormalizeHeader(name string) string {
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// ParseBool reads the truthy spellings spreadsheets arrive with.
func ParseBool(s string) bool {
	switch NormalizeHeader(s) {
	case "1", "sim", "s", "x", "true", "verdadeiro", "yes", "y":
		return true
	}
	return false
}

// ParseMoney reads a monetary cell: currency prefix dropped, comma decimal
// accepted, thousand separators stripped.
func ParseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return 0, false
	}
	return v, true
}
