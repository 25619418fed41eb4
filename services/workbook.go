package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellKind discriminates the cell sum type. Every value entering the parser
// is coerced exactly once, at the ingestion boundary.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell is one workbook cell: empty, a string, or a number. Numbers keep the
// full float64 precision of the source text; no rounding happens here or
// anywhere else in the parser.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Row is an ordered list of cells, index 0 being the leftmost column.
type Row []Cell

// Sheet is a named rectangular grid of cells.
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is the parser's input shape: ordered sheets of cell grids. The
// original file encoding does not matter as long as it normalizes to this.
type Workbook struct {
	Sheets []Sheet
}

// SheetNames returns the sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet, or nil if absent.
func (wb *Workbook) Sheet(name string) *Sheet {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i]
		}
	}
	return nil
}

// NumberCell builds a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// StringCell builds a text cell. Blank text yields an empty cell.
func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{Kind: CellEmpty}
	}
	return Cell{Kind: CellString, Text: strings.TrimSpace(s)}
}

// CoerceCell converts one raw cell string into the Cell sum type. Currency
// formatting ($, commas, accountant-style parentheses for negatives) is
// stripped before the numeric parse; anything that still fails stays a
// string cell.
func CoerceCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}
	if v, ok := parseNumeric(trimmed); ok {
		return Cell{Kind: CellNumber, Number: v, Text: trimmed}
	}
	return Cell{Kind: CellString, Text: trimmed}
}

// parseNumeric attempts a numeric parse of a cell string after removing
// currency decoration.
func parseNumeric(s string) (float64, bool) {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "C$")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// NumericValue extracts a float from a cell. The second return is false for
// empty and non-numeric string cells; callers record that as a soft
// coercion warning rather than aborting.
func NumericValue(c Cell) (float64, bool) {
	if c.Kind == CellNumber {
		return c.Number, true
	}
	return 0, false
}

// cellDisplay renders a cell for free-text use (matrix columns). Numbers use
// the shortest round-trip representation.
func cellDisplay(c Cell) string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// LoadWorkbook normalizes an uploaded file into a Workbook based on its
// extension. Supported formats are .xlsx and .csv.
func LoadWorkbook(file io.Reader, fileName string) (*Workbook, error) {
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".xlsx"):
		return WorkbookFromExcel(file)
	case strings.HasSuffix(lowerName, ".csv"):
		base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
		return WorkbookFromCSV(file, base)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
}

// WorkbookFromExcel reads an xlsx stream into the grid shape, preserving
// sheet order.
func WorkbookFromExcel(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheet := Sheet{Name: name, Rows: make([]Row, 0, len(rows))}
		for _, raw := range rows {
			row := make(Row, len(raw))
			for i, cell := range raw {
				row[i] = CoerceCell(cell)
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// WorkbookFromCSV reads a delimited-text stream as a single-sheet workbook.
// Ragged rows are allowed; hand-built cost estimates rarely keep a uniform
// column count.
func WorkbookFromCSV(r io.Reader, sheetName string) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	sheet := Sheet{Name: sheetName, Rows: make([]Row, 0, len(allRows))}
	for _, raw := range allRows {
		row := make(Row, len(raw))
		for i, cell := range raw {
			row[i] = CoerceCell(cell)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return &Workbook{Sheets: []Sheet{sheet}}, nil
}
