package services

import "strings"

// includeStatementMarkers are the literal ANC-column values that mark a
// narrative inclusion statement. Both spellings appear in captured
// workbooks.
var includeStatementMarkers = map[string]bool{
	"INCLUDE STATEMENT":  true,
	"INCLUDED STATEMENT": true,
}

// BuildRespMatrix folds a matrix-shaped sheet into categorized scope-of-work
// items. A lead-label row with the remaining columns blank starts a
// category; each following row becomes an item with description, ANC and
// purchaser columns. Returns nil when the sheet yields zero usable
// categories, which callers treat as malformed input rather than an empty
// result.
func BuildRespMatrix(sheet *Sheet, format RespMatrixFormat) *RespMatrix {
	if sheet == nil {
		return nil
	}

	var categories []RespMatrixCategory
	var current *RespMatrixCategory

	flush := func() {
		if current != nil && len(current.Items) > 0 {
			categories = append(categories, *current)
		}
		current = nil
	}

	for _, row := range sheet.Rows {
		if isMatrixHeaderRow(row) {
			continue
		}
		if isTitleShaped(row) {
			flush()
			name, _ := firstCellText(row)
			current = &RespMatrixCategory{Name: name}
			continue
		}
		if current == nil {
			// Preamble rows before the first category carry no items.
			continue
		}
		desc, ok := firstCellText(row)
		if !ok {
			continue
		}
		item := RespMatrixItem{Description: desc}
		if len(row) > 1 {
			item.ANC = cellDisplay(row[1])
		}
		if len(row) > 2 {
			item.Purchaser = cellDisplay(row[2])
		}
		current.Items = append(current.Items, item)
	}
	flush()

	if len(categories) == 0 {
		return nil
	}

	for i := range categories {
		categories[i].Style = categoryStyle(categories[i], format)
	}

	return &RespMatrix{Format: format, Categories: categories}
}

// categoryStyle picks table vs paragraph rendering for one category. Under
// auto, items whose responsibility cell begins with an "X" vote for table
// style and include-statement items vote for paragraph style; ties go to
// table style.
func categoryStyle(cat RespMatrixCategory, format RespMatrixFormat) CategoryStyle {
	switch format {
	case MatrixFormatShort:
		return CategoryStyleParagraph
	case MatrixFormatLong:
		return CategoryStyleTable
	}

	tableVotes := 0
	paragraphVotes := 0
	for _, it := range cat.Items {
		if hasResponsibilityMark(it.ANC) || hasResponsibilityMark(it.Purchaser) {
			tableVotes++
		}
		if includeStatementMarkers[strings.ToUpper(strings.TrimSpace(it.ANC))] {
			paragraphVotes++
		}
	}
	if paragraphVotes > tableVotes {
		return CategoryStyleParagraph
	}
	return CategoryStyleTable
}

func hasResponsibilityMark(cell string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(cell)), "X")
}

// isMatrixHeaderRow recognizes the matrix column header
// (Description / ANC / Purchaser).
func isMatrixHeaderRow(row Row) bool {
	sawDesc := false
	sawParty := false
	for _, c := range row {
		if c.Kind != CellString {
			continue
		}
		lower := strings.ToLower(c.Text)
		switch {
		case strings.Contains(lower, "description") || strings.Contains(lower, "scope"):
			sawDesc = true
		case strings.Contains(lower, "anc") || strings.Contains(lower, "purchaser") || strings.Contains(lower, "owner"):
			sawParty = true
		}
	}
	return sawDesc && sawParty
}
