package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// PricingExportData bundles everything the export generators consume: the
// parsed document plus the caller-supplied override maps and master-table
// selection. The document itself is never modified.
type PricingExportData struct {
	Title         string
	GeneratedDate string
	Document      *PricingDocument

	PriceOverrides       PriceOverrides
	DescriptionOverrides DescriptionOverrides

	// MasterTable is the index of the table designated as the project
	// grand-total summary. A negative value means sum across all tables.
	MasterTable int
}

// projectGrandTotal resolves the document-level total to display: the master
// table's grand total when one is designated, otherwise the cross-table sum.
func projectGrandTotal(data PricingExportData) float64 {
	doc := data.Document
	if data.MasterTable >= 0 && data.MasterTable < len(doc.Tables) {
		t := ComputeTableTotals(doc.Tables[data.MasterTable], data.PriceOverrides, data.DescriptionOverrides)
		return t.GrandTotal
	}
	return ComputeDocumentTotal(doc, data.PriceOverrides, data.DescriptionOverrides)
}

// GeneratePricingExcel renders a parsed pricing document as a client-facing
// workbook and returns the file contents.
func GeneratePricingExcel(data PricingExportData) ([]byte, error) {
	doc := data.Document
	currency := doc.Currency

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Pricing Summary"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	if err := f.SetColWidth(sheetName, "A", "A", 55); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 18); err != nil {
		return nil, fmt.Errorf("set col width: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	footerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create footer style: %w", err)
	}

	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary style: %w", err)
	}

	// ── Title ───────────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", "B1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", "B1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Generated: "+data.GeneratedDate)

	// ── Per-table sections ──────────────────────────────────────────────

	row := 4
	for _, table := range doc.Tables {
		computed := ComputeTableTotals(table, data.PriceOverrides, data.DescriptionOverrides)

		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(table.Name))
		f.SetCellStyle(sheetName, "A"+rowStr, "B"+rowStr, sectionStyle)
		row++

		for _, line := range computed.Items {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(line.Description))
			f.SetCellValue(sheetName, "B"+rowStr, FormatLineAmount(line, currency))
			f.SetCellStyle(sheetName, "A"+rowStr, "B"+rowStr, itemStyle)
			row++
		}

		row = writeFooterRow(f, sheetName, row, footerStyle, "SUB TOTAL", FormatCurrency(computed.Subtotal, currency))
		if table.Tax != nil {
			row = writeFooterRow(f, sheetName, row, footerStyle, computed.TaxLabel, FormatCurrency(computed.Tax, currency))
		}
		if computed.Bond != 0 {
			row = writeFooterRow(f, sheetName, row, footerStyle, "BOND", FormatCurrency(computed.Bond, currency))
		}
		row = writeFooterRow(f, sheetName, row, footerStyle, "GRAND TOTAL", FormatCurrency(computed.GrandTotal, currency))

		for _, alt := range table.Alternates {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell("Alternate: "+alt.Description))
			f.SetCellValue(sheetName, "B"+rowStr, FormatCurrency(alt.PriceDifference, currency))
			f.SetCellStyle(sheetName, "A"+rowStr, "B"+rowStr, itemStyle)
			row++
		}

		row++ // blank row between sections
	}

	// ── Project total ───────────────────────────────────────────────────

	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "A"+rowStr, "PROJECT GRAND TOTAL")
	f.SetCellValue(sheetName, "B"+rowStr, FormatCurrency(projectGrandTotal(data), currency))
	f.SetCellStyle(sheetName, "A"+rowStr, "B"+rowStr, summaryStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFooterRow(f *excelize.File, sheet string, row, style int, label, value string) int {
	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(label))
	f.SetCellValue(sheet, "B"+rowStr, value)
	f.SetCellStyle(sheet, "A"+rowStr, "B"+rowStr, style)
	return row + 1
}

// GenerateReportExcel creates a downloadable .xlsx from a validation report,
// one row per error or warning.
func GenerateReportExcel(report ValidationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Validation"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Severity")
	f.SetCellValue(sheet, "B1", "Message")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 70)

	row := 2
	for _, msg := range report.Errors {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "error")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sanitizeExcelCell(msg))
		row++
	}
	for _, msg := range report.Warnings {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "warning")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sanitizeExcelCell(msg))
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write validation report: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
