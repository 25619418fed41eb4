package services

import (
	"math"
	"reflect"
	"testing"
)

func sampleWorkbook() *Workbook {
	return &Workbook{
		Sheets: []Sheet{
			{Name: "Cover", Rows: []Row{textRow("Proposal")}},
			*validPricingSheet(),
			*matrixSheet(),
		},
	}
}

func TestParseWorkbook_Strict(t *testing.T) {
	result := ParseWorkbook(sampleWorkbook(), DefaultParseOptions())

	if result.Report.Status != StatusPass {
		t.Fatalf("status = %q, errors = %v", result.Report.Status, result.Report.Errors)
	}
	doc := result.Document
	if doc == nil {
		t.Fatal("passing strict parse returned no document")
	}
	if len(doc.Tables) != 1 {
		t.Errorf("tables = %d, want 1", len(doc.Tables))
	}
	if math.Abs(doc.DocumentTotal-100) > 0.001 {
		t.Errorf("document total = %v, want 100", doc.DocumentTotal)
	}
	if doc.Currency != CurrencyUSD {
		t.Errorf("currency = %q, want USD", doc.Currency)
	}
	if doc.RespMatrix == nil || len(doc.RespMatrix.Categories) != 3 {
		t.Errorf("matrix = %+v", doc.RespMatrix)
	}
}

func TestParseWorkbook_StrictFailsClosed(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "Margin Analysis", Rows: []Row{
				textRow("Section"),
				itemRow("Item", 100),
				itemRow("GRAND TOTAL", 100),
			}},
		},
	}

	result := ParseWorkbook(wb, DefaultParseOptions())
	if result.Report.Status != StatusFail {
		t.Fatal("expected FAIL without column headers")
	}
	if result.Document != nil {
		t.Error("strict failure leaked a partial document")
	}
	if !containsError(result.Report.Errors, "column headers") {
		t.Errorf("errors = %v", result.Report.Errors)
	}
}

func TestParseWorkbook_LenientDowngrades(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "Margin Analysis", Rows: []Row{itemRow("stray value", 12)}},
		},
	}
	opts := DefaultParseOptions()
	opts.Mode = ModeLenient

	result := ParseWorkbook(wb, opts)
	if result.Report.Status != StatusPass {
		t.Fatalf("lenient status = %q", result.Report.Status)
	}
	if len(result.Report.Errors) != 0 {
		t.Errorf("lenient report kept errors: %v", result.Report.Errors)
	}
	if !containsError(result.Report.Warnings, "column headers") {
		t.Errorf("warnings = %v, structural findings lost", result.Report.Warnings)
	}
	doc := result.Document
	if doc == nil {
		t.Fatal("lenient parse returned no document")
	}
	if len(doc.Tables) != 1 {
		t.Fatalf("lenient placeholder missing, tables = %d", len(doc.Tables))
	}
	if doc.Tables[0].Name != "Margin Analysis" {
		t.Errorf("placeholder name = %q", doc.Tables[0].Name)
	}
}

func TestParseWorkbook_NoPricingSheet(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{{Name: "Notes", Rows: []Row{textRow("hello")}}},
	}

	result := ParseWorkbook(wb, DefaultParseOptions())
	if result.Report.Status != StatusFail || result.Document != nil {
		t.Errorf("status = %q, document = %v", result.Report.Status, result.Document)
	}
}

func TestParseWorkbook_MatrixOptional(t *testing.T) {
	wb := &Workbook{Sheets: []Sheet{*validPricingSheet()}}

	result := ParseWorkbook(wb, DefaultParseOptions())
	if result.Report.Status != StatusPass {
		t.Fatalf("status = %q, errors = %v", result.Report.Status, result.Report.Errors)
	}
	if result.Document.RespMatrix != nil {
		t.Errorf("matrix = %+v, want nil when no matrix sheet exists", result.Document.RespMatrix)
	}
}

func TestParseWorkbook_MatrixSheetUnparsedFails(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			*validPricingSheet(),
			{Name: "Responsibility Matrix", Rows: []Row{
				textRow("Description", "ANC", "Purchaser"),
			}},
		},
	}

	result := ParseWorkbook(wb, DefaultParseOptions())
	if result.Report.Status != StatusFail {
		t.Fatal("expected FAIL when the matrix sheet parses to nothing")
	}
	if !containsError(result.Report.Errors, "resp matrix") {
		t.Errorf("errors = %v", result.Report.Errors)
	}
}

func TestParseWorkbook_CADDetection(t *testing.T) {
	sheet := *validPricingSheet()
	sheet.Name = "Margin Analysis CAD"
	wb := &Workbook{Sheets: []Sheet{sheet}}

	result := ParseWorkbook(wb, DefaultParseOptions())
	if result.Document == nil {
		t.Fatalf("parse failed: %v", result.Report.Errors)
	}
	if result.Document.Currency != CurrencyCAD {
		t.Errorf("currency = %q, want CAD", result.Document.Currency)
	}
}

func TestParseWorkbook_Deterministic(t *testing.T) {
	first := ParseWorkbook(sampleWorkbook(), DefaultParseOptions())
	second := ParseWorkbook(sampleWorkbook(), DefaultParseOptions())

	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same workbook twice produced different results")
	}
}
