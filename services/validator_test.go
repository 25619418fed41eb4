package services

import (
	"strings"
	"testing"
)

func validPricingSheet() *Sheet {
	return &Sheet{
		Name: "Margin Analysis",
		Rows: []Row{
			textRow("Section"),
			textRow("Description", "Selling Price"),
			itemRow("Item", 100),
			itemRow("GRAND TOTAL", 100),
		},
	}
}

func TestValidate_Pass(t *testing.T) {
	cfg := DefaultClassifierConfig()
	sheet := validPricingSheet()
	tables, _ := BuildPricingTables(sheet, cfg)

	report := Validate(ValidationInput{
		PricingSheet: sheet,
		Tables:       tables,
		Classifier:   cfg,
	})
	if report.Status != StatusPass {
		t.Fatalf("status = %q, errors = %v", report.Status, report.Errors)
	}
	if len(report.Errors) != 0 {
		t.Errorf("passing report carried errors: %v", report.Errors)
	}
}

func TestValidate_MissingHeaders(t *testing.T) {
	cfg := DefaultClassifierConfig()
	sheet := &Sheet{
		Name: "Margin Analysis",
		Rows: []Row{
			textRow("Section"),
			itemRow("Item", 100),
			itemRow("GRAND TOTAL", 100),
		},
	}
	tables, _ := BuildPricingTables(sheet, cfg)

	report := Validate(ValidationInput{PricingSheet: sheet, Tables: tables, Classifier: cfg})
	if report.Status != StatusFail {
		t.Fatal("expected FAIL for a sheet with no column header row")
	}
	if !containsError(report.Errors, ErrMissingColumnHeaders) {
		t.Errorf("errors = %v, want %q", report.Errors, ErrMissingColumnHeaders)
	}
	if containsError(report.Errors, ErrNoTablesFound) {
		t.Errorf("tables were built, yet errors = %v", report.Errors)
	}
}

func TestValidate_NoTables(t *testing.T) {
	cfg := DefaultClassifierConfig()
	sheet := &Sheet{
		Name: "Margin Analysis",
		Rows: []Row{textRow("Description", "Selling Price")},
	}

	report := Validate(ValidationInput{PricingSheet: sheet, Tables: nil, Classifier: cfg})
	if report.Status != StatusFail {
		t.Fatal("expected FAIL for zero tables")
	}
	if !containsError(report.Errors, ErrNoTablesFound) {
		t.Errorf("errors = %v, want %q", report.Errors, ErrNoTablesFound)
	}
}

func TestValidate_MatrixSheetUnparsed(t *testing.T) {
	cfg := DefaultClassifierConfig()
	sheet := validPricingSheet()
	tables, _ := BuildPricingTables(sheet, cfg)

	report := Validate(ValidationInput{
		PricingSheet:     sheet,
		Tables:           tables,
		MatrixSheetFound: true,
		Matrix:           nil,
		Classifier:       cfg,
	})
	if report.Status != StatusFail {
		t.Fatal("expected FAIL when a located matrix sheet yields nothing")
	}
	if !containsError(report.Errors, ErrRespMatrixUnparsed) {
		t.Errorf("errors = %v, want %q", report.Errors, ErrRespMatrixUnparsed)
	}
}

func TestValidate_MatrixAbsentIsFine(t *testing.T) {
	cfg := DefaultClassifierConfig()
	sheet := validPricingSheet()
	tables, _ := BuildPricingTables(sheet, cfg)

	report := Validate(ValidationInput{
		PricingSheet:     sheet,
		Tables:           tables,
		MatrixSheetFound: false,
		Classifier:       cfg,
	})
	if report.Status != StatusPass {
		t.Errorf("missing matrix sheet should not fail validation: %v", report.Errors)
	}
}

func TestValidate_AllChecksAccumulate(t *testing.T) {
	cfg := DefaultClassifierConfig()

	report := Validate(ValidationInput{
		PricingSheet:     nil,
		Tables:           nil,
		MatrixSheetFound: true,
		Classifier:       cfg,
	})
	if len(report.Errors) != 3 {
		t.Fatalf("errors = %v, want all three checks to report", report.Errors)
	}
}

func containsError(errs []string, want string) bool {
	for _, e := range errs {
		if strings.Contains(e, want) {
			return true
		}
	}
	return false
}
