package services

import (
	"testing"
)

func TestGeneratePricingPDF(t *testing.T) {
	result, err := GeneratePricingPDF(sampleExportData())
	if err != nil {
		t.Fatalf("GeneratePricingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePricingPDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePricingPDF_EmptyTables(t *testing.T) {
	data := PricingExportData{
		Title:         "Empty Proposal",
		GeneratedDate: "15 Aug 2026",
		MasterTable:   -1,
		Document:      &PricingDocument{Currency: CurrencyUSD},
	}

	result, err := GeneratePricingPDF(data)
	if err != nil {
		t.Fatalf("GeneratePricingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePricingPDF() returned empty bytes")
	}
}

func TestGeneratePricingPDF_CADAndAlternates(t *testing.T) {
	data := sampleExportData()
	data.Document.Currency = CurrencyCAD
	data.PriceOverrides = PriceOverrides{
		OverrideKey("main-display", 1): 2500,
	}

	result, err := GeneratePricingPDF(data)
	if err != nil {
		t.Fatalf("GeneratePricingPDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePricingPDF() returned empty bytes")
	}
}
