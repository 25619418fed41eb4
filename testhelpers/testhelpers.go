// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalcreation/collections"
	"proposalcreation/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestDocument stores a parsed document record and returns it.
func CreateTestDocument(
	t *testing.T,
	app *pocketbase.PocketBase,
	name string,
	doc *services.PricingDocument,
	report services.ValidationReport,
) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("pricing_documents")
	if err != nil {
		t.Fatalf("failed to find pricing_documents collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("source_file", name+".xlsx")
	record.Set("mode", string(services.ModeStrict))
	record.Set("status", string(report.Status))

	reportJSON, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("failed to marshal report: %v", err)
	}
	record.Set("report", string(reportJSON))

	if doc != nil {
		payload, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("failed to marshal document: %v", err)
		}
		record.Set("payload", string(payload))
		record.Set("currency", string(doc.Currency))
		record.Set("document_total", doc.DocumentTotal)
		record.Set("table_count", len(doc.Tables))
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}

	return record
}

// SampleDocument builds a small two-table document for handler tests.
func SampleDocument() *services.PricingDocument {
	cost := 6400.0
	return &services.PricingDocument{
		Currency: services.CurrencyUSD,
		Tables: []services.PricingTable{
			{
				ID:   "main-display",
				Name: "Main Display",
				Items: []services.LineItem{
					{Description: "LED Hardware", Cost: &cost, SellingPrice: 8000},
					{Description: "Installation", SellingPrice: 2000},
					{Description: "Spare Parts", IsIncluded: true},
				},
				Alternates: []services.Alternate{
					{Description: "Upgrade to fine pitch", PriceDifference: 1500},
				},
				Subtotal:   10000,
				Bond:       250,
				GrandTotal: 10250,
			},
			{
				ID:   "control-room",
				Name: "Control Room",
				Items: []services.LineItem{
					{Description: "Video Processor", SellingPrice: 4000},
				},
				Subtotal:   4000,
				GrandTotal: 4000,
			},
		},
		DocumentTotal: 14250,
	}
}
