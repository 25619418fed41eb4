package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalcreation/services"
)

// importResponse is returned after a workbook upload has been parsed.
type importResponse struct {
	ID            string                     `json:"id"`
	Status        services.ValidationStatus  `json:"status"`
	Errors        []string                   `json:"errors,omitempty"`
	Warnings      []string                   `json:"warnings,omitempty"`
	TableCount    int                        `json:"table_count"`
	DocumentTotal float64                    `json:"document_total"`
	Currency      services.Currency          `json:"currency,omitempty"`
}

// HandleWorkbookImport receives a cost-estimate workbook upload, parses it
// and persists the result. The "mode" form field selects strict (default) or
// lenient parsing.
// Route: POST /documents/import
func HandleWorkbookImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return apiError(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		mode := services.ModeStrict
		switch strings.ToLower(e.Request.FormValue("mode")) {
		case "", "strict":
		case "lenient":
			mode = services.ModeLenient
		default:
			return apiError(e, http.StatusBadRequest, "mode must be strict or lenient")
		}

		wb, err := services.LoadWorkbook(file, header.Filename)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		opts := services.DefaultParseOptions()
		opts.Mode = mode
		result := services.ParseWorkbook(wb, opts)

		record, err := saveParseResult(app, header.Filename, mode, result)
		if err != nil {
			log.Printf("import: failed to save parse result: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to save parsed document")
		}

		resp := importResponse{
			ID:       record.Id,
			Status:   result.Report.Status,
			Errors:   result.Report.Errors,
			Warnings: result.Report.Warnings,
		}
		if doc := result.Document; doc != nil {
			resp.TableCount = len(doc.Tables)
			resp.DocumentTotal = doc.DocumentTotal
			resp.Currency = doc.Currency
		}

		status := http.StatusOK
		if result.Report.Status == services.StatusFail {
			status = http.StatusUnprocessableEntity
		}
		return e.JSON(status, resp)
	}
}

// saveParseResult persists a parse outcome, including FAILs, so rejected
// uploads remain inspectable.
func saveParseResult(
	app *pocketbase.PocketBase,
	fileName string,
	mode services.ParseMode,
	result services.ParseResult,
) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("pricing_documents")
	if err != nil {
		return nil, fmt.Errorf("collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("name", documentName(fileName))
	record.Set("source_file", fileName)
	record.Set("mode", string(mode))
	record.Set("status", string(result.Report.Status))

	reportJSON, err := json.Marshal(result.Report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	record.Set("report", string(reportJSON))

	if doc := result.Document; doc != nil {
		payload, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("marshal document: %w", err)
		}
		record.Set("payload", string(payload))
		record.Set("currency", string(doc.Currency))
		record.Set("document_total", doc.DocumentTotal)
		record.Set("table_count", len(doc.Tables))
	}

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}
	return record, nil
}

// documentName derives a display name from the uploaded file name.
func documentName(fileName string) string {
	name := fileName
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		name = "Untitled Document"
	}
	return name
}
