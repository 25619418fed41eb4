package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalcreation/services"
)

// documentSummary is the listing shape for stored documents.
type documentSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SourceFile    string  `json:"source_file"`
	Mode          string  `json:"mode"`
	Status        string  `json:"status"`
	Currency      string  `json:"currency,omitempty"`
	DocumentTotal float64 `json:"document_total"`
	TableCount    int     `json:"table_count"`
	Created       string  `json:"created"`
}

// HandleDocumentList lists stored parse results, newest first.
// Route: GET /documents
func HandleDocumentList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		col, err := app.FindCollectionByNameOrId("pricing_documents")
		if err != nil {
			log.Printf("documents: collection not found: %v", err)
			return apiError(e, http.StatusInternalServerError, "Storage not ready")
		}

		records, err := app.FindRecordsByFilter(col, "", "-created", 0, 0, nil)
		if err != nil {
			records = nil
		}

		summaries := make([]documentSummary, 0, len(records))
		for _, r := range records {
			summaries = append(summaries, summarize(r))
		}
		return e.JSON(http.StatusOK, summaries)
	}
}

// HandleDocumentView returns one stored document with its full parsed
// payload and validation report.
// Route: GET /documents/{id}
func HandleDocumentView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("pricing_documents", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e)
		}

		resp := map[string]any{
			"summary": summarize(record),
		}

		if payload := record.GetString("payload"); payload != "" {
			var doc services.PricingDocument
			if err := json.Unmarshal([]byte(payload), &doc); err != nil {
				log.Printf("documents: corrupt payload on %s: %v", record.Id, err)
				return apiError(e, http.StatusInternalServerError, "Stored document is corrupt")
			}
			resp["document"] = doc
		}

		if reportJSON := record.GetString("report"); reportJSON != "" {
			var report services.ValidationReport
			if err := json.Unmarshal([]byte(reportJSON), &report); err == nil {
				resp["report"] = report
			}
		}

		return e.JSON(http.StatusOK, resp)
	}
}

// HandleDocumentDelete removes a stored document.
// Route: DELETE /documents/{id}
func HandleDocumentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("pricing_documents", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e)
		}
		if err := app.Delete(record); err != nil {
			log.Printf("documents: delete %s failed: %v", record.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete document")
		}
		return e.JSON(http.StatusOK, map[string]string{"deleted": record.Id})
	}
}

// HandleReportDownload serves the validation report as an .xlsx download.
// Route: GET /documents/{id}/report
func HandleReportDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("pricing_documents", e.Request.PathValue("id"))
		if err != nil {
			return notFound(e)
		}

		var report services.ValidationReport
		if reportJSON := record.GetString("report"); reportJSON != "" {
			if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
				return apiError(e, http.StatusInternalServerError, "Stored report is corrupt")
			}
		}

		xlsxBytes, err := services.GenerateReportExcel(report)
		if err != nil {
			log.Printf("documents: report export failed: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate report file")
		}

		filename := fmt.Sprintf("Validation_%s.xlsx", sanitizeFilename(record.GetString("name")))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

func summarize(r *core.Record) documentSummary {
	created := ""
	if dt := r.GetDateTime("created"); !dt.IsZero() {
		created = dt.Time().Format("02 Jan 2006 15:04")
	}
	return documentSummary{
		ID:            r.Id,
		Name:          r.GetString("name"),
		SourceFile:    r.GetString("source_file"),
		Mode:          r.GetString("mode"),
		Status:        r.GetString("status"),
		Currency:      r.GetString("currency"),
		DocumentTotal: r.GetFloat("document_total"),
		TableCount:    int(r.GetFloat("table_count")),
		Created:       created,
	}
}
