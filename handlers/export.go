package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalcreation/services"
)

// exportRequest carries the render-time inputs a caller supplies on top of
// the stored document: override maps and the master-table selection.
type exportRequest struct {
	PriceOverrides       map[string]float64 `json:"price_overrides"`
	DescriptionOverrides map[string]string  `json:"description_overrides"`
	MasterTable          *int               `json:"master_table"`
}

// buildExportData loads a stored document and combines it with the request's
// overrides. Documents that failed strict validation have no payload and
// cannot be exported.
func buildExportData(app *pocketbase.PocketBase, documentID string, req exportRequest) (services.PricingExportData, error) {
	record, err := app.FindRecordById("pricing_documents", documentID)
	if err != nil {
		return services.PricingExportData{}, fmt.Errorf("document not found: %w", err)
	}

	payload := record.GetString("payload")
	if payload == "" {
		return services.PricingExportData{}, fmt.Errorf("document %s failed validation and has no parsed payload", documentID)
	}

	var doc services.PricingDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return services.PricingExportData{}, fmt.Errorf("unmarshal payload: %w", err)
	}

	masterTable := -1
	if req.MasterTable != nil {
		masterTable = *req.MasterTable
	}

	return services.PricingExportData{
		Title:                record.GetString("name"),
		GeneratedDate:        time.Now().Format("02 Jan 2006"),
		Document:             &doc,
		PriceOverrides:       req.PriceOverrides,
		DescriptionOverrides: req.DescriptionOverrides,
		MasterTable:          masterTable,
	}, nil
}

// decodeExportRequest reads the optional JSON body; an empty body means no
// overrides.
func decodeExportRequest(e *core.RequestEvent) (exportRequest, error) {
	var req exportRequest
	if e.Request.Body == nil {
		return req, nil
	}
	if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil && err != io.EOF {
		return req, fmt.Errorf("invalid export request body: %w", err)
	}
	return req, nil
}

// HandleDocumentExportExcel generates and downloads the client-facing
// pricing workbook for a stored document.
// Route: POST /documents/{id}/export/excel
func HandleDocumentExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		req, err := decodeExportRequest(e)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		data, err := buildExportData(app, e.Request.PathValue("id"), req)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return apiError(e, http.StatusNotFound, "Document not found or not exportable")
		}

		xlsxBytes, err := services.GeneratePricingExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("Pricing_%s_%d.xlsx", sanitizeFilename(data.Title), time.Now().Year())
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleDocumentExportPDF generates and downloads the proposal pricing PDF
// for a stored document.
// Route: POST /documents/{id}/export/pdf
func HandleDocumentExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		req, err := decodeExportRequest(e)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		data, err := buildExportData(app, e.Request.PathValue("id"), req)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return apiError(e, http.StatusNotFound, "Document not found or not exportable")
		}

		pdfBytes, err := services.GeneratePricingPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Pricing_%s_%d.pdf", sanitizeFilename(data.Title), time.Now().Year())
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
