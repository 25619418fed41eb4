package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalcreation/collections"
	"proposalcreation/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Workbook ingestion ───────────────────────────────────
		se.Router.POST("/documents/import", handlers.HandleWorkbookImport(app))

		// ── Stored documents ─────────────────────────────────────
		se.Router.GET("/documents", handlers.HandleDocumentList(app))
		se.Router.GET("/documents/{id}/report", handlers.HandleReportDownload(app))
		se.Router.GET("/documents/{id}", handlers.HandleDocumentView(app))
		se.Router.DELETE("/documents/{id}", handlers.HandleDocumentDelete(app))

		// ── Exports (POST so override maps ride in the body) ─────
		se.Router.POST("/documents/{id}/export/excel", handlers.HandleDocumentExportExcel(app))
		se.Router.POST("/documents/{id}/export/pdf", handlers.HandleDocumentExportPDF(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
