// Package handlers implements the ingestion boundary: workbook upload,
// stored-document access and export downloads. File I/O, persistence and
// HTTP concerns live here; the parser itself stays pure.
package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// apiError writes a JSON error payload with the given status.
func apiError(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// notFound is the common 404 response for document routes.
func notFound(e *core.RequestEvent) error {
	return apiError(e, http.StatusNotFound, "Document not found")
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
