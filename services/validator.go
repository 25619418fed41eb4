package services

// ParseMode selects how structural validation failures surface. Strict mode
// returns no document at all on any failure; lenient mode downgrades the
// same findings to warnings and keeps the best-effort document for
// low-stakes preview contexts.
type ParseMode string

const (
	ModeStrict  ParseMode = "strict"
	ModeLenient ParseMode = "lenient"
)

// Distinct error strings, one per structural check. Callers match on these
// substrings, so they are part of the contract.
const (
	ErrMissingColumnHeaders = "missing required column headers"
	ErrNoTablesFound        = "no pricing tables found"
	ErrRespMatrixUnparsed   = "resp matrix sheet present but could not be parsed"
)

// ValidationInput gathers everything the structural checks look at: the raw
// located sheets plus the build results.
type ValidationInput struct {
	PricingSheet     *Sheet
	Tables           []PricingTable
	MatrixSheetFound bool
	Matrix           *RespMatrix
	Classifier       ClassifierConfig
}

// Validate runs the structural checks and reports PASS or FAIL. Each failed
// check contributes its own error string.
func Validate(in ValidationInput) ValidationReport {
	var errs []string

	if in.PricingSheet == nil || !hasColumnHeaders(in.PricingSheet, in.Classifier) {
		errs = append(errs, ErrMissingColumnHeaders)
	}

	if len(in.Tables) == 0 {
		errs = append(errs, ErrNoTablesFound)
	}

	// A sheet that matched the matrix role but produced nothing is a
	// data-quality error, not "feature absent".
	if in.MatrixSheetFound && in.Matrix == nil {
		errs = append(errs, ErrRespMatrixUnparsed)
	}

	status := StatusPass
	if len(errs) > 0 {
		status = StatusFail
	}
	return ValidationReport{Status: status, Errors: errs}
}

// hasColumnHeaders reports whether any row of the pricing sheet is a column
// header row carrying a description header and at least one price header.
func hasColumnHeaders(sheet *Sheet, cfg ClassifierConfig) bool {
	for _, row := range sheet.Rows {
		if isHeaderRow(row, cfg) {
			return true
		}
	}
	return false
}
