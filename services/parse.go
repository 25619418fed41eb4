package services

// ParseOptions configures one parse invocation. The zero value is not
// usable; start from DefaultParseOptions.
type ParseOptions struct {
	Mode         ParseMode
	MatrixFormat RespMatrixFormat
	Locator      LocatorConfig
	Classifier   ClassifierConfig
}

// DefaultParseOptions is strict parsing with auto matrix formatting and the
// stock keyword tables.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		Mode:         ModeStrict,
		MatrixFormat: MatrixFormatAuto,
		Locator:      DefaultLocatorConfig(),
		Classifier:   DefaultClassifierConfig(),
	}
}

// ParseResult pairs the document with its validation report. Document is nil
// when a strict parse failed validation.
type ParseResult struct {
	Document *PricingDocument
	Report   ValidationReport
}

// ParseWorkbook runs the full pipeline: locate sheets, classify rows, build
// tables and the responsibility matrix, then validate. It is a pure function
// over the workbook; parsing the same content twice yields structurally
// identical output.
func ParseWorkbook(wb *Workbook, opts ParseOptions) ParseResult {
	names := wb.SheetNames()

	pricingName := LocateSheet(names, RolePricing, opts.Locator)
	var pricingSheet *Sheet
	if pricingName != "" {
		pricingSheet = wb.Sheet(pricingName)
	}

	matrixName := LocateSheet(names, RoleRespMatrix, opts.Locator)
	var matrixSheet *Sheet
	if matrixName != "" {
		matrixSheet = wb.Sheet(matrixName)
	}

	tables, warnings := BuildPricingTables(pricingSheet, opts.Classifier)

	var matrix *RespMatrix
	if matrixSheet != nil {
		matrix = BuildRespMatrix(matrixSheet, opts.MatrixFormat)
	}

	report := Validate(ValidationInput{
		PricingSheet:     pricingSheet,
		Tables:           tables,
		MatrixSheetFound: matrixSheet != nil,
		Matrix:           matrix,
		Classifier:       opts.Classifier,
	})
	report.Warnings = append(warnings, report.Warnings...)

	doc := &PricingDocument{
		Tables:        tables,
		DocumentTotal: sumGrandTotals(tables),
		Currency:      detectCurrency(pricingName),
		RespMatrix:    matrix,
	}

	if report.Status == StatusFail {
		switch opts.Mode {
		case ModeLenient:
			// Same checks, warnings only, plus a placeholder table so
			// preview consumers always have something to show.
			report.Warnings = append(report.Warnings, report.Errors...)
			report.Errors = nil
			report.Status = StatusPass
			if len(doc.Tables) == 0 {
				doc.Tables = []PricingTable{placeholderTable(pricingName)}
			}
		default:
			// Fail closed: a partial document must never cross the
			// ingestion boundary.
			doc = nil
		}
	}

	return ParseResult{Document: doc, Report: report}
}

// sumGrandTotals aggregates the parsed grand totals verbatim. Rounding is a
// render-time concern.
func sumGrandTotals(tables []PricingTable) float64 {
	var sum float64
	for _, t := range tables {
		sum += t.GrandTotal
	}
	return sum
}

// detectCurrency reads the currency off the pricing sheet name, e.g.
// "Margin Analysis (CAD)".
func detectCurrency(pricingSheetName string) Currency {
	if sheetTokens(pricingSheetName)["cad"] {
		return CurrencyCAD
	}
	return CurrencyUSD
}

func placeholderTable(pricingSheetName string) PricingTable {
	name := pricingSheetName
	if name == "" {
		name = "Pricing"
	}
	return PricingTable{ID: tableID(name, map[string]int{}), Name: name}
}
