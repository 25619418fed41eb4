// Package services holds the workbook-to-pricing-document pipeline and the
// render-time pricing math, plus the export generators that consume the
// parsed document.
package services

import (
	"fmt"
	"strings"
)

// Currency is the pricing currency of a parsed document.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCAD Currency = "CAD"
)

// LineItem is one priced row of a pricing table. IsIncluded marks a
// zero-priced "included in scope" row that renders as the literal word
// INCLUDED instead of a currency value.
type LineItem struct {
	Description  string   `json:"description"`
	Cost         *float64 `json:"cost,omitempty"`
	SellingPrice float64  `json:"selling_price"`
	IsIncluded   bool     `json:"is_included,omitempty"`
}

// Alternate is a signed price delta (an upgrade or a deduct) offered outside
// its parent table's totals.
type Alternate struct {
	Description     string  `json:"description"`
	PriceDifference float64 `json:"price_difference"`
}

// TaxLine holds a tax footer row verbatim: its label as written in the
// workbook (e.g. "HST (13%)"), the rate parsed from that label, and the
// declared amount.
type TaxLine struct {
	Label  string  `json:"label"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// PricingTable is one priced section of the source workbook. Subtotal
// reflects only Items, never Alternates.
type PricingTable struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Items      []LineItem  `json:"items"`
	Alternates []Alternate `json:"alternates,omitempty"`
	Subtotal   float64     `json:"subtotal"`
	Tax        *TaxLine    `json:"tax,omitempty"`
	Bond       float64     `json:"bond"`
	GrandTotal float64     `json:"grand_total"`
}

// RespMatrixFormat selects how responsibility-matrix categories render.
type RespMatrixFormat string

const (
	// MatrixFormatShort forces paragraph style for every category.
	MatrixFormatShort RespMatrixFormat = "short"
	// MatrixFormatLong forces table style for every category.
	MatrixFormatLong RespMatrixFormat = "long"
	// MatrixFormatAuto classifies each category by its item content.
	MatrixFormatAuto RespMatrixFormat = "auto"
)

// CategoryStyle is the per-category render style chosen under MatrixFormatAuto.
type CategoryStyle string

const (
	CategoryStyleTable     CategoryStyle = "table"
	CategoryStyleParagraph CategoryStyle = "paragraph"
)

// RespMatrixItem assigns one scope-of-work item. ANC and Purchaser hold
// either an "X" responsibility mark, the include-statement marker, or free
// text.
type RespMatrixItem struct {
	Description string `json:"description"`
	ANC         string `json:"anc"`
	Purchaser   string `json:"purchaser"`
}

// RespMatrixCategory groups scope-of-work items under one lead label.
type RespMatrixCategory struct {
	Name  string           `json:"name"`
	Style CategoryStyle    `json:"style"`
	Items []RespMatrixItem `json:"items"`
}

// RespMatrix is the parsed responsibility-matrix sheet.
type RespMatrix struct {
	Format     RespMatrixFormat     `json:"format"`
	Categories []RespMatrixCategory `json:"categories"`
}

// PricingDocument is the root artifact of a parse. It is immutable once
// produced; overrides are combined with it at render time, never written
// back. DocumentTotal is the sum of the table grand totals exactly as they
// appeared in the source.
type PricingDocument struct {
	Tables        []PricingTable `json:"tables"`
	DocumentTotal float64        `json:"document_total"`
	Currency      Currency       `json:"currency"`
	RespMatrix    *RespMatrix    `json:"resp_matrix,omitempty"`
}

// ValidationStatus is the overall outcome of the structural checks.
type ValidationStatus string

const (
	StatusPass ValidationStatus = "PASS"
	StatusFail ValidationStatus = "FAIL"
)

// ValidationReport is produced alongside (not inside) the document. Strict
// callers treat a FAIL as "discard the document". Warnings carry soft issues
// such as numeric coercion failures that never abort a parse.
type ValidationReport struct {
	Status   ValidationStatus `json:"status"`
	Errors   []string         `json:"errors,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// tableID derives a stable identifier from a section name. Collisions within
// one document get a numeric suffix so override keys stay unambiguous.
func tableID(name string, seen map[string]int) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	id := strings.Trim(b.String(), "-")
	if id == "" {
		id = "table"
	}
	seen[id]++
	if n := seen[id]; n > 1 {
		id = fmt.Sprintf("%s-%d", id, n)
	}
	return id
}
