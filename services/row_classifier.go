package services

import (
	"regexp"
	"strings"
)

// RowKind is the closed set of classifications a pricing-sheet row can take.
type RowKind int

const (
	RowNoise RowKind = iota
	RowHeader
	RowSectionTitle
	RowLineItem
	RowAlternate
	RowSubtotalMarker
	RowTaxMarker
	RowBondMarker
	RowGrandTotalMarker
)

// String returns the row kind name, mostly for test failure output.
func (k RowKind) String() string {
	switch k {
	case RowHeader:
		return "Header"
	case RowSectionTitle:
		return "SectionTitle"
	case RowLineItem:
		return "LineItem"
	case RowAlternate:
		return "Alternate"
	case RowSubtotalMarker:
		return "SubtotalMarker"
	case RowTaxMarker:
		return "TaxMarker"
	case RowBondMarker:
		return "BondMarker"
	case RowGrandTotalMarker:
		return "GrandTotalMarker"
	default:
		return "Noise"
	}
}

// ClassifierState is the per-parse state the classifier needs: whether a
// table is currently accumulating rows, and whether an alternate block is
// active. Each parse owns its own copy.
type ClassifierState struct {
	TableOpen        bool
	InAlternateBlock bool
}

// ClassifierConfig carries the marker patterns and keyword tables as
// immutable data, so tests can substitute alternate sets.
type ClassifierConfig struct {
	SubtotalPattern   *regexp.Regexp
	TaxPattern        *regexp.Regexp
	BondPattern       *regexp.Regexp
	GrandTotalPattern *regexp.Regexp

	// AlternateBlockPattern matches section titles that open an
	// alternate-pricing block.
	AlternateBlockPattern *regexp.Regexp

	// IncludedPattern matches price-column text marking a zero-priced
	// in-scope row.
	IncludedPattern *regexp.Regexp

	// DescriptionHeaderTokens and PriceHeaderTokens identify the column
	// header row.
	DescriptionHeaderTokens []string
	PriceHeaderTokens       []string

	// RollupDenylist lists sheet-level rollup labels that are always Noise,
	// regardless of state. Matched as case-insensitive phrases.
	RollupDenylist []string
}

// DefaultClassifierConfig reflects the marker vocabulary of the captured
// client workbooks.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SubtotalPattern:       regexp.MustCompile(`(?i)^sub\s*-?\s*totals?$`),
		TaxPattern:            regexp.MustCompile(`(?i)^(tax(es)?|hst|gst|pst|sales\s*tax)\s*(\(|@|\d|%|$)`),
		BondPattern:           regexp.MustCompile(`(?i)^bonds?\b`),
		GrandTotalPattern:     regexp.MustCompile(`(?i)^grand\s*totals?$`),
		AlternateBlockPattern: regexp.MustCompile(`(?i)alternate.*deduct|deduct.*alternate|alternate\s*(pricing|option)`),
		IncludedPattern:       regexp.MustCompile(`(?i)^included?$|^included in scope$`),
		DescriptionHeaderTokens: []string{
			"description", "item", "scope",
		},
		PriceHeaderTokens: []string{
			"sell", "selling price", "sell price", "price", "cost", "total",
		},
		RollupDenylist: []string{
			"total project value",
			"lg rebate",
			"project total",
		},
	}
}

// ClassifyRow classifies a single row given the current parser state.
// Precedence, highest first:
//
//  1. denylisted rollup labels are always Noise
//  2. column header rows
//  3. footer markers (only while a table is open)
//  4. alternate items while an alternate block is active
//  5. section titles (a lone leading cell)
//  6. line items while a table is open
//  7. everything else is Noise; in particular any row after a grand total
//     and before the next section title, however price-shaped it looks
func ClassifyRow(row Row, state ClassifierState, cfg ClassifierConfig) RowKind {
	first, hasFirst := firstCellText(row)
	if !hasFirst {
		return RowNoise
	}

	if matchesDenylist(first, cfg.RollupDenylist) {
		return RowNoise
	}

	if isHeaderRow(row, cfg) {
		return RowHeader
	}

	if kind, ok := markerKind(first, cfg); ok {
		if state.TableOpen {
			return kind
		}
		return RowNoise
	}

	itemShaped := isItemShaped(row, cfg)
	if state.InAlternateBlock && itemShaped {
		return RowAlternate
	}

	if isTitleShaped(row) {
		return RowSectionTitle
	}

	if state.TableOpen && itemShaped {
		return RowLineItem
	}

	return RowNoise
}

// firstCellText returns the leading cell's text, normalized for matching.
func firstCellText(row Row) (string, bool) {
	if len(row) == 0 || row[0].Kind != CellString {
		return "", false
	}
	return strings.Join(strings.Fields(row[0].Text), " "), true
}

func matchesDenylist(first string, denylist []string) bool {
	lower := strings.ToLower(first)
	for _, phrase := range denylist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// markerKind maps a leading cell onto a footer marker.
func markerKind(first string, cfg ClassifierConfig) (RowKind, bool) {
	switch {
	case cfg.SubtotalPattern.MatchString(first):
		return RowSubtotalMarker, true
	case cfg.GrandTotalPattern.MatchString(first):
		return RowGrandTotalMarker, true
	case cfg.TaxPattern.MatchString(first):
		return RowTaxMarker, true
	case cfg.BondPattern.MatchString(first):
		return RowBondMarker, true
	default:
		return RowNoise, false
	}
}

// isHeaderRow reports whether a row is the column header of a pricing
// section: one cell carrying a description-ish header and a different cell
// carrying a price-ish header, with no numeric cells.
func isHeaderRow(row Row, cfg ClassifierConfig) bool {
	hasDesc := false
	hasPrice := false
	for _, c := range row {
		switch c.Kind {
		case CellNumber:
			return false
		case CellString:
			lower := strings.ToLower(c.Text)
			if !hasDesc && matchesHeaderToken(lower, cfg.DescriptionHeaderTokens) {
				hasDesc = true
				continue
			}
			if matchesHeaderToken(lower, cfg.PriceHeaderTokens) {
				hasPrice = true
			}
		}
	}
	return hasDesc && hasPrice
}

func matchesHeaderToken(lower string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// isTitleShaped reports a row holding only a leading text cell with no
// economically meaningful cells after it.
func isTitleShaped(row Row) bool {
	if len(row) == 0 || row[0].Kind != CellString {
		return false
	}
	for _, c := range row[1:] {
		if c.Kind != CellEmpty {
			return false
		}
	}
	return true
}

// isItemShaped reports a row with a description-shaped first cell and either
// a numeric cell or an INCLUDED marker elsewhere.
func isItemShaped(row Row, cfg ClassifierConfig) bool {
	if len(row) == 0 || row[0].Kind != CellString {
		return false
	}
	for _, c := range row[1:] {
		switch c.Kind {
		case CellNumber:
			return true
		case CellString:
			if cfg.IncludedPattern.MatchString(strings.TrimSpace(c.Text)) {
				return true
			}
		}
	}
	return false
}
