package services

import (
	"fmt"
	"regexp"
	"strconv"
)

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// tableBuilder folds a classified row stream into pricing tables. All state
// lives on the builder, so concurrent parses never share anything.
type tableBuilder struct {
	cfg ClassifierConfig

	tables []PricingTable
	seen   map[string]int

	open             *PricingTable
	declaredSubtotal *float64

	inAlternate bool
	// altOnOpen records whether the active alternate block targets the
	// currently open table (true) or the most recently closed one.
	altOnOpen bool

	warnings []string
}

// BuildPricingTables folds the rows of a located pricing sheet into tables.
// A table begins at a section title and accumulates items and alternates
// until its grand-total marker; tables missing a grand total are closed
// defensively at the next section title or end of sheet with the running
// subtotal, never silently dropped.
func BuildPricingTables(sheet *Sheet, cfg ClassifierConfig) ([]PricingTable, []string) {
	if sheet == nil {
		return nil, nil
	}

	b := &tableBuilder{cfg: cfg, seen: make(map[string]int)}
	for _, row := range sheet.Rows {
		state := ClassifierState{
			TableOpen:        b.open != nil,
			InAlternateBlock: b.inAlternate,
		}
		switch ClassifyRow(row, state, cfg) {
		case RowSectionTitle:
			b.onSectionTitle(row)
		case RowLineItem:
			b.onLineItem(row)
		case RowAlternate:
			b.onAlternate(row)
		case RowSubtotalMarker:
			b.onSubtotal(row)
		case RowTaxMarker:
			b.onTax(row)
		case RowBondMarker:
			b.onBond(row)
		case RowGrandTotalMarker:
			b.onGrandTotal(row)
		case RowHeader, RowNoise:
			// Headers carry no data; noise rows must never attach to the
			// preceding table.
		}
	}
	b.closeOpen()
	return b.tables, b.warnings
}

func (b *tableBuilder) onSectionTitle(row Row) {
	title, _ := firstCellText(row)

	if b.cfg.AlternateBlockPattern.MatchString(title) {
		// The block belongs to the table open right now, or failing that to
		// the table that just closed; it never attaches to whatever follows.
		if b.open != nil || len(b.tables) > 0 {
			b.inAlternate = true
			b.altOnOpen = b.open != nil
		} else {
			b.warnf("alternate block %q has no preceding table, ignoring", title)
		}
		return
	}

	b.inAlternate = false
	b.closeOpen()
	b.open = &PricingTable{Name: title}
	b.declaredSubtotal = nil
}

func (b *tableBuilder) onLineItem(row Row) {
	item, ok := b.extractLineItem(row)
	if !ok {
		return
	}
	b.open.Items = append(b.open.Items, item)
}

func (b *tableBuilder) onAlternate(row Row) {
	desc, _ := firstCellText(row)
	price, ok := lastNumeric(row)
	if !ok {
		b.warnf("alternate row %q has no numeric price, skipping", desc)
		return
	}
	alt := Alternate{Description: desc, PriceDifference: price}
	if b.altOnOpen && b.open != nil {
		b.open.Alternates = append(b.open.Alternates, alt)
	} else if len(b.tables) > 0 {
		last := &b.tables[len(b.tables)-1]
		last.Alternates = append(last.Alternates, alt)
	}
}

func (b *tableBuilder) onSubtotal(row Row) {
	b.inAlternate = false
	if v, ok := lastNumeric(row); ok {
		b.declaredSubtotal = &v
	} else {
		b.warnf("subtotal row in %q has no numeric value", b.open.Name)
	}
}

func (b *tableBuilder) onTax(row Row) {
	b.inAlternate = false
	label, _ := firstCellText(row)
	amount, ok := lastNumeric(row)
	if !ok {
		b.warnf("tax row %q in %q has no numeric value", label, b.open.Name)
	}
	b.open.Tax = &TaxLine{
		Label:  label,
		Rate:   taxRateFromLabel(label),
		Amount: amount,
	}
}

func (b *tableBuilder) onBond(row Row) {
	b.inAlternate = false
	if v, ok := lastNumeric(row); ok {
		b.open.Bond = v
	} else {
		b.warnf("bond row in %q has no numeric value", b.open.Name)
	}
}

func (b *tableBuilder) onGrandTotal(row Row) {
	b.inAlternate = false
	table := b.open
	if v, ok := lastNumeric(row); ok {
		table.GrandTotal = v
	} else {
		b.warnf("grand total row in %q has no numeric value, using running subtotal", table.Name)
		table.GrandTotal = b.effectiveSubtotal()
	}
	table.Subtotal = b.effectiveSubtotal()
	b.finish(table)
}

// closeOpen defensively closes a table that never saw its grand-total
// marker, using the running subtotal as its grand total.
func (b *tableBuilder) closeOpen() {
	if b.open == nil {
		return
	}
	table := b.open
	table.Subtotal = b.effectiveSubtotal()
	table.GrandTotal = table.Subtotal
	b.finish(table)
}

func (b *tableBuilder) finish(table *PricingTable) {
	table.ID = tableID(table.Name, b.seen)
	b.tables = append(b.tables, *table)
	b.open = nil
	b.declaredSubtotal = nil
}

// effectiveSubtotal is the declared subtotal when the sheet carried one,
// otherwise the raw sum of item selling prices. Source precision is kept
// verbatim; rounding belongs to the render-time math layer.
func (b *tableBuilder) effectiveSubtotal() float64 {
	if b.declaredSubtotal != nil {
		return *b.declaredSubtotal
	}
	var sum float64
	for _, it := range b.open.Items {
		sum += it.SellingPrice
	}
	return sum
}

// extractLineItem pulls description, optional cost and selling price out of
// an item-shaped row. With two or more numeric cells the first is the cost
// and the last the selling price, matching the cost/sell column order of the
// margin-analysis layout.
func (b *tableBuilder) extractLineItem(row Row) (LineItem, bool) {
	desc, _ := firstCellText(row)

	var numerics []float64
	included := false
	for _, c := range row[1:] {
		switch c.Kind {
		case CellNumber:
			numerics = append(numerics, c.Number)
		case CellString:
			if b.cfg.IncludedPattern.MatchString(c.Text) {
				included = true
			}
		}
	}

	if len(numerics) == 0 {
		if included {
			return LineItem{Description: desc, IsIncluded: true}, true
		}
		b.warnf("line item %q has no numeric price, skipping", desc)
		return LineItem{}, false
	}

	item := LineItem{Description: desc, SellingPrice: numerics[len(numerics)-1]}
	if len(numerics) >= 2 {
		cost := numerics[0]
		item.Cost = &cost
	}
	return item, true
}

func (b *tableBuilder) warnf(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

// lastNumeric returns the rightmost numeric cell of a row.
func lastNumeric(row Row) (float64, bool) {
	for i := len(row) - 1; i >= 1; i-- {
		if row[i].Kind == CellNumber {
			return row[i].Number, true
		}
	}
	return 0, false
}

// taxRateFromLabel parses a percentage out of a tax label such as
// "HST (13%)", returned as a fraction. Labels without a percentage yield 0.
func taxRateFromLabel(label string) float64 {
	m := percentPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v / 100
}
