package services

import (
	"fmt"
	"math"
	"strings"
)

// PriceOverrides carries user price edits made after parsing, keyed by
// "{tableId}:{itemIndex}". Applying overrides never mutates the stored
// document; they are combined with it here, at render time.
type PriceOverrides map[string]float64

// DescriptionOverrides carries user description edits, same keying.
type DescriptionOverrides map[string]string

// OverrideKey builds the override map key for one line.
func OverrideKey(tableID string, itemIndex int) string {
	return fmt.Sprintf("%s:%d", tableID, itemIndex)
}

// RoundCents rounds a value to currency precision.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputedLine is one display-ready line after overrides and rounding.
type ComputedLine struct {
	Description string
	Price       float64
	IsIncluded  bool
}

// ComputedTable is the display-ready form of one pricing table.
type ComputedTable struct {
	Items      []ComputedLine
	Subtotal   float64
	Tax        float64
	TaxLabel   string
	Bond       float64
	GrandTotal float64
}

// ComputeTableTotals applies overrides and the rounding policy to one table.
// Each line's effective price is rounded to cents first and the rounded
// values are summed, so the displayed subtotal matches what a reader gets
// adding the printed line amounts on a calculator. That deliberately differs
// from summing full precision and rounding once.
func ComputeTableTotals(table PricingTable, prices PriceOverrides, descriptions DescriptionOverrides) ComputedTable {
	items := make([]ComputedLine, len(table.Items))
	var subtotal float64

	for i, it := range table.Items {
		key := OverrideKey(table.ID, i)

		price := it.SellingPrice
		if v, ok := prices[key]; ok {
			price = v
		}
		price = RoundCents(price)

		desc := it.Description
		if d, ok := descriptions[key]; ok && strings.TrimSpace(d) != "" {
			desc = strings.TrimSpace(d)
		}

		items[i] = ComputedLine{
			Description: desc,
			Price:       price,
			IsIncluded:  it.IsIncluded && price == 0,
		}
		subtotal += price
	}
	subtotal = RoundCents(subtotal)

	var tax float64
	var taxLabel string
	if table.Tax != nil {
		tax = RoundCents(table.Tax.Amount)
		taxLabel = table.Tax.Label
	}
	bond := RoundCents(table.Bond)

	return ComputedTable{
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		TaxLabel:   taxLabel,
		Bond:       bond,
		GrandTotal: RoundCents(subtotal + tax + bond),
	}
}

// ComputeDocumentTotal sums every table's overridden grand total under the
// same per-line-then-sum discipline. Alternates never contribute.
func ComputeDocumentTotal(doc *PricingDocument, prices PriceOverrides, descriptions DescriptionOverrides) float64 {
	var total float64
	for _, t := range doc.Tables {
		total += ComputeTableTotals(t, prices, descriptions).GrandTotal
	}
	return RoundCents(total)
}
