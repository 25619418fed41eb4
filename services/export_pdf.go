package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePricingPDF renders a parsed pricing document as a proposal pricing
// PDF using maroto/v2. It returns the raw PDF bytes or an error.
func GeneratePricingPDF(data PricingExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPricingHeader(m, data)

	for _, table := range data.Document.Tables {
		addPricingSection(m, table, data)
	}

	addProjectTotal(m, data)
	addGeneratedFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addPricingHeader adds the proposal title and currency line.
func addPricingHeader(m core.Maroto, data PricingExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("All pricing in %s", data.Document.Currency), props.Text{
					Size:  9,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

// addPricingSection renders one table: section bar, item lines, footer lines
// and any alternates.
func addPricingSection(m core.Maroto, table PricingTable, data PricingExportData) {
	currency := data.Document.Currency
	computed := ComputeTableTotals(table, data.PriceOverrides, data.DescriptionOverrides)

	sectionBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	sectionCell := props.Cell{BackgroundColor: sectionBg}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(table.Name, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(&sectionCell),
		),
	)

	lineText := props.Text{Size: 8, Align: align.Left}
	amountText := props.Text{Size: 8, Align: align.Right}

	for _, line := range computed.Items {
		m.AddRows(
			row.New(6).Add(
				col.New(9).Add(text.New(line.Description, lineText)),
				col.New(3).Add(text.New(FormatLineAmount(line, currency), amountText)),
			),
		)
	}

	addFooterLine(m, "SUB TOTAL", FormatCurrency(computed.Subtotal, currency))
	if table.Tax != nil {
		addFooterLine(m, computed.TaxLabel, FormatCurrency(computed.Tax, currency))
	}
	if computed.Bond != 0 {
		addFooterLine(m, "BOND", FormatCurrency(computed.Bond, currency))
	}
	addFooterLine(m, "GRAND TOTAL", FormatCurrency(computed.GrandTotal, currency))

	if len(table.Alternates) > 0 {
		altText := props.Text{
			Size:  8,
			Align: align.Left,
			Color: &props.Color{Red: 80, Green: 80, Blue: 80},
		}
		altAmount := props.Text{
			Size:  8,
			Align: align.Right,
			Color: &props.Color{Red: 80, Green: 80, Blue: 80},
		}
		for _, alt := range table.Alternates {
			m.AddRows(
				row.New(6).Add(
					col.New(9).Add(text.New("Alternate: "+alt.Description, altText)),
					col.New(3).Add(text.New(FormatCurrency(alt.PriceDifference, currency), altAmount)),
				),
			)
		}
	}

	m.AddRows(row.New(4))
}

func addFooterLine(m core.Maroto, label, value string) {
	footerBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	footerCell := props.Cell{BackgroundColor: footerBg}
	style := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(6).Add(
			col.New(9).Add(text.New(label, style)).WithStyle(&footerCell),
			col.New(3).Add(text.New(value, style)).WithStyle(&footerCell),
		),
	)
}

// addProjectTotal adds the document-level grand total, honoring the master
// table selection.
func addProjectTotal(m core.Maroto, data PricingExportData) {
	m.AddRows(row.New(4))
	m.AddRows(
		row.New(9).Add(
			col.New(9).Add(
				text.New("PROJECT GRAND TOTAL", props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
			col.New(3).Add(
				text.New(FormatCurrency(projectGrandTotal(data), data.Document.Currency), props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)
}

func addGeneratedFooter(m core.Maroto, data PricingExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.GeneratedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
