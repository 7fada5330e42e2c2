package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type InvoiceData struct {
	Title     string // "Factura A", "Nota de Crédito B"
	Number    string // point-of-sale/sequence pair, already formatted
	IssueDate string
	CAE       string

	AgencyName string
	AgencyCUIT string

	ClientName  string
	ClientTaxID string

	Description string

	TaxableBase21  float64
	TaxableBase105 float64
	VAT21          float64
	VAT105         float64
	Exempt         float64
	NonComputable  float64
	OtherTaxes     float64
	Total          float64
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(8, data.Title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.Number, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(data.AgencyName, props.Text{Style: fontstyle.Bold}),
			text.New("CUIT: "+data.AgencyCUIT, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Fecha de emisión: "+data.IssueDate, props.Text{Top: 0}),
		),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Cliente", props.Text{Style: fontstyle.Bold}),
			text.New(data.ClientName, props.Text{Top: 5}),
			text.New("CUIT/DNI: "+data.ClientTaxID, props.Text{Top: 10}),
		),
	)

	m.AddRow(12,
		text.NewCol(12, data.Description, props.Text{Size: 10}),
	)

	m.AddRow(10,
		text.NewCol(8, "Concepto", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Importe", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range taxLines(data) {
		m.AddRow(8,
			text.NewCol(8, line.label, props.Text{Size: 9}),
			text.NewCol(4, formatAmount(line.amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		text.NewCol(8, "Total", props.Text{Style: fontstyle.Bold, Size: 11}),
		text.NewCol(4, formatAmount(data.Total), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right}),
	)

	if data.CAE != "" {
		m.AddRow(10,
			text.NewCol(12, "CAE: "+data.CAE, props.Text{Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

type taxLine struct {
	label  string
	amount float64
}

// taxLines skips zero-amount brackets so a B document to a final consumer
// does not render an empty VAT table.
func taxLines(data InvoiceData) []taxLine {
	all := []taxLine{
		{"Neto gravado 21%", data.TaxableBase21},
		{"IVA 21%", data.VAT21},
		{"Neto gravado 10,5%", data.TaxableBase105},
		{"IVA 10,5%", data.VAT105},
		{"Exento", data.Exempt},
		{"No computable", data.NonComputable},
		{"Otros impuestos", data.OtherTaxes},
	}
	lines := make([]taxLine, 0, len(all))
	for _, line := range all {
		if line.amount != 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

func formatAmount(v float64) string {
	return fmt.Sprintf("$ %.2f", v)
}
