package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ReceiptData struct {
	Number     string
	DatePaid   string
	AgencyName string
	AgencyCUIT string

	ClientName  string
	ClientTaxID string

	Concept string
	Method  string // efectivo, transferencia, tarjeta
	Amount  float64
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(8, "Recibo", props.Text{
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
			text.New("Fecha de pago: "+data.DatePaid, props.Text{Top: 0}),
		),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Recibimos de", props.Text{Style: fontstyle.Bold}),
			text.New(data.ClientName, props.Text{Top: 5}),
			text.New("CUIT/DNI: "+data.ClientTaxID, props.Text{Top: 10}),
		),
	)

	m.AddRow(12,
		text.NewCol(8, "En concepto de: "+data.Concept, props.Text{Size: 10}),
		text.NewCol(4, "Medio: "+data.Method, props.Text{Size: 10, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(12, formatAmount(data.Amount)+" recibidos el "+data.DatePaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
