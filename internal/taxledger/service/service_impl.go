package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	clientdomain "github.com/viatica/backoffice/internal/client/domain"
	invoicedomain "github.com/viatica/backoffice/internal/invoice/domain"
	"github.com/viatica/backoffice/internal/taxledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("taxledger.service"),
	}
}

func (s *Service) Build(ctx context.Context, period string) (domain.Ledger, error) {
	from, to, err := parsePeriod(period)
	if err != nil {
		return domain.Ledger{}, err
	}

	var docs []invoicedomain.Document
	err = s.db.WithContext(ctx).
		Where("status = ?", invoicedomain.StatusIssued).
		Where("issued_at >= ? AND issued_at < ?", from, to).
		Order("issued_at asc, point_of_sale asc, number asc").
		Find(&docs).Error
	if err != nil {
		return domain.Ledger{}, err
	}

	clients, err := s.clientNames(ctx, docs)
	if err != nil {
		return domain.Ledger{}, err
	}

	ledger := domain.Ledger{
		Period: period,
		Rows:   make([]domain.Row, 0, len(docs)),
	}
	for _, doc := range docs {
		sign := 1.0
		if doc.Kind == invoicedomain.KindCreditNote {
			sign = -1
		}

		client := clients[doc.ClientID.String()]
		row := domain.Row{
			IssuedAt:    doc.IssuedAt,
			Kind:        string(doc.Kind),
			Letter:      doc.Letter,
			Number:      doc.FormattedNumber(),
			ClientName:  client.Name,
			ClientTaxID: client.TaxID,

			TaxableBase21:  sign * doc.TaxableBase21,
			VAT21:          sign * doc.VAT21Amount,
			TaxableBase105: sign * doc.TaxableBase105,
			VAT105:         sign * doc.VAT105Amount,
			Exempt:         sign * doc.ExemptAmount,
			NonComputable:  sign * doc.NonComputable,
			OtherTaxes:     sign * doc.OtherTaxes,
			Total:          sign * doc.Total,
		}
		ledger.Rows = append(ledger.Rows, row)

		ledger.Totals.TaxableBase21 += row.TaxableBase21
		ledger.Totals.VAT21 += row.VAT21
		ledger.Totals.TaxableBase105 += row.TaxableBase105
		ledger.Totals.VAT105 += row.VAT105
		ledger.Totals.Exempt += row.Exempt
		ledger.Totals.NonComputable += row.NonComputable
		ledger.Totals.OtherTaxes += row.OtherTaxes
		ledger.Totals.Total += row.Total
	}

	return ledger, nil
}

func (s *Service) ExportCSV(ctx context.Context, period string) (io.Reader, error) {
	ledger, err := s.Build(ctx, period)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"fecha", "tipo", "letra", "numero", "cliente", "cuit",
		"neto_21", "iva_21", "neto_105", "iva_105",
		"exento", "no_computable", "otros_impuestos", "total",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range ledger.Rows {
		record := []string{
			row.IssuedAt.Format("2006-01-02"),
			row.Kind,
			row.Letter,
			row.Number,
			row.ClientName,
			row.ClientTaxID,
			amount(row.TaxableBase21),
			amount(row.VAT21),
			amount(row.TaxableBase105),
			amount(row.VAT105),
			amount(row.Exempt),
			amount(row.NonComputable),
			amount(row.OtherTaxes),
			amount(row.Total),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	totals := []string{
		"", "", "", "", "TOTALES", "",
		amount(ledger.Totals.TaxableBase21),
		amount(ledger.Totals.VAT21),
		amount(ledger.Totals.TaxableBase105),
		amount(ledger.Totals.VAT105),
		amount(ledger.Totals.Exempt),
		amount(ledger.Totals.NonComputable),
		amount(ledger.Totals.OtherTaxes),
		amount(ledger.Totals.Total),
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &buf, nil
}

func (s *Service) clientNames(ctx context.Context, docs []invoicedomain.Document) (map[string]clientdomain.Client, error) {
	ids := make([]string, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		key := doc.ClientID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	if len(ids) == 0 {
		return map[string]clientdomain.Client{}, nil
	}

	var clients []clientdomain.Client
	err := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]clientdomain.Client, len(clients))
	for _, client := range clients {
		byID[client.ID.String()] = client
	}
	return byID, nil
}

func parsePeriod(period string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation("2006-01", strings.TrimSpace(period), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
	}
	return from, from.AddDate(0, 1, 0), nil
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
