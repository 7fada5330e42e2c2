// Package domain defines the sales VAT ledger built from issued documents.
package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

// Row is one ledger line, one per issued document. Credit note amounts are
// negated so column sums give the period's net position.
type Row struct {
	IssuedAt    time.Time `json:"issued_at"`
	Kind        string    `json:"kind"`
	Letter      string    `json:"letter"`
	Number      string    `json:"number"`
	ClientName  string    `json:"client_name"`
	ClientTaxID string    `json:"client_tax_id"`

	TaxableBase21  float64 `json:"taxable_base_21"`
	VAT21          float64 `json:"vat_21"`
	TaxableBase105 float64 `json:"taxable_base_105"`
	VAT105         float64 `json:"vat_105"`
	Exempt         float64 `json:"exempt"`
	NonComputable  float64 `json:"non_computable"`
	OtherTaxes     float64 `json:"other_taxes"`
	Total          float64 `json:"total"`
}

// Totals are the column sums over the period.
type Totals struct {
	TaxableBase21  float64 `json:"taxable_base_21"`
	VAT21          float64 `json:"vat_21"`
	TaxableBase105 float64 `json:"taxable_base_105"`
	VAT105         float64 `json:"vat_105"`
	Exempt         float64 `json:"exempt"`
	NonComputable  float64 `json:"non_computable"`
	OtherTaxes     float64 `json:"other_taxes"`
	Total          float64 `json:"total"`
}

// Ledger is the sales VAT book for one monthly period.
type Ledger struct {
	Period string `json:"period"`
	Rows   []Row  `json:"rows"`
	Totals Totals `json:"totals"`
}

type Service interface {
	// Build assembles the ledger for a YYYY-MM period. Voided documents are
	// excluded; only what was fiscally issued counts.
	Build(ctx context.Context, period string) (Ledger, error)
	ExportCSV(ctx context.Context, period string) (io.Reader, error)
}

var ErrInvalidPeriod = errors.New("invalid_period")
