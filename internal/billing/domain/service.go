package domain

import (
	"context"

	"github.com/viatica/backoffice/internal/billing/breakdown"
)

// Request is one service's billing figures as edited in a form. Mode and
// TransferFeePct are optional; when nil the agency billing policy decides.
type Request struct {
	Mode           *string  `json:"mode,omitempty"`
	TransferFeePct *float64 `json:"transfer_fee_pct,omitempty"`

	SalePrice             float64 `json:"sale_price"`
	CostPrice             float64 `json:"cost_price"`
	VAT21Amount           float64 `json:"vat_21_amount"`
	VAT105Amount          float64 `json:"vat_105_amount"`
	ExemptAmount          float64 `json:"exempt_amount"`
	OtherTaxesAmount      float64 `json:"other_taxes_amount"`
	CardInterestAmount    float64 `json:"card_interest_amount"`
	CardInterestVATAmount float64 `json:"card_interest_vat_amount"`
}

// Service resolves agency policy defaults and runs the breakdown engine.
// Compute is invoked on every form keystroke for the live preview and again
// by the persistence paths right before a service or invoice is saved.
type Service interface {
	Compute(ctx context.Context, req Request) (breakdown.Result, error)

	// ResolveInput pins the request against the current agency policy. The
	// persistence paths use it so saved records carry the mode and fee that
	// were actually applied, not "whatever the policy says next time".
	ResolveInput(req Request) breakdown.Input
}

// ErrInvalidInput is the engine's rejection of non-finite or negative inputs.
var ErrInvalidInput = breakdown.ErrInvalidInput
