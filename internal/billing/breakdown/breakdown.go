// Package breakdown reconstructs statutory taxable bases from declared VAT
// amounts and splits a service's gross margin into VAT-bracket commission
// components. It is a pure computation: no I/O, no shared state, safe to call
// concurrently on every form keystroke.
package breakdown

import (
	"errors"
	"fmt"
	"math"
)

// Argentine VAT rates handled by the engine.
const (
	RateStandard = 0.21
	RateReduced  = 0.105
)

// Mode selects between the bracket-splitting computation and the flat-tax one.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// FeePolicy controls what the transfer fee is applied to before the margin is
// distributed across brackets.
type FeePolicy string

const (
	// FeeOnMargin reduces the margin by margin*pct.
	FeeOnMargin FeePolicy = "margin"
	// FeeOnCost inflates the cost by cost*pct, so the fee can exceed the margin.
	FeeOnCost FeePolicy = "cost"
)

// CardInterestPolicy controls how the card-interest pipeline treats its inputs.
type CardInterestPolicy string

const (
	// CardInterestPassthrough copies the declared interest and its VAT as-is.
	CardInterestPassthrough CardInterestPolicy = "passthrough"
	// CardInterestDecompose treats interest+VAT as a combined gross figure and
	// extracts the 21% VAT algebraically.
	CardInterestDecompose CardInterestPolicy = "decompose"
)

// ErrInvalidInput marks inputs outside the engine's numeric domain. Business
// inconsistencies (VAT declared above cost, negative margin) are not errors;
// they surface in the result so the live preview keeps working while the user
// types.
var ErrInvalidInput = errors.New("invalid_input")

// Input carries one service's billing figures. All monetary fields share one
// implicit currency; the engine never formats or converts.
type Input struct {
	Mode Mode

	SalePrice float64
	CostPrice float64

	// VAT amounts as declared (the tax, not the base).
	VAT21Amount  float64
	VAT105Amount float64

	// Cost attributable to VAT-exempt items.
	ExemptAmount float64

	// Taxes outside the VAT system, passed through unchanged.
	OtherTaxesAmount float64

	// Financing interest and its 21% VAT, a parallel pipeline.
	CardInterestAmount    float64
	CardInterestVATAmount float64

	// Bank/transfer cost as a fraction in [0,1]. Zero means no fee.
	TransferFeePct float64

	FeePolicy          FeePolicy
	CardInterestPolicy CardInterestPolicy
}

// Result is a value object rebuilt on every call. Callers copy fields onto
// whatever record they persist; the result itself has no identity.
type Result struct {
	NonComputable float64 `json:"non_computable"`

	TaxableBase21  float64 `json:"taxable_base_21"`
	TaxableBase105 float64 `json:"taxable_base_105"`

	CommissionExempt float64 `json:"commission_exempt"`
	Commission21     float64 `json:"commission_21"`
	Commission105    float64 `json:"commission_105"`

	VATOnCommission21  float64 `json:"vat_on_commission_21"`
	VATOnCommission105 float64 `json:"vat_on_commission_105"`

	TotalCommissionWithoutVAT float64 `json:"total_commission_without_vat"`

	TaxableCardInterest float64 `json:"taxable_card_interest"`
	VATOnCardInterest   float64 `json:"vat_on_card_interest"`

	OtherTaxes float64 `json:"other_taxes"`
}

// Compute derives the billing breakdown for one service. Same input always
// yields the same output.
func Compute(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	switch in.Mode {
	case ModeManual:
		return computeManual(in), nil
	case ModeAuto, "":
		return computeAuto(in), nil
	default:
		return Result{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}
}

func computeAuto(in Input) Result {
	var out Result

	// Reverse base derivation: the user entered the VAT amount, so the net
	// base is v/r and the gross (VAT-inclusive) figure is base*(1+r).
	out.TaxableBase21 = reverseBase(in.VAT21Amount, RateStandard)
	out.TaxableBase105 = reverseBase(in.VAT105Amount, RateReduced)
	gross21 := out.TaxableBase21 + in.VAT21Amount
	gross105 := out.TaxableBase105 + in.VAT105Amount

	// Whenever any exempt amount is present the non-computable figure is
	// forced to zero. Otherwise it is the residual of cost after removing the
	// gross bases, which goes negative when the declared VAT is inconsistent
	// with the cost. The negative value must survive; invoice totals and the
	// sales ledger depend on it.
	if in.ExemptAmount > 0 {
		out.NonComputable = 0
	} else {
		out.NonComputable = in.CostPrice - (gross21 + gross105)
	}

	margin := distributableMargin(in)

	// Distribution weight is the entered VAT amounts, not the bases. With no
	// VAT declared the whole margin lands in the exempt bucket even when an
	// exempt amount was provided; exemptAmount and CommissionExempt are
	// different quantities.
	var grossComm21, grossComm105 float64
	vatTotal := in.VAT21Amount + in.VAT105Amount
	if vatTotal > 0 {
		grossComm21 = margin * in.VAT21Amount / vatTotal
		grossComm105 = margin * in.VAT105Amount / vatTotal
	} else {
		out.CommissionExempt = margin
	}

	out.Commission21, out.VATOnCommission21 = extractVAT(grossComm21, RateStandard)
	out.Commission105, out.VATOnCommission105 = extractVAT(grossComm105, RateReduced)
	out.TotalCommissionWithoutVAT = margin - out.VATOnCommission21 - out.VATOnCommission105

	out.TaxableCardInterest, out.VATOnCardInterest = cardInterest(in)
	out.OtherTaxes = in.OtherTaxesAmount

	return out
}

// computeManual strips the bracket logic: the fee-adjusted margin is the whole
// commission and OtherTaxesAmount is the sole tax figure. Agencies on a
// flat-tax billing policy get this materially simpler computation instead of
// zeros pushed through the auto-mode formulas.
func computeManual(in Input) Result {
	var out Result
	out.TotalCommissionWithoutVAT = distributableMargin(in)
	out.TaxableCardInterest, out.VATOnCardInterest = cardInterest(in)
	out.OtherTaxes = in.OtherTaxesAmount
	return out
}

func distributableMargin(in Input) float64 {
	margin := in.SalePrice - in.CostPrice
	if in.TransferFeePct == 0 {
		return margin
	}
	switch in.FeePolicy {
	case FeeOnCost:
		return in.SalePrice - in.CostPrice*(1+in.TransferFeePct)
	default:
		return margin - margin*in.TransferFeePct
	}
}

func cardInterest(in Input) (taxable, vat float64) {
	switch in.CardInterestPolicy {
	case CardInterestDecompose:
		combined := in.CardInterestAmount + in.CardInterestVATAmount
		return extractVAT(combined, RateStandard)
	default:
		return in.CardInterestAmount, in.CardInterestVATAmount
	}
}

func reverseBase(vatAmount, rate float64) float64 {
	if vatAmount == 0 {
		return 0
	}
	return vatAmount / rate
}

// extractVAT splits a gross commission slice into its net and embedded VAT.
func extractVAT(gross, rate float64) (net, vat float64) {
	if gross == 0 {
		return 0, 0
	}
	net = gross / (1 + rate)
	return net, gross - net
}

func validate(in Input) error {
	if !isFinite(in.SalePrice) {
		return fmt.Errorf("%w: sale_price must be finite", ErrInvalidInput)
	}
	if !isFinite(in.CostPrice) {
		return fmt.Errorf("%w: cost_price must be finite", ErrInvalidInput)
	}
	if !isFinite(in.TransferFeePct) || in.TransferFeePct < 0 || in.TransferFeePct > 1 {
		return fmt.Errorf("%w: transfer_fee_pct outside [0,1]", ErrInvalidInput)
	}
	for _, f := range [...]struct {
		name  string
		value float64
	}{
		{"vat_21_amount", in.VAT21Amount},
		{"vat_105_amount", in.VAT105Amount},
		{"exempt_amount", in.ExemptAmount},
		{"card_interest_amount", in.CardInterestAmount},
		{"card_interest_vat_amount", in.CardInterestVATAmount},
	} {
		if !isFinite(f.value) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative amount", ErrInvalidInput, f.name)
		}
	}
	if !isFinite(in.OtherTaxesAmount) {
		return fmt.Errorf("%w: other_taxes_amount must be finite", ErrInvalidInput)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
