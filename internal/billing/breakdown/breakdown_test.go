package breakdown

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

func TestCompute_SingleBracketNegativeNonComputable(t *testing.T) {
	// Sale 1210, cost 1000, all of it declared under 21%. The gross base
	// (1210) exceeds the cost, so the non-computable residual goes negative
	// and must not be clamped.
	res, err := Compute(Input{
		Mode:        ModeAuto,
		SalePrice:   1210,
		CostPrice:   1000,
		VAT21Amount: 210,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1000, res.TaxableBase21, tolerance)
	assert.InDelta(t, 0, res.TaxableBase105, tolerance)
	assert.InDelta(t, -210, res.NonComputable, tolerance)

	assert.InDelta(t, 0, res.CommissionExempt, tolerance)
	assert.InDelta(t, 210/1.21, res.Commission21, tolerance)
	assert.InDelta(t, 210-210/1.21, res.VATOnCommission21, tolerance)
	assert.InDelta(t, 0, res.Commission105, tolerance)
	assert.InDelta(t, res.Commission21, res.TotalCommissionWithoutVAT, tolerance)
}

func TestCompute_NoVATFallsBackToExempt(t *testing.T) {
	// Even with an exempt amount declared, zero VAT routes the whole margin
	// to the exempt commission bucket. ExemptAmount is an input about the
	// cost; CommissionExempt is an output about the margin.
	res, err := Compute(Input{
		Mode:         ModeAuto,
		SalePrice:    1500,
		CostPrice:    1000,
		ExemptAmount: 500,
	})
	require.NoError(t, err)

	assert.InDelta(t, 500, res.CommissionExempt, tolerance)
	assert.Zero(t, res.Commission21)
	assert.Zero(t, res.Commission105)
	assert.Zero(t, res.VATOnCommission21)
	assert.Zero(t, res.VATOnCommission105)
	assert.InDelta(t, 500, res.TotalCommissionWithoutVAT, tolerance)

	// Exempt present forces non-computable to zero.
	assert.Zero(t, res.NonComputable)
}

func TestCompute_MixedBracketsProportionalSplit(t *testing.T) {
	in := Input{
		Mode:         ModeAuto,
		SalePrice:    3000,
		CostPrice:    2400,
		VAT21Amount:  210, // base 1000, gross 1210
		VAT105Amount: 105, // base 1000, gross 1105
	}
	res, err := Compute(in)
	require.NoError(t, err)

	assert.InDelta(t, 1000, res.TaxableBase21, tolerance)
	assert.InDelta(t, 1000, res.TaxableBase105, tolerance)
	assert.InDelta(t, 2400-(1210+1105), res.NonComputable, tolerance)

	margin := in.SalePrice - in.CostPrice
	grossComm21 := margin * 210 / 315
	grossComm105 := margin * 105 / 315

	assert.InDelta(t, grossComm21/1.21, res.Commission21, tolerance)
	assert.InDelta(t, grossComm21-grossComm21/1.21, res.VATOnCommission21, tolerance)
	assert.InDelta(t, grossComm105/1.105, res.Commission105, tolerance)
	assert.InDelta(t, grossComm105-grossComm105/1.105, res.VATOnCommission105, tolerance)

	// Net + extracted VAT reassembles each gross slice.
	assert.InDelta(t, grossComm21, res.Commission21+res.VATOnCommission21, tolerance)
	assert.InDelta(t, grossComm105, res.Commission105+res.VATOnCommission105, tolerance)

	assert.InDelta(t, margin-res.VATOnCommission21-res.VATOnCommission105,
		res.TotalCommissionWithoutVAT, tolerance)
}

func TestCompute_ReverseDerivationRoundTrips(t *testing.T) {
	cases := []struct {
		name          string
		vat21, vat105 float64
	}{
		{"both brackets", 420, 52.5},
		{"only 21", 37.8, 0},
		{"only 105", 0, 99.75},
		{"tiny amounts", 0.21, 0.105},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Compute(Input{
				Mode:         ModeAuto,
				SalePrice:    10000,
				CostPrice:    9000,
				VAT21Amount:  tc.vat21,
				VAT105Amount: tc.vat105,
			})
			require.NoError(t, err)
			assert.InDelta(t, tc.vat21, res.TaxableBase21*RateStandard, tolerance)
			assert.InDelta(t, tc.vat105, res.TaxableBase105*RateReduced, tolerance)
		})
	}
}

func TestCompute_CommissionSumsToMargin(t *testing.T) {
	inputs := []Input{
		{SalePrice: 1210, CostPrice: 1000, VAT21Amount: 210},
		{SalePrice: 5000, CostPrice: 4100, VAT21Amount: 300, VAT105Amount: 120},
		{SalePrice: 900, CostPrice: 1100, VAT21Amount: 80},     // negative margin
		{SalePrice: 2000, CostPrice: 1500, ExemptAmount: 700},  // exempt only
		{SalePrice: 750.50, CostPrice: 600.25, VAT105Amount: 31.5},
		{SalePrice: 0, CostPrice: 0},
	}
	for _, in := range inputs {
		in.Mode = ModeAuto
		res, err := Compute(in)
		require.NoError(t, err)
		margin := in.SalePrice - in.CostPrice
		sum := res.CommissionExempt + res.Commission21 + res.Commission105
		assert.InDelta(t, margin, sum+res.VATOnCommission21+res.VATOnCommission105, tolerance,
			"gross slices must reassemble the margin for %+v", in)
		assert.InDelta(t, margin-res.VATOnCommission21-res.VATOnCommission105,
			res.TotalCommissionWithoutVAT, tolerance)
	}
}

func TestCompute_TransferFeeOnMargin(t *testing.T) {
	res, err := Compute(Input{
		Mode:           ModeAuto,
		SalePrice:      1210,
		CostPrice:      1000,
		VAT21Amount:    210,
		TransferFeePct: 0.1,
		FeePolicy:      FeeOnMargin,
	})
	require.NoError(t, err)

	// 210 margin less 10% fee leaves 189 to distribute.
	gross := 189.0
	assert.InDelta(t, gross/1.21, res.Commission21, tolerance)
	assert.InDelta(t, gross-gross/1.21, res.VATOnCommission21, tolerance)
}

func TestCompute_TransferFeeOnCost(t *testing.T) {
	res, err := Compute(Input{
		Mode:           ModeAuto,
		SalePrice:      1210,
		CostPrice:      1000,
		VAT21Amount:    210,
		TransferFeePct: 0.1,
		FeePolicy:      FeeOnCost,
	})
	require.NoError(t, err)

	// Cost inflated to 1100 leaves 110 to distribute.
	gross := 110.0
	assert.InDelta(t, gross/1.21, res.Commission21, tolerance)
}

func TestCompute_FullTransferFeeConsumesMargin(t *testing.T) {
	res, err := Compute(Input{
		Mode:           ModeAuto,
		SalePrice:      1210,
		CostPrice:      1000,
		VAT21Amount:    210,
		TransferFeePct: 1,
		FeePolicy:      FeeOnMargin,
	})
	require.NoError(t, err)

	assert.Zero(t, res.Commission21)
	assert.Zero(t, res.Commission105)
	assert.Zero(t, res.CommissionExempt)
	assert.Zero(t, res.VATOnCommission21)
	assert.Zero(t, res.TotalCommissionWithoutVAT)
}

func TestCompute_CardInterestPassthrough(t *testing.T) {
	res, err := Compute(Input{
		Mode:                  ModeAuto,
		SalePrice:             1210,
		CostPrice:             1000,
		VAT21Amount:           210,
		CardInterestAmount:    100,
		CardInterestVATAmount: 21,
	})
	require.NoError(t, err)

	assert.InDelta(t, 100, res.TaxableCardInterest, tolerance)
	assert.InDelta(t, 21, res.VATOnCardInterest, tolerance)
	// The card pipeline never leaks into the bracket split.
	assert.InDelta(t, 210/1.21, res.Commission21, tolerance)
}

func TestCompute_CardInterestDecompose(t *testing.T) {
	res, err := Compute(Input{
		Mode:                  ModeAuto,
		SalePrice:             1210,
		CostPrice:             1000,
		CardInterestAmount:    100,
		CardInterestVATAmount: 21,
		CardInterestPolicy:    CardInterestDecompose,
	})
	require.NoError(t, err)

	// Combined 121 gross decomposes back into 100 + 21.
	assert.InDelta(t, 100, res.TaxableCardInterest, tolerance)
	assert.InDelta(t, 21, res.VATOnCardInterest, tolerance)
	assert.InDelta(t, 121, res.TaxableCardInterest+res.VATOnCardInterest, tolerance)
}

func TestCompute_CardInterestConservation(t *testing.T) {
	for _, policy := range []CardInterestPolicy{CardInterestPassthrough, CardInterestDecompose} {
		res, err := Compute(Input{
			Mode:                  ModeAuto,
			SalePrice:             500,
			CostPrice:             400,
			CardInterestAmount:    83.17,
			CardInterestVATAmount: 17.47,
			CardInterestPolicy:    policy,
		})
		require.NoError(t, err)
		assert.InDelta(t, 83.17+17.47, res.TaxableCardInterest+res.VATOnCardInterest, tolerance,
			"policy %s must conserve the combined figure", policy)
	}
}

func TestCompute_ManualMode(t *testing.T) {
	res, err := Compute(Input{
		Mode:             ModeManual,
		SalePrice:        1000,
		CostPrice:        700,
		OtherTaxesAmount: 50,
		VAT21Amount:      999, // ignored in manual mode
	})
	require.NoError(t, err)

	assert.InDelta(t, 300, res.TotalCommissionWithoutVAT, tolerance)
	assert.InDelta(t, 50, res.OtherTaxes, tolerance)
	assert.Zero(t, res.TaxableBase21)
	assert.Zero(t, res.TaxableBase105)
	assert.Zero(t, res.Commission21)
	assert.Zero(t, res.Commission105)
	assert.Zero(t, res.CommissionExempt)
	assert.Zero(t, res.NonComputable)
}

func TestCompute_ManualModeWithFee(t *testing.T) {
	res, err := Compute(Input{
		Mode:           ModeManual,
		SalePrice:      1000,
		CostPrice:      700,
		TransferFeePct: 0.1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 270, res.TotalCommissionWithoutVAT, tolerance)
}

func TestCompute_OtherTaxesPassThroughInAutoMode(t *testing.T) {
	res, err := Compute(Input{
		Mode:             ModeAuto,
		SalePrice:        1210,
		CostPrice:        1000,
		VAT21Amount:      210,
		OtherTaxesAmount: 33.5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 33.5, res.OtherTaxes, tolerance)
}

func TestCompute_Idempotent(t *testing.T) {
	in := Input{
		Mode:           ModeAuto,
		SalePrice:      4321.99,
		CostPrice:      3999.01,
		VAT21Amount:    123.45,
		VAT105Amount:   67.89,
		TransferFeePct: 0.025,
	}
	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompute_ZeroInputProducesZeroResult(t *testing.T) {
	res, err := Compute(Input{Mode: ModeAuto})
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestCompute_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"nan sale price", Input{SalePrice: math.NaN()}},
		{"inf cost price", Input{CostPrice: math.Inf(1)}},
		{"negative vat21", Input{VAT21Amount: -1}},
		{"negative vat105", Input{VAT105Amount: -0.01}},
		{"negative exempt", Input{ExemptAmount: -5}},
		{"negative card interest", Input{CardInterestAmount: -10}},
		{"negative card interest vat", Input{CardInterestVATAmount: -2}},
		{"fee below range", Input{TransferFeePct: -0.1}},
		{"fee above range", Input{TransferFeePct: 1.01}},
		{"nan fee", Input{TransferFeePct: math.NaN()}},
		{"nan other taxes", Input{OtherTaxesAmount: math.NaN()}},
		{"unknown mode", Input{Mode: Mode("semi")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCompute_NegativePricesStillCompute(t *testing.T) {
	// Only non-finite prices are rejected; a negative price is a financially
	// odd input the preview must still render.
	res, err := Compute(Input{Mode: ModeAuto, SalePrice: -100, CostPrice: 50})
	require.NoError(t, err)
	assert.InDelta(t, -150, res.CommissionExempt, tolerance)
}
