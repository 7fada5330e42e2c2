package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viatica/backoffice/internal/billing/domain"
	"github.com/viatica/backoffice/internal/config"
	"go.uber.org/zap"
)

func newTestService(policy config.BillingPolicy) domain.Service {
	return New(Params{
		Log:    zap.NewNop(),
		Policy: config.StaticBillingPolicyHolder(policy),
	})
}

func TestCompute_PolicyDefaultsApply(t *testing.T) {
	svc := newTestService(config.BillingPolicy{
		DefaultMode:        "auto",
		TransferFeePct:     0.1,
		FeePolicy:          "margin",
		CardInterestPolicy: "passthrough",
	})

	res, err := svc.Compute(context.Background(), domain.Request{
		SalePrice:   1210,
		CostPrice:   1000,
		VAT21Amount: 210,
	})
	require.NoError(t, err)

	// Policy fee of 10% reduces the distributable margin to 189.
	assert.InDelta(t, 189.0/1.21, res.Commission21, 1e-6)
}

func TestCompute_RequestOverridesPolicy(t *testing.T) {
	svc := newTestService(config.BillingPolicy{
		DefaultMode:        "auto",
		TransferFeePct:     0.5,
		FeePolicy:          "margin",
		CardInterestPolicy: "passthrough",
	})

	mode := "manual"
	noFee := 0.0
	res, err := svc.Compute(context.Background(), domain.Request{
		Mode:             &mode,
		TransferFeePct:   &noFee,
		SalePrice:        1000,
		CostPrice:        700,
		OtherTaxesAmount: 50,
	})
	require.NoError(t, err)

	assert.InDelta(t, 300, res.TotalCommissionWithoutVAT, 1e-6)
	assert.InDelta(t, 50, res.OtherTaxes, 1e-6)
	assert.Zero(t, res.Commission21)
}

func TestCompute_ManualDefaultFromPolicy(t *testing.T) {
	svc := newTestService(config.BillingPolicy{
		DefaultMode:        "manual",
		FeePolicy:          "margin",
		CardInterestPolicy: "passthrough",
	})

	res, err := svc.Compute(context.Background(), domain.Request{
		SalePrice: 1000,
		CostPrice: 700,
	})
	require.NoError(t, err)
	assert.InDelta(t, 300, res.TotalCommissionWithoutVAT, 1e-6)
}

func TestCompute_InvalidInputSurfaces(t *testing.T) {
	svc := newTestService(config.DefaultBillingPolicy())

	fee := 1.5
	_, err := svc.Compute(context.Background(), domain.Request{TransferFeePct: &fee})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
