package service

import (
	"context"

	"github.com/viatica/backoffice/internal/billing/breakdown"
	"github.com/viatica/backoffice/internal/billing/domain"
	"github.com/viatica/backoffice/internal/config"
	obsmetrics "github.com/viatica/backoffice/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Policy     *config.BillingPolicyHolder
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	policy     *config.BillingPolicyHolder
	obsMetrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("billing.service"),
		policy:     p.Policy,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) Compute(ctx context.Context, req domain.Request) (breakdown.Result, error) {
	in := s.ResolveInput(req)
	res, err := breakdown.Compute(in)
	if err != nil {
		return breakdown.Result{}, err
	}
	s.obsMetrics.RecordBreakdown(string(in.Mode))
	return res, nil
}

func (s *Service) ResolveInput(req domain.Request) breakdown.Input {
	policy := s.policy.Get()

	mode := breakdown.Mode(policy.DefaultMode)
	if req.Mode != nil {
		mode = breakdown.Mode(*req.Mode)
	}

	feePct := policy.TransferFeePct
	if req.TransferFeePct != nil {
		feePct = *req.TransferFeePct
	}

	return breakdown.Input{
		Mode:                  mode,
		SalePrice:             req.SalePrice,
		CostPrice:             req.CostPrice,
		VAT21Amount:           req.VAT21Amount,
		VAT105Amount:          req.VAT105Amount,
		ExemptAmount:          req.ExemptAmount,
		OtherTaxesAmount:      req.OtherTaxesAmount,
		CardInterestAmount:    req.CardInterestAmount,
		CardInterestVATAmount: req.CardInterestVATAmount,
		TransferFeePct:        feePct,
		FeePolicy:             breakdown.FeePolicy(policy.FeePolicy),
		CardInterestPolicy:    breakdown.CardInterestPolicy(policy.CardInterestPolicy),
	}
}
