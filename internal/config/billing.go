package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingPolicy is the agency-level billing policy. It resolves the defaults
// the breakdown engine receives as already-decided parameters: which mode a
// service is billed under, the transfer fee, and the two contested policy
// switches that drifted across the old per-form implementations.
type BillingPolicy struct {
	DefaultMode        string  `mapstructure:"defaultMode"`
	TransferFeePct     float64 `mapstructure:"transferFeePct"`
	FeePolicy          string  `mapstructure:"feePolicy"`
	CardInterestPolicy string  `mapstructure:"cardInterestPolicy"`
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		DefaultMode:        "auto",
		TransferFeePct:     0,
		FeePolicy:          "margin",
		CardInterestPolicy: "passthrough",
	}
}

// BillingPolicyHolder hands out the current policy and hot-reloads it when the
// mounted config file changes, so the agency can switch fee policy without a
// restart.
type BillingPolicyHolder struct {
	current atomic.Value // holds BillingPolicy
}

func NewBillingPolicyHolder() (*BillingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/viatica/config") // Volume-mounted config
	v.AddConfigPath("/etc/viatica")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("VIATICA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingPolicy()
	v.SetDefault("billing.defaultMode", defaults.DefaultMode)
	v.SetDefault("billing.transferFeePct", defaults.TransferFeePct)
	v.SetDefault("billing.feePolicy", defaults.FeePolicy)
	v.SetDefault("billing.cardInterestPolicy", defaults.CardInterestPolicy)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var policy BillingPolicy
	if err := v.UnmarshalKey("billing", &policy); err != nil {
		return nil, err
	}
	if err := validateBillingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log := zap.L().Named("billing.policy")
		var updated BillingPolicy
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Warn("policy reload failed", zap.Error(err))
			return
		}
		if err := validateBillingPolicy(updated); err != nil {
			log.Warn("invalid policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// StaticBillingPolicyHolder wraps a fixed policy, bypassing file watching.
// Intended for tests and one-off tooling.
func StaticBillingPolicyHolder(p BillingPolicy) *BillingPolicyHolder {
	holder := &BillingPolicyHolder{}
	holder.current.Store(p)
	return holder
}

func (h *BillingPolicyHolder) Get() BillingPolicy {
	return h.current.Load().(BillingPolicy)
}

func validateBillingPolicy(p BillingPolicy) error {
	switch p.DefaultMode {
	case "auto", "manual":
	default:
		return errors.New("billing.defaultMode must be auto or manual")
	}
	if p.TransferFeePct < 0 || p.TransferFeePct > 1 {
		return errors.New("billing.transferFeePct must be within [0,1]")
	}
	switch p.FeePolicy {
	case "margin", "cost":
	default:
		return errors.New("billing.feePolicy must be margin or cost")
	}
	switch p.CardInterestPolicy {
	case "passthrough", "decompose":
	default:
		return errors.New("billing.cardInterestPolicy must be passthrough or decompose")
	}
	return nil
}
