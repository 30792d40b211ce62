package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig carries the business knobs that operations tune without a
// redeploy: the referral discount applied to a plan's canonical price, how
// many days an invoice stays open, and the billing currency.
type BillingConfig struct {
	ReferralDiscountRate float64 `mapstructure:"referralDiscountRate"`
	InvoiceDueDays       int     `mapstructure:"invoiceDueDays"`
	Currency             string  `mapstructure:"currency"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		ReferralDiscountRate: 0.5,
		InvoiceDueDays:       7,
		Currency:             "NGN",
	}
}

// BillingConfigHolder exposes the current BillingConfig and hot-reloads it
// when the backing billing.yml changes.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/brandloom/config") // Volume-mounted config
	v.AddConfigPath("/etc/brandloom")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("BRANDLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &BillingConfigHolder{}

	load := func() BillingConfig {
		cfg := DefaultBillingConfig()
		if err := v.UnmarshalKey("billing", &cfg); err != nil {
			log.Printf("billing config unmarshal failed, keeping defaults: %v", err)
			return DefaultBillingConfig()
		}
		if cfg.ReferralDiscountRate <= 0 || cfg.ReferralDiscountRate > 1 {
			cfg.ReferralDiscountRate = DefaultBillingConfig().ReferralDiscountRate
		}
		if cfg.InvoiceDueDays <= 0 {
			cfg.InvoiceDueDays = DefaultBillingConfig().InvoiceDueDays
		}
		if strings.TrimSpace(cfg.Currency) == "" {
			cfg.Currency = DefaultBillingConfig().Currency
		}
		return cfg
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultBillingConfig())
		return holder, nil
	}

	holder.current.Store(load())

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("billing config reloaded from %s", e.Name)
		holder.current.Store(load())
	})
	v.WatchConfig()

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	if h == nil {
		return DefaultBillingConfig()
	}
	if cfg, ok := h.current.Load().(BillingConfig); ok {
		return cfg
	}
	return DefaultBillingConfig()
}

// Set replaces the current config. Used by tests.
func (h *BillingConfigHolder) Set(cfg BillingConfig) {
	h.current.Store(cfg)
}
