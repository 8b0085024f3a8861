package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/common"
	"github.com/noah-isme/supermarket-pricing/internal/obs"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
	"github.com/noah-isme/supermarket-pricing/internal/voucher"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv           string `validate:"required"`
	LogFormat        string `validate:"oneof=json console text"`
	LogLevel         string `validate:"oneof=trace debug info warn error"`
	MetricsNamespace string `validate:"required"`
	TotalBuckets     []float64

	DiscountItems []string `validate:"dive,required"`
	DiscountRate  string   `validate:"required,numeric"`
	Threshold     string   `validate:"required,numeric"`
	Reduction     string   `validate:"required,numeric"`
	ClampAtZero   bool

	VoucherCode       string
	VoucherKind       string `validate:"omitempty,oneof=fixed percent"`
	VoucherValue      string `validate:"omitempty,numeric"`
	VoucherPercentBps int32
	VoucherMinSpend   string `validate:"omitempty,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:           valueOrDefault(k.String("APP_ENV"), "development"),
		LogFormat:        strings.ToLower(valueOrDefault(k.String("OBS_LOG_FORMAT"), "json")),
		LogLevel:         strings.ToLower(valueOrDefault(k.String("OBS_LOG_LEVEL"), "info")),
		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "supermarket"),
		TotalBuckets:     obs.ParseBucketsCSV(k.String("OBS_TOTAL_BUCKETS")),
		DiscountItems:    splitAndTrim(valueOrDefault(k.String("PROMO_DISCOUNT_ITEMS"), "Strawberry")),
		DiscountRate:     strings.TrimSpace(valueOrDefault(k.String("PROMO_DISCOUNT_RATE"), "0.8")),
		Threshold:        strings.TrimSpace(valueOrDefault(k.String("PROMO_THRESHOLD"), "100.00")),
		Reduction:        strings.TrimSpace(valueOrDefault(k.String("PROMO_REDUCTION"), "10.00")),
		ClampAtZero:      parseBool(valueOrDefault(k.String("PRICING_CLAMP_AT_ZERO"), "true")),

		VoucherCode:       strings.TrimSpace(k.String("PROMO_VOUCHER_CODE")),
		VoucherKind:       strings.ToLower(valueOrDefault(k.String("PROMO_VOUCHER_KIND"), voucher.KindFixed)),
		VoucherValue:      strings.TrimSpace(k.String("PROMO_VOUCHER_VALUE")),
		VoucherPercentBps: int32(k.Int("PROMO_VOUCHER_PERCENT_BPS")),
		VoucherMinSpend:   strings.TrimSpace(k.String("PROMO_VOUCHER_MIN_SPEND")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field formats and promotion ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return common.NewAppError(common.CodeInvalidConfig, "validate config", err)
	}
	rate := decimal.RequireFromString(c.DiscountRate)
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return common.NewAppError(common.CodeInvalidConfig, "validate config", fmt.Errorf("PROMO_DISCOUNT_RATE %s outside [0, 1]", c.DiscountRate))
	}
	if decimal.RequireFromString(c.Threshold).IsNegative() {
		return common.NewAppError(common.CodeInvalidConfig, "validate config", errors.New("PROMO_THRESHOLD must not be negative"))
	}
	if decimal.RequireFromString(c.Reduction).IsNegative() {
		return common.NewAppError(common.CodeInvalidConfig, "validate config", errors.New("PROMO_REDUCTION must not be negative"))
	}
	if c.VoucherCode != "" {
		rule, err := c.Voucher()
		if err == nil {
			err = rule.Validate()
		}
		if err != nil {
			return common.NewAppError(common.CodeInvalidConfig, "validate config", err)
		}
	}
	return nil
}

// ItemDiscount builds the configured per-item promotion.
func (c *Config) ItemDiscount() (pricing.PercentageItemDiscount, error) {
	rate, err := decimal.NewFromString(c.DiscountRate)
	if err != nil {
		return pricing.PercentageItemDiscount{}, fmt.Errorf("parse discount rate: %w", err)
	}
	label := "item_discount"
	if len(c.DiscountItems) == 1 {
		label = strings.ToLower(c.DiscountItems[0]) + "_discount"
	}
	return pricing.NewPercentageItemDiscount(label, pricing.MatchNames(c.DiscountItems...), rate)
}

// ThresholdReduction builds the configured threshold reduction wrapping the item discount.
func (c *Config) ThresholdReduction() (pricing.ThresholdReduction, error) {
	base, err := c.ItemDiscount()
	if err != nil {
		return pricing.ThresholdReduction{}, err
	}
	threshold, err := decimal.NewFromString(c.Threshold)
	if err != nil {
		return pricing.ThresholdReduction{}, fmt.Errorf("parse threshold: %w", err)
	}
	amount, err := decimal.NewFromString(c.Reduction)
	if err != nil {
		return pricing.ThresholdReduction{}, fmt.Errorf("parse reduction: %w", err)
	}
	return pricing.NewThresholdReduction(base, threshold, amount)
}

// Voucher builds the configured voucher rule. Empty amounts default to zero.
func (c *Config) Voucher() (voucher.Rule, error) {
	value, err := decimalOrZero(c.VoucherValue)
	if err != nil {
		return voucher.Rule{}, fmt.Errorf("parse voucher value: %w", err)
	}
	minSpend, err := decimalOrZero(c.VoucherMinSpend)
	if err != nil {
		return voucher.Rule{}, fmt.Errorf("parse voucher min spend: %w", err)
	}
	return voucher.Rule{
		Code:       c.VoucherCode,
		Kind:       c.VoucherKind,
		Value:      value,
		PercentBps: c.VoucherPercentBps,
		MinSpend:   minSpend,
	}, nil
}

// Promotion builds the configured policy chain. When a voucher code is set the
// voucher runs after the threshold reduction on the same subtotal.
func (c *Config) Promotion() (pricing.Policy, error) {
	reduction, err := c.ThresholdReduction()
	if err != nil {
		return nil, err
	}
	if c.VoucherCode == "" {
		return reduction, nil
	}
	rule, err := c.Voucher()
	if err != nil {
		return nil, err
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return pricing.NewStack(reduction, rule), nil
}

func decimalOrZero(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
