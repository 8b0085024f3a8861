package voucher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

// Voucher kinds.
const (
	KindFixed   = "fixed"
	KindPercent = "percent"
)

var (
	// ErrInvalidRule is returned when a voucher rule cannot be applied to any subtotal.
	ErrInvalidRule = errors.New("invalid voucher rule")
	// ErrMinimumSpendUnmet indicates the subtotal did not meet the voucher requirement.
	ErrMinimumSpendUnmet = errors.New("voucher minimum spend not met")
)

var bpsScale = decimal.NewFromInt(10000)

// Rule is a whole-cart voucher layered over a base policy.
type Rule struct {
	Code       string
	Kind       string
	Value      decimal.Decimal
	PercentBps int32
	MinSpend   decimal.Decimal
	Base       pricing.Policy
}

// Validate checks the rule shape.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidRule)
	}
	switch strings.ToLower(r.Kind) {
	case KindFixed:
		if r.Value.IsNegative() {
			return fmt.Errorf("%w: negative value", ErrInvalidRule)
		}
	case KindPercent:
		if r.PercentBps <= 0 || r.PercentBps > 10000 {
			return fmt.Errorf("%w: percent %d bps outside (0, 10000]", ErrInvalidRule, r.PercentBps)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
	if r.MinSpend.IsNegative() {
		return fmt.Errorf("%w: negative minimum spend", ErrInvalidRule)
	}
	return nil
}

// Eligible reports whether the rule applies to subtotal.
func (r Rule) Eligible(subtotal decimal.Decimal) error {
	if subtotal.LessThan(r.MinSpend) {
		return ErrMinimumSpendUnmet
	}
	return nil
}

// Compute determines the discount amount for subtotal. The discount never exceeds the subtotal.
func (r Rule) Compute(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || r.Eligible(subtotal) != nil {
		return decimal.Zero
	}
	discount := r.Value
	if strings.EqualFold(r.Kind, KindPercent) {
		if r.PercentBps <= 0 {
			return decimal.Zero
		}
		discount = subtotal.Mul(decimal.NewFromInt32(r.PercentBps)).Div(bpsScale)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

// Name implements pricing.Policy.
func (r Rule) Name() string {
	return "voucher_" + strings.ToLower(r.Code) + "(" + pricing.OrDefault(r.Base).Name() + ")"
}

// UnitPrice implements pricing.Policy by delegating to the base policy.
func (r Rule) UnitPrice(item catalog.Item) decimal.Decimal {
	return pricing.OrDefault(r.Base).UnitPrice(item)
}

// AdjustSubtotal implements pricing.Policy.
func (r Rule) AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(r.Compute(subtotal))
}
