package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/catalog"
)

// ErrInvalidPolicy is returned when a policy is constructed with out of range parameters.
var ErrInvalidPolicy = errors.New("invalid pricing policy")

var (
	// StrawberryRate is the default strawberry promotion multiplier (20% off).
	StrawberryRate = decimal.RequireFromString("0.8")
	// FullReductionThreshold is the subtotal from which the flat reduction applies.
	FullReductionThreshold = decimal.RequireFromString("100.00")
	// FullReductionAmount is subtracted once the threshold is reached.
	FullReductionAmount = decimal.RequireFromString("10.00")
)

// Policy owns all discount logic applied to a cart.
//
// UnitPrice returns the discounted price of a single unit and must return
// item.UnitPrice unchanged for items the policy does not target. AdjustSubtotal
// applies a whole-cart rule and must return subtotal unchanged when the rule
// does not apply. Implementations are immutable so one value can be shared by
// any number of carts.
type Policy interface {
	Name() string
	UnitPrice(item catalog.Item) decimal.Decimal
	AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal
}

// Matcher selects the items a promotion targets.
type Matcher func(item catalog.Item) bool

// MatchItem targets a single item by identity.
func MatchItem(target catalog.Item) Matcher {
	key := target.Key()
	return func(item catalog.Item) bool {
		return item.Key() == key
	}
}

// MatchNames targets every item whose name is listed. Names that are not in
// any catalog never match.
func MatchNames(names ...string) Matcher {
	keys := make(map[uuid.UUID]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		keys[catalog.IDFor(trimmed)] = struct{}{}
	}
	return func(item catalog.Item) bool {
		_, ok := keys[item.Key()]
		return ok
	}
}

// NoPromotion charges list price.
type NoPromotion struct{}

// Name implements Policy.
func (NoPromotion) Name() string { return "no_promotion" }

// UnitPrice implements Policy.
func (NoPromotion) UnitPrice(item catalog.Item) decimal.Decimal { return item.UnitPrice }

// AdjustSubtotal implements Policy.
func (NoPromotion) AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal { return subtotal }

// PercentageItemDiscount multiplies the unit price of matching items by Rate.
type PercentageItemDiscount struct {
	Label string
	Match Matcher
	Rate  decimal.Decimal
}

// NewPercentageItemDiscount validates the rate (0 <= rate <= 1) and builds the policy.
func NewPercentageItemDiscount(label string, match Matcher, rate decimal.Decimal) (PercentageItemDiscount, error) {
	if match == nil {
		return PercentageItemDiscount{}, fmt.Errorf("%w: matcher is required", ErrInvalidPolicy)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return PercentageItemDiscount{}, fmt.Errorf("%w: rate %s outside [0, 1]", ErrInvalidPolicy, rate)
	}
	return PercentageItemDiscount{Label: label, Match: match, Rate: rate}, nil
}

// StrawberryDiscount is the 20% strawberry promotion.
func StrawberryDiscount() PercentageItemDiscount {
	return PercentageItemDiscount{
		Label: "strawberry_discount",
		Match: MatchNames(catalog.NameStrawberry),
		Rate:  StrawberryRate,
	}
}

// Name implements Policy.
func (p PercentageItemDiscount) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return "percentage_item_discount"
}

// UnitPrice implements Policy.
func (p PercentageItemDiscount) UnitPrice(item catalog.Item) decimal.Decimal {
	if p.Match == nil || !p.Match(item) {
		return item.UnitPrice
	}
	return item.UnitPrice.Mul(p.Rate)
}

// AdjustSubtotal implements Policy.
func (PercentageItemDiscount) AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal
}

// ThresholdReduction wraps a base policy and subtracts Amount from subtotals of at least Threshold.
type ThresholdReduction struct {
	Base      Policy
	Threshold decimal.Decimal
	Amount    decimal.Decimal
}

// NewThresholdReduction validates threshold and amount before building the decorator.
func NewThresholdReduction(base Policy, threshold, amount decimal.Decimal) (ThresholdReduction, error) {
	if threshold.IsNegative() || amount.IsNegative() {
		return ThresholdReduction{}, fmt.Errorf("%w: threshold %s and amount %s must not be negative", ErrInvalidPolicy, threshold, amount)
	}
	return ThresholdReduction{Base: base, Threshold: threshold, Amount: amount}, nil
}

// FullReduction takes 10.00 off subtotals of 100.00 or more on top of base.
func FullReduction(base Policy) ThresholdReduction {
	return ThresholdReduction{Base: base, Threshold: FullReductionThreshold, Amount: FullReductionAmount}
}

// Name implements Policy.
func (p ThresholdReduction) Name() string {
	return "threshold_reduction(" + p.base().Name() + ")"
}

// UnitPrice implements Policy by delegating to the wrapped policy.
func (p ThresholdReduction) UnitPrice(item catalog.Item) decimal.Decimal {
	return p.base().UnitPrice(item)
}

// AdjustSubtotal implements Policy. The wrapped policy's adjustment is not applied.
func (p ThresholdReduction) AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.Threshold) {
		return subtotal.Sub(p.Amount)
	}
	return subtotal
}

func (p ThresholdReduction) base() Policy {
	if p.Base == nil {
		return NoPromotion{}
	}
	return p.Base
}

// Stack composes adjustments additively: unit prices come from Base, then the
// subtotal runs through Base and every adjuster in order.
type Stack struct {
	Base      Policy
	Adjusters []Policy
}

// NewStack builds a Stack policy.
func NewStack(base Policy, adjusters ...Policy) Stack {
	return Stack{Base: base, Adjusters: adjusters}
}

// Name implements Policy.
func (s Stack) Name() string {
	names := make([]string, 0, len(s.Adjusters)+1)
	names = append(names, s.base().Name())
	for _, adj := range s.Adjusters {
		if adj != nil {
			names = append(names, adj.Name())
		}
	}
	return "stack(" + strings.Join(names, ",") + ")"
}

// UnitPrice implements Policy.
func (s Stack) UnitPrice(item catalog.Item) decimal.Decimal {
	return s.base().UnitPrice(item)
}

// AdjustSubtotal implements Policy.
func (s Stack) AdjustSubtotal(subtotal decimal.Decimal) decimal.Decimal {
	adjusted := s.base().AdjustSubtotal(subtotal)
	for _, adj := range s.Adjusters {
		if adj == nil {
			continue
		}
		adjusted = adj.AdjustSubtotal(adjusted)
	}
	return adjusted
}

func (s Stack) base() Policy {
	if s.Base == nil {
		return NoPromotion{}
	}
	return s.Base
}

// OrDefault returns NoPromotion when p is nil.
func OrDefault(p Policy) Policy {
	if p == nil {
		return NoPromotion{}
	}
	return p
}
