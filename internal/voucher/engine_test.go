package voucher

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/cart"
	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

func TestComputePercent(t *testing.T) {
	rule := Rule{Code: "SAVE20", Kind: KindPercent, PercentBps: 2000}
	discount := rule.Compute(dec("100.00"))
	if !discount.Equal(dec("20")) {
		t.Fatalf("expected 20.00 discount, got %s", discount)
	}
}

func TestComputeFixedCappedAtSubtotal(t *testing.T) {
	rule := Rule{Code: "FLAT", Kind: KindFixed, Value: dec("50")}
	if got := rule.Compute(dec("30")); !got.Equal(dec("30")) {
		t.Fatalf("expected discount capped at 30, got %s", got)
	}
	if got := rule.AdjustSubtotal(dec("30")); !got.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", got)
	}
}

func TestMinimumSpend(t *testing.T) {
	rule := Rule{Code: "MIN", Kind: KindFixed, Value: dec("5"), MinSpend: dec("60")}
	if err := rule.Eligible(dec("59.99")); !errors.Is(err, ErrMinimumSpendUnmet) {
		t.Fatalf("expected ErrMinimumSpendUnmet, got %v", err)
	}
	if got := rule.AdjustSubtotal(dec("59.99")); !got.Equal(dec("59.99")) {
		t.Fatalf("expected unchanged subtotal, got %s", got)
	}
	if got := rule.AdjustSubtotal(dec("60")); !got.Equal(dec("55")) {
		t.Fatalf("expected 55, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	bad := []Rule{
		{Kind: KindFixed},
		{Code: "X", Kind: "bogus"},
		{Code: "X", Kind: KindPercent, PercentBps: 0},
		{Code: "X", Kind: KindPercent, PercentBps: 10001},
		{Code: "X", Kind: KindFixed, Value: dec("-1")},
		{Code: "X", Kind: KindFixed, MinSpend: dec("-1")},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, ErrInvalidRule) {
			t.Fatalf("expected ErrInvalidRule for %+v, got %v", r, err)
		}
	}
	if err := (Rule{Code: "OK", Kind: "Percent", PercentBps: 500}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVoucherInCart(t *testing.T) {
	rule := Rule{Code: "Fruit10", Kind: KindPercent, PercentBps: 1000, Base: pricing.StrawberryDiscount()}
	c := cart.New(rule)
	if err := c.AddItem(catalog.Apple(), 2); err != nil {
		t.Fatal(err)
	}
	if err := c.AddItem(catalog.Strawberry(), 3); err != nil {
		t.Fatal(err)
	}
	// 16.00 + 31.20 = 47.20, less 10% = 42.48
	if got := c.FormattedTotal(); got != "42.48" {
		t.Fatalf("expected 42.48, got %s", got)
	}
	if rule.Name() != "voucher_fruit10(strawberry_discount)" {
		t.Fatalf("unexpected name %s", rule.Name())
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
