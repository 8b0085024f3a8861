package checkout

import (
	"fmt"

	"github.com/noah-isme/supermarket-pricing/internal/cart"
	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

// Entry is one add item call.
type Entry struct {
	Item catalog.Item
	Qty  int
}

// Scenario describes a customer checkout.
type Scenario struct {
	Customer string
	Policy   pricing.Policy
	Entries  []Entry
}

// Result is the priced outcome of a scenario.
type Result struct {
	Customer string
	Summary  pricing.Summary
}

// Total returns the formatted total, e.g. "67.20".
func (r Result) Total() string {
	return pricing.Format(r.Summary.Total)
}

// DefaultScenarios returns the four reference customers priced from items.
// A nil catalog falls back to catalog.Default.
func DefaultScenarios(items *catalog.Catalog) ([]Scenario, error) {
	if items == nil {
		items = catalog.Default()
	}
	apple, ok := items.Lookup(catalog.NameApple)
	if !ok {
		return nil, fmt.Errorf("%w: %s not in catalog", catalog.ErrInvalidItem, catalog.NameApple)
	}
	strawberry, ok := items.Lookup(catalog.NameStrawberry)
	if !ok {
		return nil, fmt.Errorf("%w: %s not in catalog", catalog.ErrInvalidItem, catalog.NameStrawberry)
	}
	mango, ok := items.Lookup(catalog.NameMango)
	if !ok {
		return nil, fmt.Errorf("%w: %s not in catalog", catalog.ErrInvalidItem, catalog.NameMango)
	}
	return []Scenario{
		{Customer: "A", Policy: pricing.NoPromotion{}, Entries: []Entry{{apple, 2}, {strawberry, 3}}},
		{Customer: "B", Policy: pricing.NoPromotion{}, Entries: []Entry{{apple, 2}, {strawberry, 3}, {mango, 1}}},
		{Customer: "C", Policy: pricing.StrawberryDiscount(), Entries: []Entry{{apple, 2}, {strawberry, 3}, {mango, 1}}},
		{Customer: "D", Policy: pricing.FullReduction(pricing.StrawberryDiscount()), Entries: []Entry{{apple, 5}, {strawberry, 5}, {mango, 2}}},
	}, nil
}

// Run prices each scenario in a fresh cart built with opts.
func Run(scenarios []Scenario, opts ...cart.Option) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		c := cart.New(sc.Policy, opts...)
		for _, e := range sc.Entries {
			if err := c.AddItem(e.Item, e.Qty); err != nil {
				return results, fmt.Errorf("customer %s: %w", sc.Customer, err)
			}
		}
		results = append(results, Result{Customer: sc.Customer, Summary: c.Summary()})
	}
	return results, nil
}
