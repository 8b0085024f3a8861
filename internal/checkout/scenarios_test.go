package checkout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/supermarket-pricing/internal/cart"
	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

func TestRunDefaultScenarios(t *testing.T) {
	scenarios, err := DefaultScenarios(nil)
	require.NoError(t, err)
	results, err := Run(scenarios)
	require.NoError(t, err)

	got := make(map[string]string, len(results))
	for _, r := range results {
		got[r.Customer] = r.Total()
	}
	require.Equal(t, map[string]string{"A": "55.00", "B": "75.00", "C": "67.20", "D": "122.00"}, got)
}

func TestRunStopsOnInvalidQuantity(t *testing.T) {
	scenarios := []Scenario{
		{Customer: "ok", Entries: []Entry{{catalog.Apple(), 1}}},
		{Customer: "bad", Entries: []Entry{{catalog.Apple(), 0}}},
		{Customer: "never", Entries: []Entry{{catalog.Mango(), 1}}},
	}
	results, err := Run(scenarios, cart.WithNegativeTotals(false))
	require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	require.Contains(t, err.Error(), "customer bad")
	require.Len(t, results, 1)
	require.Equal(t, "8.00", results[0].Total())
	require.Equal(t, pricing.NoPromotion{}.Name(), results[0].Summary.Policy)
}

func TestDefaultScenariosUseCatalogPrices(t *testing.T) {
	items, err := catalog.New(
		catalog.MustItem(catalog.NameApple, "1.00"),
		catalog.MustItem(catalog.NameStrawberry, "2.00"),
		catalog.MustItem(catalog.NameMango, "3.00"),
	)
	require.NoError(t, err)

	scenarios, err := DefaultScenarios(items)
	require.NoError(t, err)
	results, err := Run(scenarios[:1])
	require.NoError(t, err)
	// 2 x 1.00 + 3 x 2.00
	require.Equal(t, "8.00", results[0].Total())

	partial, err := catalog.New(catalog.Apple(), catalog.Strawberry())
	require.NoError(t, err)
	_, err = DefaultScenarios(partial)
	require.ErrorIs(t, err, catalog.ErrInvalidItem)
}
