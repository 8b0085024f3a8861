package catalog_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/supermarket-pricing/internal/catalog"
)

func TestNewItem(t *testing.T) {
	item, err := catalog.NewItem(" Apple ", "8.00")
	require.NoError(t, err)
	require.Equal(t, "Apple", item.Name)
	require.True(t, item.UnitPrice.Equal(decimal.RequireFromString("8")))
	require.Equal(t, "Apple(8.00)", item.String())

	_, err = catalog.NewItem("", "1.00")
	require.True(t, errors.Is(err, catalog.ErrInvalidItem))

	_, err = catalog.NewItem("Pear", "abc")
	require.True(t, errors.Is(err, catalog.ErrInvalidItem))

	_, err = catalog.NewItem("Pear", "-1.00")
	require.True(t, errors.Is(err, catalog.ErrInvalidItem))
}

func TestItemIdentityIsValueBased(t *testing.T) {
	a := catalog.Apple()
	b := catalog.MustItem("apple", "8.00")
	require.Equal(t, a.Key(), b.Key())
	require.True(t, a.Same(b))
	require.False(t, a.Same(catalog.Mango()))

	zero := catalog.Item{Name: "Apple"}
	require.Equal(t, a.Key(), zero.Key())
}

func TestDefaultCatalog(t *testing.T) {
	c := catalog.Default()
	require.Equal(t, 3, c.Len())

	items := c.Items()
	require.Equal(t, []string{"Apple", "Mango", "Strawberry"}, []string{items[0].Name, items[1].Name, items[2].Name})

	strawberry, ok := c.Lookup("STRAWBERRY")
	require.True(t, ok)
	require.Equal(t, "13.00", strawberry.UnitPrice.StringFixed(2))
	require.Equal(t, "20.00", c.MustLookup("Mango").UnitPrice.StringFixed(2))

	_, ok = c.Lookup("Durian")
	require.False(t, ok)
	require.Panics(t, func() { c.MustLookup("Durian") })
	require.True(t, c.Contains(catalog.Apple()))
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := catalog.New(catalog.Apple(), catalog.MustItem("APPLE", "9.00"))
	require.ErrorIs(t, err, catalog.ErrInvalidItem)
}
