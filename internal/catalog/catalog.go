package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Fruit names available in the default catalog.
const (
	NameApple      = "Apple"
	NameStrawberry = "Strawberry"
	NameMango      = "Mango"
)

// Apple returns the apple entry (8.00 per unit).
func Apple() Item { return MustItem(NameApple, "8.00") }

// Strawberry returns the strawberry entry (13.00 per unit).
func Strawberry() Item { return MustItem(NameStrawberry, "13.00") }

// Mango returns the mango entry (20.00 per unit).
func Mango() Item { return MustItem(NameMango, "20.00") }

// Catalog is a read-only registry of items keyed by identity.
type Catalog struct {
	items map[uuid.UUID]Item
}

// New builds a catalog from the provided items. Duplicate names are rejected.
func New(items ...Item) (*Catalog, error) {
	c := &Catalog{items: make(map[uuid.UUID]Item, len(items))}
	for _, it := range items {
		key := it.Key()
		if existing, ok := c.items[key]; ok {
			return nil, fmt.Errorf("%w: duplicate entry %s", ErrInvalidItem, existing.Name)
		}
		c.items[key] = it
	}
	return c, nil
}

// Default returns the fixed fruit catalog.
func Default() *Catalog {
	c, err := New(Apple(), Strawberry(), Mango())
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup finds an item by name.
func (c *Catalog) Lookup(name string) (Item, bool) {
	if c == nil || strings.TrimSpace(name) == "" {
		return Item{}, false
	}
	it, ok := c.items[IDFor(name)]
	return it, ok
}

// MustLookup behaves like Lookup but panics when the item is unknown.
func (c *Catalog) MustLookup(name string) Item {
	it, ok := c.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown item %q", name))
	}
	return it
}

// Contains reports whether the item is registered.
func (c *Catalog) Contains(item Item) bool {
	if c == nil {
		return false
	}
	_, ok := c.items[item.Key()]
	return ok
}

// Items lists the catalog entries ordered by name.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	result := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		result = append(result, it)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Len returns the number of registered items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}
