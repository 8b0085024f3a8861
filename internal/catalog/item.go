package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when an item cannot be constructed from the provided values.
var ErrInvalidItem = errors.New("invalid item")

// itemNamespace seeds name-derived item identifiers.
var itemNamespace = uuid.MustParse("6f1c3c52-8d6a-4f47-9a57-3f0f2b7f4d10")

// Item is an immutable priceable catalog entry.
type Item struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
}

// NewItem builds an item from a display name and an exact decimal price such as "13.00".
func NewItem(name, unitPrice string) (Item, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(unitPrice))
	if err != nil {
		return Item{}, fmt.Errorf("%w: parse price %q: %v", ErrInvalidItem, unitPrice, err)
	}
	return NewItemFromDecimal(name, price)
}

// NewItemFromDecimal builds an item from an already parsed price.
func NewItemFromDecimal(name string, unitPrice decimal.Decimal) (Item, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if unitPrice.IsNegative() {
		return Item{}, fmt.Errorf("%w: negative price for %s", ErrInvalidItem, trimmed)
	}
	return Item{ID: IDFor(trimmed), Name: trimmed, UnitPrice: unitPrice}, nil
}

// MustItem behaves like NewItem but panics on error. Intended for fixed catalog entries.
func MustItem(name, unitPrice string) Item {
	item, err := NewItem(name, unitPrice)
	if err != nil {
		panic(err)
	}
	return item
}

// IDFor returns the stable identifier for an item name. Names are compared case-insensitively.
func IDFor(name string) uuid.UUID {
	return uuid.NewSHA1(itemNamespace, []byte(normalise(name)))
}

// Key identifies the cart line an item belongs to.
func (i Item) Key() uuid.UUID {
	if i.ID == uuid.Nil {
		return IDFor(i.Name)
	}
	return i.ID
}

// Same reports whether both values describe the same catalog item.
func (i Item) Same(other Item) bool {
	return i.Key() == other.Key()
}

// String implements fmt.Stringer.
func (i Item) String() string {
	return fmt.Sprintf("%s(%s)", i.Name, i.UnitPrice.StringFixed(2))
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
