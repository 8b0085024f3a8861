package cart

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/catalog"
	"github.com/noah-isme/supermarket-pricing/internal/common"
	"github.com/noah-isme/supermarket-pricing/internal/pricing"
)

// ErrInvalidQuantity is returned when AddItem receives a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Recorder receives pricing events. *obs.PricingMetrics satisfies it.
type Recorder interface {
	ObserveTotal(policy string, total float64)
	ItemAdded(qty int)
	ItemRejected(reason string)
}

// Line is a single cart line.
type Line = pricing.Line

// Cart aggregates item quantities under a shared pricing policy.
//
// A Cart is not safe for concurrent mutation; callers sharing one across
// goroutines must guard AddItem themselves. The policy is only read.
type Cart struct {
	policy   pricing.Policy
	engine   pricing.Engine
	lines    map[uuid.UUID]*Line
	logger   zerolog.Logger
	recorder Recorder
}

// Option customises a Cart.
type Option func(*Cart)

// WithLogger attaches a logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cart) { c.logger = logger }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Cart) { c.recorder = r }
}

// WithNegativeTotals disables the floor at zero applied to adjusted totals.
func WithNegativeTotals(allow bool) Option {
	return func(c *Cart) { c.engine.AllowNegative = allow }
}

// New returns an empty cart bound to policy. A nil policy charges list price.
func New(policy pricing.Policy, opts ...Option) *Cart {
	c := &Cart{
		policy: pricing.OrDefault(policy),
		lines:  make(map[uuid.UUID]*Line),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Policy returns the bound policy.
func (c *Cart) Policy() pricing.Policy { return c.policy }

// AddItem adds qty units of item, merging with an existing line for the same item.
func (c *Cart) AddItem(item catalog.Item, qty int) error {
	if qty < 1 {
		c.reject("invalid_quantity")
		return common.NewAppError(common.CodeInvalidQuantity, fmt.Sprintf("add %s x%d", item.Name, qty), ErrInvalidQuantity).
			WithDetails(map[string]any{"item": item.Name, "quantity": qty})
	}
	if item.Name == "" {
		c.reject("invalid_item")
		return common.NewAppError(common.CodeInvalidItem, "add item", catalog.ErrInvalidItem)
	}

	key := item.Key()
	if ln, ok := c.lines[key]; ok {
		if ln.Qty > math.MaxInt-qty {
			c.reject("quantity_overflow")
			return common.NewAppError(common.CodeInvalidQuantity, fmt.Sprintf("add %s x%d", item.Name, qty), ErrInvalidQuantity).
				WithDetails(map[string]any{"item": item.Name, "quantity": qty, "line_quantity": ln.Qty})
		}
		ln.Qty += qty
	} else {
		c.lines[key] = &Line{Item: item, Qty: qty}
	}
	if c.recorder != nil {
		c.recorder.ItemAdded(qty)
	}
	c.logger.Debug().Str("item", item.Name).Int("quantity", qty).Int("line_quantity", c.lines[key].Qty).Msg("cart_add_item")
	return nil
}

// Quantity returns the accumulated quantity for item.
func (c *Cart) Quantity(item catalog.Item) int {
	if ln, ok := c.lines[item.Key()]; ok {
		return ln.Qty
	}
	return 0
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int { return len(c.lines) }

// Lines returns a copy of the cart lines ordered by item name.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.lines))
	for _, ln := range c.lines {
		out = append(out, *ln)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Name < out[j].Item.Name })
	return out
}

// Summary prices the cart and returns the full breakdown without mutating it.
func (c *Cart) Summary() pricing.Summary {
	summary := c.engine.Compute(c.Lines(), c.policy)
	if c.recorder != nil {
		total, _ := summary.Total.Float64()
		c.recorder.ObserveTotal(summary.Policy, total)
	}
	c.logger.Debug().
		Str("policy", summary.Policy).
		Int("lines", len(summary.Lines)).
		Str("subtotal", pricing.Format(summary.Subtotal)).
		Str("adjustment", pricing.Format(summary.Adjustment)).
		Str("total", pricing.Format(summary.Total)).
		Msg("cart_total")
	return summary
}

// CalculateTotal returns the rounded total after unit discounts and the cart adjustment.
func (c *Cart) CalculateTotal() decimal.Decimal {
	return c.Summary().Total
}

// FormattedTotal returns CalculateTotal as a two-decimal string such as "33.60".
func (c *Cart) FormattedTotal() string {
	return pricing.Format(c.CalculateTotal())
}

func (c *Cart) reject(reason string) {
	if c.recorder != nil {
		c.recorder.ItemRejected(reason)
	}
	c.logger.Debug().Str("reason", reason).Msg("cart_add_item_rejected")
}
