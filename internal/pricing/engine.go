package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/supermarket-pricing/internal/catalog"
)

// Places is the number of decimal digits kept in a total.
const Places = 2

// Line is one (item, quantity) aggregation used for pricing calculation.
type Line struct {
	Item catalog.Item
	Qty  int
}

// LineTotal is the priced form of a Line.
type LineTotal struct {
	Item      catalog.Item
	Qty       int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Summary aggregates computed pricing components.
type Summary struct {
	Policy     string
	Lines      []LineTotal
	Subtotal   decimal.Decimal
	Adjustment decimal.Decimal
	Total      decimal.Decimal
}

// Engine applies a policy to a set of lines.
type Engine struct {
	// AllowNegative disables the floor at zero on the adjusted total.
	AllowNegative bool
}

// Compute prices lines under policy with the default engine (totals floored at zero).
func Compute(lines []Line, policy Policy) Summary {
	return Engine{}.Compute(lines, policy)
}

// Compute calculates the cart breakdown. Lines with a non-positive quantity are ignored.
func (e Engine) Compute(lines []Line, policy Policy) Summary {
	policy = OrDefault(policy)

	priced := make([]LineTotal, 0, len(lines))
	subtotal := decimal.Zero
	for _, ln := range lines {
		if ln.Qty <= 0 {
			continue
		}
		unit := policy.UnitPrice(ln.Item)
		total := unit.Mul(decimal.NewFromInt(int64(ln.Qty)))
		subtotal = subtotal.Add(total)
		priced = append(priced, LineTotal{Item: ln.Item, Qty: ln.Qty, UnitPrice: unit, Total: total})
	}
	sort.Slice(priced, func(i, j int) bool { return priced[i].Item.Name < priced[j].Item.Name })

	adjusted := policy.AdjustSubtotal(subtotal)
	if !e.AllowNegative {
		adjusted = Clamp(adjusted)
	}
	total := Round(adjusted)

	return Summary{
		Policy:     policy.Name(),
		Lines:      priced,
		Subtotal:   subtotal,
		Adjustment: subtotal.Sub(adjusted),
		Total:      total,
	}
}

// Round rounds d to two decimal places, halves rounding away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders d as a fixed-point string with exactly two decimals, e.g. "33.60".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Clamp floors d at zero.
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
