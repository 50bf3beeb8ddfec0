// Package pricing implements the wholesale pricing policy: per-line bulk
// pricing from quantity three upward, with a computed fallback for products
// that carry no explicit bulk price.
package pricing

import "math"

// BulkQuantity is the per-line quantity at which the bulk price applies.
const BulkQuantity = 3

// BulkPrice is the fallback wholesale unit price for products without an
// explicit one: the retail price minus 100, rounded up to the next multiple
// of 100. Downstream totals depend on this exact formula; do not simplify.
func BulkPrice(price float64) float64 {
	return math.Ceil((price-100)/100) * 100
}

// Line is the priced form of one order line.
type Line struct {
	UnitPrice float64
	Subtotal  float64
	Saving    float64
}

// EffectiveUnitPrice returns the per-unit price for a line: the bulk price
// (explicit or computed) at BulkQuantity or more units, the retail price below.
func EffectiveUnitPrice(price float64, priceBulk *float64, quantity int) float64 {
	if quantity < BulkQuantity {
		return price
	}
	if priceBulk != nil {
		return *priceBulk
	}
	return BulkPrice(price)
}

// QuoteLine prices one order line. Saving is the difference against retail
// for the whole line, zero when bulk pricing does not apply.
func QuoteLine(price float64, priceBulk *float64, quantity int) Line {
	unit := EffectiveUnitPrice(price, priceBulk, quantity)
	line := Line{
		UnitPrice: unit,
		Subtotal:  unit * float64(quantity),
	}
	if quantity >= BulkQuantity {
		line.Saving = (price - unit) * float64(quantity)
	}
	return line
}
