package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type unit uint8

const (
	unitBase unit = iota
	unitQuote
	unitPercent
)

func (u unit) String() string {
	switch u {
	case unitBase:
		return "base"
	case unitQuote:
		return "quote"
	case unitPercent:
		return "percent"
	default:
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
}

// Quantity is an amount tagged with how a Position should read it.
// Conversion errors are carried until the quantity is used.
type Quantity struct {
	unit  unit
	value decimal.Decimal
	err   error
}

// Base is an amount of the traded asset.
func Base(v any) Quantity { return newQuantity(unitBase, v) }

// Quote is an amount of the pricing asset, converted at the cursor price.
func Quote(v any) Quantity { return newQuantity(unitQuote, v) }

// Percent is a share of the current position, or as a bracket an offset
// from the cursor price.
func Percent(v any) Quantity { return newQuantity(unitPercent, v) }

func newQuantity(u unit, v any) Quantity {
	d, err := ToDecimal(v)
	return Quantity{unit: u, value: d, err: err}
}

func (q Quantity) Value() decimal.Decimal { return q.value }

func (q Quantity) String() string {
	return q.value.String() + " " + q.unit.String()
}

// asQuantity treats anything that is not already a Quantity as base units.
func asQuantity(v any) (Quantity, error) {
	q, ok := v.(Quantity)
	if !ok {
		q = Base(v)
	}
	if q.err != nil {
		return Quantity{}, q.err
	}
	return q, nil
}
