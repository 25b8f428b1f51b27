package sim

import (
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Cursor is the market state of the bar being replayed. One cursor is shared
// by every session of a run and only the trader loop moves it.
type Cursor struct {
	ts    market.Time
	price decimal.Decimal
	scale int32
}

// NewCursor returns a cursor whose price conversions round to scale digits.
// A non-positive scale falls back to DefaultScale.
func NewCursor(scale int32) *Cursor {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Cursor{scale: scale}
}

func (c *Cursor) Set(ts market.Time, price decimal.Decimal) {
	c.ts = ts
	c.price = price
}

func (c *Cursor) Time() market.Time      { return c.ts }
func (c *Cursor) Price() decimal.Decimal { return c.price }
func (c *Cursor) Scale() int32           { return c.scale }

// WithPrice runs fn with the price temporarily replaced. The previous price
// is restored when fn returns, errors or panics.
func (c *Cursor) WithPrice(price decimal.Decimal, fn func() error) error {
	saved := c.price
	c.price = price
	defer func() { c.price = saved }()
	return fn()
}
