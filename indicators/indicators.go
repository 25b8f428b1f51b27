// Package indicators computes technical indicators over frame columns.
// Values are decimals; rows before an indicator is ready are left null so the
// trader's warm-up trim can drop them.
package indicators

import (
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

// Indicator computes a single streaming value from a series.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() is true.
	Warmup() int

	Reset()
	Update(v decimal.Decimal)
	Ready() bool

	// Value is zero until Ready.
	Value() decimal.Decimal
}

func scaleOrDefault(scale int32) int32 {
	if scale <= 0 {
		return sim.DefaultScale
	}
	return scale
}

// Column feeds src through ind and returns the result as a new decimal
// column. Null source rows stay null and are not fed to the indicator.
func Column(name string, src *frame.Column, ind Indicator) *frame.Column {
	ind.Reset()
	out := frame.NewDecimal(name, src.Len())
	for i := 0; i < src.Len(); i++ {
		v, ok := src.Decimal(i)
		if !ok {
			continue
		}
		ind.Update(v)
		if ind.Ready() {
			out.SetDecimal(i, ind.Value())
		}
	}
	return out
}

// Add computes ind over the src column of f and adds it as name.
func Add(f *frame.Frame, name, src string, ind Indicator) error {
	c, ok := f.Column(src)
	if !ok {
		return errMissing(src)
	}
	return f.Add(Column(name, c, ind))
}
