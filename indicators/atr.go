package indicators

import (
	"fmt"

	"github.com/rustyeddy/backtester/frame"
	"github.com/shopspring/decimal"
)

// ATR adds the Wilder-smoothed average true range of f's bars as name. The
// first period rows are null: true range needs a previous close.
func ATR(f *frame.Frame, name string, period int, scale int32) error {
	if period <= 0 {
		return fmt.Errorf("atr: period must be positive, got %d", period)
	}
	scale = scaleOrDefault(scale)

	high, ok1 := f.Column(frame.High)
	low, ok2 := f.Column(frame.Low)
	closes, ok3 := f.Column(frame.Close)
	if !ok1 || !ok2 || !ok3 {
		return errMissing("high/low/close")
	}

	p := decimal.NewFromInt(int64(period))
	out := frame.NewDecimal(name, f.Len())
	var atr, sum decimal.Decimal
	count := 0
	for i := 1; i < f.Len(); i++ {
		h, _ := high.Decimal(i)
		l, _ := low.Decimal(i)
		prev, _ := closes.Decimal(i - 1)
		tr := trueRange(h, l, prev)

		if count < period {
			sum = sum.Add(tr)
			count++
			if count < period {
				continue
			}
			atr = sum.DivRound(p, scale)
		} else {
			atr = atr.Mul(p.Sub(decimal.NewFromInt(1))).Add(tr).DivRound(p, scale)
		}
		out.SetDecimal(i, atr)
	}
	return f.Add(out)
}

func trueRange(high, low, prevClose decimal.Decimal) decimal.Decimal {
	return decimal.Max(high.Sub(low), high.Sub(prevClose).Abs(), low.Sub(prevClose).Abs())
}
