package indicators

import (
	"fmt"

	"github.com/rustyeddy/backtester/frame"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// adx carries Wilder's directional movement state between bars.
type adx struct {
	n      decimal.Decimal
	period int
	scale  int32

	periods                  int
	sumTR, sumPlus, sumMinus decimal.Decimal
	dxSum                    decimal.Decimal
	dxCount                  int
	value                    decimal.Decimal
	ready                    bool
}

// ADX adds Wilder's average directional index (0..100) of f's bars as name.
// It takes period bars to seed the smoothed ranges and period more DX values
// to seed the average, so the first 2*period-1 rows are null.
func ADX(f *frame.Frame, name string, period int, scale int32) error {
	if period <= 0 {
		return fmt.Errorf("adx: period must be positive, got %d", period)
	}
	high, ok1 := f.Column(frame.High)
	low, ok2 := f.Column(frame.Low)
	closes, ok3 := f.Column(frame.Close)
	if !ok1 || !ok2 || !ok3 {
		return errMissing("high/low/close")
	}

	a := &adx{n: decimal.NewFromInt(int64(period)), period: period, scale: scaleOrDefault(scale)}
	out := frame.NewDecimal(name, f.Len())
	for i := 1; i < f.Len(); i++ {
		h, _ := high.Decimal(i)
		l, _ := low.Decimal(i)
		ph, _ := high.Decimal(i - 1)
		pl, _ := low.Decimal(i - 1)
		pc, _ := closes.Decimal(i - 1)

		if a.update(h, l, ph, pl, pc) {
			out.SetDecimal(i, a.value)
		}
	}
	return f.Add(out)
}

// update consumes one bar and reports whether the index is ready.
func (a *adx) update(h, l, ph, pl, pc decimal.Decimal) bool {
	tr := trueRange(h, l, pc)
	up := h.Sub(ph)
	down := pl.Sub(l)
	plusDM, minusDM := decimal.Zero, decimal.Zero
	if up.GreaterThan(down) && up.IsPositive() {
		plusDM = up
	}
	if down.GreaterThan(up) && down.IsPositive() {
		minusDM = down
	}

	a.periods++
	if a.periods < a.period {
		a.sumTR = a.sumTR.Add(tr)
		a.sumPlus = a.sumPlus.Add(plusDM)
		a.sumMinus = a.sumMinus.Add(minusDM)
		return false
	}
	if a.periods == a.period {
		a.sumTR = a.sumTR.Add(tr)
		a.sumPlus = a.sumPlus.Add(plusDM)
		a.sumMinus = a.sumMinus.Add(minusDM)
	} else {
		// smoothed = prior - prior/N + current
		a.sumTR = a.sumTR.Sub(a.sumTR.DivRound(a.n, a.scale)).Add(tr)
		a.sumPlus = a.sumPlus.Sub(a.sumPlus.DivRound(a.n, a.scale)).Add(plusDM)
		a.sumMinus = a.sumMinus.Sub(a.sumMinus.DivRound(a.n, a.scale)).Add(minusDM)
	}
	dx := a.dx()

	if a.ready {
		a.value = a.value.Mul(a.n.Sub(decimal.NewFromInt(1))).Add(dx).DivRound(a.n, a.scale)
		return true
	}
	a.dxSum = a.dxSum.Add(dx)
	a.dxCount++
	if a.dxCount < a.period {
		return false
	}
	a.value = a.dxSum.DivRound(a.n, a.scale)
	a.ready = true
	return true
}

// dx is 100 * |+DI - -DI| / (+DI + -DI), zero on a flat market.
func (a *adx) dx() decimal.Decimal {
	if !a.sumTR.IsPositive() {
		return decimal.Zero
	}
	plus := hundred.Mul(a.sumPlus).DivRound(a.sumTR, a.scale)
	minus := hundred.Mul(a.sumMinus).DivRound(a.sumTR, a.scale)
	den := plus.Add(minus)
	if !den.IsPositive() {
		return decimal.Zero
	}
	return hundred.Mul(plus.Sub(minus).Abs()).DivRound(den, a.scale)
}
