package indicators

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SMA is a streaming simple moving average.
type SMA struct {
	period int
	scale  int32
	window []decimal.Decimal
	sum    decimal.Decimal
}

// NewSMA returns an SMA over period values whose mean is rounded to scale
// digits (0 picks the ledger default).
func NewSMA(period int, scale int32) *SMA {
	return &SMA{
		period: period,
		scale:  scaleOrDefault(scale),
		window: make([]decimal.Decimal, 0, period),
	}
}

func (m *SMA) Name() string { return fmt.Sprintf("SMA(%d)", m.period) }
func (m *SMA) Warmup() int  { return m.period }

func (m *SMA) Reset() {
	m.window = m.window[:0]
	m.sum = decimal.Zero
}

func (m *SMA) Update(v decimal.Decimal) {
	m.window = append(m.window, v)
	m.sum = m.sum.Add(v)
	if len(m.window) > m.period {
		m.sum = m.sum.Sub(m.window[0])
		m.window = m.window[1:]
	}
}

func (m *SMA) Ready() bool { return m.period > 0 && len(m.window) >= m.period }

func (m *SMA) Value() decimal.Decimal {
	if !m.Ready() {
		return decimal.Zero
	}
	return m.sum.DivRound(decimal.NewFromInt(int64(m.period)), m.scale)
}

// EMA is a streaming exponential moving average seeded with the SMA of the
// first period values.
type EMA struct {
	period     int
	scale      int32
	multiplier decimal.Decimal
	ema        decimal.Decimal
	count      int
	warmupSum  decimal.Decimal
}

func NewEMA(period int, scale int32) *EMA {
	scale = scaleOrDefault(scale)
	return &EMA{
		period:     period,
		scale:      scale,
		multiplier: decimal.NewFromInt(2).DivRound(decimal.NewFromInt(int64(period+1)), scale),
	}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }
func (e *EMA) Warmup() int  { return e.period }

func (e *EMA) Reset() {
	e.ema = decimal.Zero
	e.count = 0
	e.warmupSum = decimal.Zero
}

func (e *EMA) Update(v decimal.Decimal) {
	if e.count < e.period {
		e.warmupSum = e.warmupSum.Add(v)
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum.DivRound(decimal.NewFromInt(int64(e.period)), e.scale)
		}
		return
	}
	e.ema = v.Sub(e.ema).Mul(e.multiplier).Add(e.ema).Round(e.scale)
}

func (e *EMA) Ready() bool { return e.period > 0 && e.count >= e.period }

func (e *EMA) Value() decimal.Decimal {
	if !e.Ready() {
		return decimal.Zero
	}
	return e.ema
}
