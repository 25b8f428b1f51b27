package market

import "github.com/shopspring/decimal"

// Candle is one OHLCV bar.
type Candle struct {
	Time   Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Range reports whether p lies within [Low, High].
func (c Candle) Range(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(c.Low) && p.LessThanOrEqual(c.High)
}
