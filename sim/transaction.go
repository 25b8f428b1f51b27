package sim

import (
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry: the base and quote deltas of a single
// position change. Positive Base buys; Quote then goes negative.
type Transaction struct {
	Time  market.Time
	Base  decimal.Decimal
	Quote decimal.Decimal
}

// Price is |Quote / Base| at DefaultScale.
func (t Transaction) Price() decimal.Decimal {
	return t.PriceAt(DefaultScale)
}

// PriceAt is |Quote / Base| rounded to scale digits. Zero for an empty entry.
func (t Transaction) PriceAt(scale int32) decimal.Decimal {
	if t.Base.IsZero() {
		return decimal.Zero
	}
	return t.Quote.DivRound(t.Base, scale).Abs()
}
