package sim

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Sessions keeps sessions in the order they were opened.
type Sessions []*Session

// Open returns the sessions that still carry a position, in order.
func (ss Sessions) Open() Sessions {
	var out Sessions
	for _, s := range ss {
		if s.IsOpen() {
			out = append(out, s)
		}
	}
	return out
}

// Closed returns the flat sessions, in order.
func (ss Sessions) Closed() Sessions {
	var out Sessions
	for _, s := range ss {
		if s.IsClosed() {
			out = append(out, s)
		}
	}
	return out
}

// NearestBrackets scans the brackets of every open session and returns the
// closest level below price and the closest above it. Long sessions put
// their stop loss below and take profit above; short sessions the reverse.
func (ss Sessions) NearestBrackets(price decimal.Decimal) (lower, upper decimal.NullDecimal) {
	consider := func(level decimal.NullDecimal) {
		if !level.Valid {
			return
		}
		switch {
		case level.Decimal.LessThan(price):
			if !lower.Valid || level.Decimal.GreaterThan(lower.Decimal) {
				lower = level
			}
		case level.Decimal.GreaterThan(price):
			if !upper.Valid || level.Decimal.LessThan(upper.Decimal) {
				upper = level
			}
		}
	}
	for _, s := range ss.Open() {
		consider(s.stopLoss)
		consider(s.takeProfit)
	}
	return lower, upper
}

// Transactions merges the ledgers of all closed sessions by time. Equal
// timestamps keep session order, then transaction order.
func (ss Sessions) Transactions() []Transaction {
	var out []Transaction
	for _, s := range ss.Closed() {
		out = append(out, s.transactions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}
