package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Commission prices the fee for one transaction in quote units.
type Commission interface {
	For(t Transaction) decimal.Decimal
}

// SimpleCommission charges a flat rate of the traded quote amount.
type SimpleCommission struct {
	Rate decimal.Decimal
}

// NewSimpleCommission accepts a rate as a decimal, integer or string
// ("0.001"), or as Percent("0.1") which is divided by 100.
func NewSimpleCommission(v any) (SimpleCommission, error) {
	if q, ok := v.(Quantity); ok {
		if q.err != nil {
			return SimpleCommission{}, q.err
		}
		if q.unit != unitPercent {
			return SimpleCommission{}, fmt.Errorf("%w: commission takes a rate or a percent, got %s", ErrInvalidQuantity, q.unit)
		}
		return SimpleCommission{Rate: q.value.DivRound(hundred, DefaultScale)}, nil
	}
	rate, err := ToDecimal(v)
	if err != nil {
		return SimpleCommission{}, fmt.Errorf("commission: %w", err)
	}
	if rate.IsNegative() {
		return SimpleCommission{}, fmt.Errorf("%w: negative commission %s", ErrInvalidQuantity, rate)
	}
	return SimpleCommission{Rate: rate}, nil
}

func (c SimpleCommission) For(t Transaction) decimal.Decimal {
	return t.Quote.Abs().Mul(c.Rate)
}
