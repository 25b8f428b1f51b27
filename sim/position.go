package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Position is the signed base exposure of one session. Every non-zero change
// appends exactly one Transaction at the cursor price and applies it to the
// wallet; a zero change records nothing.
type Position struct {
	cursor *Cursor
	wallet *Wallet
	txs    *[]Transaction
	value  decimal.Decimal
}

func newPosition(c *Cursor, w *Wallet, txs *[]Transaction) *Position {
	return &Position{cursor: c, wallet: w, txs: txs}
}

// Value is the current base quantity; negative when short.
func (p *Position) Value() decimal.Decimal { return p.value }

// Increase adds q, a Quantity or a raw base amount.
func (p *Position) Increase(q any) error {
	delta, err := p.resolve(q)
	if err != nil {
		return fmt.Errorf("increase position: %w", err)
	}
	p.apply(delta)
	return nil
}

// Decrease subtracts q, a Quantity or a raw base amount.
func (p *Position) Decrease(q any) error {
	delta, err := p.resolve(q)
	if err != nil {
		return fmt.Errorf("decrease position: %w", err)
	}
	p.apply(delta.Neg())
	return nil
}

// Multiply scales the position by factor.
func (p *Position) Multiply(factor any) error {
	f, err := ToDecimal(factor)
	if err != nil {
		return fmt.Errorf("multiply position: %w", err)
	}
	p.apply(p.value.Mul(f).Sub(p.value))
	return nil
}

// Set moves the position to q. Set(0) closes it.
func (p *Position) Set(q any) error {
	target, err := p.resolve(q)
	if err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	p.apply(target.Sub(p.value))
	return nil
}

// Close is Set(0).
func (p *Position) Close() {
	p.apply(p.value.Neg())
}

// resolve turns q into a base amount at the current cursor price.
func (p *Position) resolve(v any) (decimal.Decimal, error) {
	q, err := asQuantity(v)
	if err != nil {
		return decimal.Decimal{}, err
	}

	switch q.unit {
	case unitQuote:
		price := p.cursor.Price()
		if price.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("%w: quote amount %s at zero price", ErrInvalidQuantity, q.value)
		}
		return q.value.DivRound(price, p.cursor.Scale()), nil
	case unitPercent:
		return q.value.Mul(p.value).DivRound(hundred, p.cursor.Scale()), nil
	default:
		return q.value, nil
	}
}

func (p *Position) apply(delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}
	p.value = p.value.Add(delta)
	t := Transaction{
		Time:  p.cursor.Time(),
		Base:  delta,
		Quote: delta.Neg().Mul(p.cursor.Price()),
	}
	*p.txs = append(*p.txs, t)
	p.wallet.Apply(t)
}
