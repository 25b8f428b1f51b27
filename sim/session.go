package sim

import (
	"fmt"

	"github.com/rustyeddy/backtester/internal/id"
	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// Session is one round trip: the transactions of a single position from the
// first fill until it is flat again, plus its bracket levels.
type Session struct {
	ID   string
	Meta *Meta

	cursor       *Cursor
	transactions []Transaction
	position     *Position
	takeProfit   decimal.NullDecimal
	stopLoss     decimal.NullDecimal
}

// NewSession binds a new empty session to the run's cursor and wallet.
func NewSession(c *Cursor, w *Wallet) *Session {
	s := &Session{
		Meta:   NewMeta(),
		cursor: c,
	}
	if c.Time() >= 0 {
		s.ID = id.At(c.Time().UTC())
	} else {
		s.ID = id.New()
	}
	s.position = newPosition(c, w, &s.transactions)
	return s
}

func (s *Session) Position() *Position { return s.position }

// Transactions returns a copy of the ledger entries.
func (s *Session) Transactions() []Transaction {
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

func (s *Session) Len() int { return len(s.transactions) }

func (s *Session) Base() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.transactions {
		sum = sum.Add(t.Base)
	}
	return sum
}

func (s *Session) Quote() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.transactions {
		sum = sum.Add(t.Quote)
	}
	return sum
}

// IsLong reports the direction of the first fill. False for an empty session.
func (s *Session) IsLong() bool {
	return len(s.transactions) > 0 && s.transactions[0].Base.IsPositive()
}

func (s *Session) IsOpen() bool   { return !s.Base().IsZero() }
func (s *Session) IsClosed() bool { return len(s.transactions) > 0 && !s.IsOpen() }

func (s *Session) OpenedAt() market.Time {
	if len(s.transactions) == 0 {
		return 0
	}
	return s.transactions[0].Time
}

// ClosedAt is the time of the last fill once the session is flat.
func (s *Session) ClosedAt() (market.Time, bool) {
	if !s.IsClosed() {
		return 0, false
	}
	return s.transactions[len(s.transactions)-1].Time, true
}

func (s *Session) TakeProfit() decimal.NullDecimal { return s.takeProfit }
func (s *Session) StopLoss() decimal.NullDecimal   { return s.stopLoss }

func (s *Session) HasBrackets() bool {
	return s.takeProfit.Valid || s.stopLoss.Valid
}

// SetTakeProfit sets the take-profit level to an absolute price or to
// Percent(p) of the cursor price. It must lie above the cursor price for a
// long session and below it for a short one.
func (s *Session) SetTakeProfit(v any) error {
	level, err := s.bracketLevel(v)
	if err != nil {
		return fmt.Errorf("take profit: %w", err)
	}
	if s.takeProfit.Valid && s.takeProfit.Decimal.Equal(level) {
		return nil
	}
	price := s.cursor.Price()
	if s.IsLong() != level.GreaterThan(price) || level.Equal(price) {
		return fmt.Errorf("%w: take profit %s on the wrong side of %s for a %s session",
			ErrInvalidBracket, level, price, s.direction())
	}
	s.takeProfit = decimal.NewNullDecimal(level)
	return nil
}

// SetStopLoss is SetTakeProfit's mirror: below the cursor price for a long
// session, above it for a short one.
func (s *Session) SetStopLoss(v any) error {
	level, err := s.bracketLevel(v)
	if err != nil {
		return fmt.Errorf("stop loss: %w", err)
	}
	if s.stopLoss.Valid && s.stopLoss.Decimal.Equal(level) {
		return nil
	}
	price := s.cursor.Price()
	if s.IsLong() != level.LessThan(price) || level.Equal(price) {
		return fmt.Errorf("%w: stop loss %s on the wrong side of %s for a %s session",
			ErrInvalidBracket, level, price, s.direction())
	}
	s.stopLoss = decimal.NewNullDecimal(level)
	return nil
}

func (s *Session) ClearTakeProfit() { s.takeProfit = decimal.NullDecimal{} }
func (s *Session) ClearStopLoss()   { s.stopLoss = decimal.NullDecimal{} }

func (s *Session) bracketLevel(v any) (decimal.Decimal, error) {
	if len(s.transactions) == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: session has no position", ErrInvalidBracket)
	}
	q, err := asQuantity(v)
	if err != nil {
		return decimal.Decimal{}, err
	}
	switch q.unit {
	case unitPercent:
		offset := q.value.DivRound(hundred, s.cursor.Scale())
		return decimal.NewFromInt(1).Add(offset).Mul(s.cursor.Price()), nil
	case unitQuote:
		return decimal.Decimal{}, fmt.Errorf("%w: bracket takes a price or a percent", ErrInvalidBracket)
	default:
		return q.value, nil
	}
}

func (s *Session) direction() string {
	if s.IsLong() {
		return "long"
	}
	return "short"
}

// ShouldTrigger reports which bracket a bar spanning [low, high] breaches.
// At most one level is returned and the stop loss wins when both are hit.
func (s *Session) ShouldTrigger(low, high decimal.Decimal) (tp, sl decimal.NullDecimal) {
	if s.IsLong() {
		if s.stopLoss.Valid && low.LessThan(s.stopLoss.Decimal) {
			return tp, s.stopLoss
		}
		if s.takeProfit.Valid && high.GreaterThan(s.takeProfit.Decimal) {
			return s.takeProfit, sl
		}
		return tp, sl
	}
	if s.stopLoss.Valid && high.GreaterThan(s.stopLoss.Decimal) {
		return tp, s.stopLoss
	}
	if s.takeProfit.Valid && low.LessThan(s.takeProfit.Decimal) {
		return s.takeProfit, sl
	}
	return tp, sl
}

func (s *Session) String() string {
	state := "open"
	if s.IsClosed() {
		state = "closed"
	}
	return fmt.Sprintf("session %s %s %s base=%s quote=%s txs=%d",
		s.ID, s.direction(), state, s.Base(), s.Quote(), len(s.transactions))
}
