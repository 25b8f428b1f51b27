package backtest

import (
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
)

// Entry is the signal column that opens a new session when true.
const Entry = "entry"

// SignalFunc handles one bar for one session.
type SignalFunc func(row frame.Row, s *sim.Session) error

// Strategy is what the trader replays. Compose builds the frame with prices,
// indicators and boolean signal columns; the remaining hooks are called as
// bars are replayed.
//
// OnEntry receives a fresh session on every bar whose entry column is true.
// The session is kept only if OnEntry leaves it with a position.
// OnTakeProfit and OnStopLoss run with the cursor priced at the breached
// level. OnStop runs once per still-open session after the last bar.
type Strategy interface {
	Compose() (*frame.Frame, error)
	OnEntry(row frame.Row, s *sim.Session) error
	OnTakeProfit(row frame.Row, s *sim.Session) error
	OnStopLoss(row frame.Row, s *sim.Session) error
	OnStop(row frame.Row, s *sim.Session) error
}

// Signaler is implemented by strategies that dispatch signals besides entry.
// Every name needs a boolean column of the same name in the composed frame.
type Signaler interface {
	SignalNames() []string
	HandlerFor(name string) SignalFunc
}

// Documented supplies the report title (first line) and description.
type Documented interface {
	Doc() string
}

// Base gives strategies the usual bracket behaviour: both brackets flatten
// the position at the breached price, and the end of data leaves sessions
// open.
type Base struct{}

func (Base) OnTakeProfit(_ frame.Row, s *sim.Session) error {
	s.Position().Close()
	return nil
}

func (Base) OnStopLoss(_ frame.Row, s *sim.Session) error {
	s.Position().Close()
	return nil
}

func (Base) OnStop(frame.Row, *sim.Session) error { return nil }
