package backtest

import (
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
)

// Output is everything one run produced. Stats and the journal read it;
// nothing feeds back into the replay.
type Output struct {
	RunID       string
	Frame       *frame.Frame
	Sessions    sim.Sessions
	Signals     []string
	Title       string
	Description string
	Wallet      *sim.Wallet
	// Scale is the rounding scale the run divided with.
	Scale int32
}

// Transactions is the chronological ledger of the closed sessions.
func (o *Output) Transactions() []sim.Transaction {
	return o.Sessions.Transactions()
}
