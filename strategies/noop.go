package strategies

import (
	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
)

// Noop replays the bars and never trades.
type Noop struct {
	backtest.Base
	src *frame.Frame
}

func NewNoop(src *frame.Frame) *Noop { return &Noop{src: src} }

func (n *Noop) Compose() (*frame.Frame, error) { return n.src, nil }

func (n *Noop) OnEntry(frame.Row, *sim.Session) error { return nil }
