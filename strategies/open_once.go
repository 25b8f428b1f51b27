package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
)

// OpenOnce buys on the first bar and holds to the end of the data, where
// the position is closed at the last close.
type OpenOnce struct {
	backtest.Base
	src  *frame.Frame
	size sim.Quantity
}

func NewOpenOnce(src *frame.Frame, p Params) (*OpenOnce, error) {
	size, err := p.entrySize()
	if err != nil {
		return nil, fmt.Errorf("open-once: %w", err)
	}
	return &OpenOnce{src: src, size: size}, nil
}

func (o *OpenOnce) Doc() string {
	return "Buy and hold\nOpens on the first bar and closes on the last."
}

func (o *OpenOnce) Compose() (*frame.Frame, error) {
	if o.src == nil || o.src.Len() == 0 {
		return o.src, nil
	}
	f := o.src.Slice(0)
	entry := frame.NewBool(backtest.Entry, f.Len())
	entry.SetBool(0, true)
	if err := f.Add(entry); err != nil {
		return nil, err
	}
	return f, nil
}

func (o *OpenOnce) OnEntry(_ frame.Row, s *sim.Session) error {
	return s.Position().Increase(o.size)
}

func (o *OpenOnce) OnStop(_ frame.Row, s *sim.Session) error {
	s.Position().Close()
	return nil
}
