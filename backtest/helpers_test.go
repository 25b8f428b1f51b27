package backtest

import (
	"testing"

	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const t0 = market.Time(1_600_000_000)

type bar struct{ o, h, l, c string }

// flat is a bar that opens, closes and ranges at p.
func flat(p string) bar { return bar{p, p, p, p} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func boolp(b bool) *bool { return &b }

// bars builds a frame with one-minute bars starting at t0.
func bars(t *testing.T, bs ...bar) *frame.Frame {
	t.Helper()
	candles := make([]market.Candle, len(bs))
	for i, b := range bs {
		candles[i] = market.Candle{
			Time:  t0 + market.Time(60*i),
			Open:  dec(b.o),
			High:  dec(b.h),
			Low:   dec(b.l),
			Close: dec(b.c),
		}
	}
	f, err := frame.FromCandles(candles)
	require.NoError(t, err)
	return f
}

// signalAt adds a boolean column that is true on the given rows and null
// everywhere else.
func signalAt(t *testing.T, f *frame.Frame, name string, rows ...int) {
	t.Helper()
	c := frame.NewBool(name, f.Len())
	for _, r := range rows {
		c.SetBool(r, true)
	}
	require.NoError(t, f.Add(c))
}

// scripted is a strategy whose hooks are closures. Unset bracket hooks
// fall back to Base.
type scripted struct {
	Base
	f          *frame.Frame
	composeErr error

	entry    SignalFunc
	tp, sl   SignalFunc
	stop     SignalFunc
	names    []string
	handlers map[string]SignalFunc
}

func (s *scripted) Compose() (*frame.Frame, error) { return s.f, s.composeErr }

func (s *scripted) OnEntry(row frame.Row, ss *sim.Session) error {
	if s.entry == nil {
		return nil
	}
	return s.entry(row, ss)
}

func (s *scripted) OnTakeProfit(row frame.Row, ss *sim.Session) error {
	if s.tp == nil {
		return s.Base.OnTakeProfit(row, ss)
	}
	return s.tp(row, ss)
}

func (s *scripted) OnStopLoss(row frame.Row, ss *sim.Session) error {
	if s.sl == nil {
		return s.Base.OnStopLoss(row, ss)
	}
	return s.sl(row, ss)
}

func (s *scripted) OnStop(row frame.Row, ss *sim.Session) error {
	if s.stop == nil {
		return s.Base.OnStop(row, ss)
	}
	return s.stop(row, ss)
}

// signaling adds Signaler on top of scripted.
type signaling struct {
	*scripted
}

func (s signaling) SignalNames() []string { return s.names }

func (s signaling) HandlerFor(name string) SignalFunc { return s.handlers[name] }

// buyWithBrackets opens one unit long with the given stop and target.
func buyWithBrackets(sl, tp any) SignalFunc {
	return func(_ frame.Row, s *sim.Session) error {
		if err := s.Position().Increase(1); err != nil {
			return err
		}
		if err := s.SetStopLoss(sl); err != nil {
			return err
		}
		return s.SetTakeProfit(tp)
	}
}

func closeAll(_ frame.Row, s *sim.Session) error {
	s.Position().Close()
	return nil
}

func run(t *testing.T, st Strategy, opts ...Option) *Output {
	t.Helper()
	tr, err := New(st, opts...)
	require.NoError(t, err)
	out, err := tr.Run()
	require.NoError(t, err)
	return out
}
