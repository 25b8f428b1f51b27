// Package backtest replays a composed frame through a strategy, one bar at a
// time, and records the resulting sessions.
package backtest

import (
	"fmt"

	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/internal/id"
	"github.com/rustyeddy/backtester/sim"
	"go.uber.org/zap"
)

// Trader owns the replay state of one strategy: the cursor, the wallet and
// the sessions. Runs are sequential; a Trader is not safe for concurrent use.
type Trader struct {
	strategy   Strategy
	log        *zap.Logger
	commission sim.Commission
	scale      int32

	cursor   *sim.Cursor
	wallet   *sim.Wallet
	sessions sim.Sessions
}

type Option func(*Trader)

func WithLogger(l *zap.Logger) Option {
	return func(t *Trader) {
		if l != nil {
			t.log = l
		}
	}
}

// WithCommission charges c on every transaction.
func WithCommission(c sim.Commission) Option {
	return func(t *Trader) { t.commission = c }
}

// WithScale sets the digits kept by ledger divisions.
func WithScale(scale int32) Option {
	return func(t *Trader) { t.scale = scale }
}

func New(st Strategy, opts ...Option) (*Trader, error) {
	if st == nil {
		return nil, ErrNoStrategy
	}
	t := &Trader{
		strategy: st,
		log:      zap.NewNop(),
		scale:    sim.DefaultScale,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Cursor is the cursor of the latest run, nil before the first one.
func (t *Trader) Cursor() *sim.Cursor { return t.cursor }

// Run composes the strategy's frame, validates and trims it, and replays
// every bar. Validation failures return a nil Output. A failing hook stops
// the run at that bar and the Output holds the sessions committed so far.
func (t *Trader) Run() (*Output, error) {
	sigs, err := discoverSignals(t.strategy)
	if err != nil {
		return nil, err
	}

	f, err := t.strategy.Compose()
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	if err := validate(f, sigs); err != nil {
		return nil, err
	}

	f, dropped := trim(f)
	if dropped > 0 {
		t.log.Info("trimmed warm-up rows", zap.Int("rows", dropped), zap.Stringer("from", f.Time(0)))
	}
	if err := checkPrices(f); err != nil {
		return nil, err
	}

	t.cursor = sim.NewCursor(t.scale)
	t.wallet = sim.NewWallet(t.commission)
	t.sessions = nil

	title, desc := describe(t.strategy)
	out := &Output{
		RunID:       id.New(),
		Frame:       f,
		Signals:     signalNames(sigs),
		Title:       title,
		Description: desc,
		Wallet:      t.wallet,
		Scale:       t.cursor.Scale(),
	}

	log := t.log.With(zap.String("run", out.RunID), zap.String("strategy", title))
	log.Info("run started", zap.Int("bars", f.Len()), zap.Strings("signals", out.Signals))

	err = t.replay(f, sigs, log)
	out.Sessions = t.sessions
	if err != nil {
		log.Error("run failed", zap.Error(err), zap.Int("sessions", len(t.sessions)))
		return out, err
	}

	log.Info("run finished",
		zap.Int("sessions", len(t.sessions)),
		zap.Int("open", len(t.sessions.Open())),
		zap.Stringer("quote", t.wallet.Quote()),
	)
	return out, nil
}

func (t *Trader) replay(f *frame.Frame, sigs []signal, log *zap.Logger) error {
	var row frame.Row
	for i := 0; i < f.Len(); i++ {
		row = f.Row(i)
		t.cursor.Set(row.Time(), row.Close())

		if err := t.checkBrackets(row, log); err != nil {
			return err
		}

		for _, sig := range sigs[1:] {
			if !row.True(sig.name) {
				continue
			}
			for _, s := range t.sessions.Open() {
				if err := sig.fn(row, s); err != nil {
					return hookError(sig.name, row, err)
				}
			}
		}

		if row.True(Entry) {
			s := sim.NewSession(t.cursor, t.wallet)
			err := t.strategy.OnEntry(row, s)
			if s.IsOpen() {
				t.sessions = append(t.sessions, s)
			}
			if err != nil {
				return hookError(Entry, row, err)
			}
		}
	}

	for _, s := range t.sessions.Open() {
		if err := t.strategy.OnStop(row, s); err != nil {
			return hookError("stop", row, err)
		}
	}
	return nil
}

// checkBrackets fires at most one bracket per open session. The hook runs
// with the cursor at the breached level and the close is restored after.
func (t *Trader) checkBrackets(row frame.Row, log *zap.Logger) error {
	for _, s := range t.sessions.Open() {
		if !s.HasBrackets() {
			continue
		}
		tp, sl := s.ShouldTrigger(row.Low(), row.High())
		switch {
		case sl.Valid:
			log.Debug("stop loss", zap.String("session", s.ID), zap.Stringer("level", sl.Decimal), zap.Stringer("at", row.Time()))
			err := t.cursor.WithPrice(sl.Decimal, func() error {
				return t.strategy.OnStopLoss(row, s)
			})
			if err != nil {
				return hookError("stop_loss", row, err)
			}
		case tp.Valid:
			log.Debug("take profit", zap.String("session", s.ID), zap.Stringer("level", tp.Decimal), zap.Stringer("at", row.Time()))
			err := t.cursor.WithPrice(tp.Decimal, func() error {
				return t.strategy.OnTakeProfit(row, s)
			})
			if err != nil {
				return hookError("take_profit", row, err)
			}
		}
	}
	return nil
}

func hookError(hook string, row frame.Row, err error) error {
	return fmt.Errorf("%s at %s: %w", hook, row.Time(), err)
}
