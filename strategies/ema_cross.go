package strategies

import (
	"fmt"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

const (
	colFast = "ema_fast"
	colSlow = "ema_slow"
	colATR  = "atr"
	colADX  = "adx"
	sigExit = "exit"
)

// EMACross enters on a fast/slow EMA crossover and exits on the opposite
// cross, with optional percent or ATR brackets.
type EMACross struct {
	backtest.Base

	src    *frame.Frame
	params Params
	size   sim.Quantity
	tp, sl decimal.NullDecimal
	atrMul decimal.NullDecimal
	adxMin decimal.NullDecimal
}

func NewEMACross(src *frame.Frame, p Params) (*EMACross, error) {
	if p.FastPeriod <= 0 || p.SlowPeriod <= 0 {
		return nil, fmt.Errorf("ema-cross: periods must be positive, got %d/%d", p.FastPeriod, p.SlowPeriod)
	}
	if p.FastPeriod >= p.SlowPeriod {
		return nil, fmt.Errorf("ema-cross: fast period %d must be below slow period %d", p.FastPeriod, p.SlowPeriod)
	}

	s := &EMACross{src: src, params: p}
	var err error
	if s.size, err = p.entrySize(); err != nil {
		return nil, fmt.Errorf("ema-cross: %w", err)
	}
	if s.tp, err = optionalDecimal("take_profit_pct", p.TakeProfitPct); err != nil {
		return nil, fmt.Errorf("ema-cross: %w", err)
	}
	if s.sl, err = optionalDecimal("stop_loss_pct", p.StopLossPct); err != nil {
		return nil, fmt.Errorf("ema-cross: %w", err)
	}
	if p.ATRPeriod > 0 {
		mul := p.ATRMultiple
		if mul == "" {
			mul = "2"
		}
		if s.atrMul, err = optionalDecimal("atr_multiple", mul); err != nil {
			return nil, fmt.Errorf("ema-cross: %w", err)
		}
	}
	if p.ADXPeriod > 0 {
		floor := p.ADXMin
		if floor == "" {
			floor = "25"
		}
		if s.adxMin, err = optionalDecimal("adx_min", floor); err != nil {
			return nil, fmt.Errorf("ema-cross: %w", err)
		}
	}
	return s, nil
}

func (s *EMACross) Doc() string {
	return fmt.Sprintf(`EMA Cross %d/%d
	Opens a position when EMA(%d) crosses EMA(%d) and closes it on the opposite cross.
	Brackets are set from percent offsets or an ATR multiple; an optional ADX
	floor skips entries in trendless markets.`,
		s.params.FastPeriod, s.params.SlowPeriod, s.params.FastPeriod, s.params.SlowPeriod)
}

func (s *EMACross) SignalNames() []string { return []string{sigExit} }

func (s *EMACross) HandlerFor(name string) backtest.SignalFunc {
	if name == sigExit {
		return s.onExit
	}
	return nil
}

// Compose adds the averages and the two cross columns to a copy of the
// source bars. A long strategy enters on the cross up; a short one on the
// cross down.
func (s *EMACross) Compose() (*frame.Frame, error) {
	if s.src == nil {
		return nil, fmt.Errorf("ema-cross: no bars")
	}
	f := s.src.Slice(0)

	if err := indicators.Add(f, colFast, frame.Close, indicators.NewEMA(s.params.FastPeriod, 0)); err != nil {
		return nil, err
	}
	if err := indicators.Add(f, colSlow, frame.Close, indicators.NewEMA(s.params.SlowPeriod, 0)); err != nil {
		return nil, err
	}
	if s.params.ATRPeriod > 0 {
		if err := indicators.ATR(f, colATR, s.params.ATRPeriod, 0); err != nil {
			return nil, err
		}
	}

	up, down := backtest.Entry, sigExit
	if s.params.Short {
		up, down = down, up
	}
	if err := indicators.AddCross(f, up, down, colFast, colSlow); err != nil {
		return nil, err
	}
	if s.params.ADXPeriod > 0 {
		if err := indicators.ADX(f, colADX, s.params.ADXPeriod, 0); err != nil {
			return nil, err
		}
		s.filterEntries(f)
	}
	return f, nil
}

// filterEntries drops entries taken while ADX is below the minimum or not
// yet ready.
func (s *EMACross) filterEntries(f *frame.Frame) {
	entry, _ := f.Column(backtest.Entry)
	adx, _ := f.Column(colADX)
	for i := 0; i < f.Len(); i++ {
		if on, ok := entry.Bool(i); !ok || !on {
			continue
		}
		if v, ok := adx.Decimal(i); !ok || v.LessThan(s.adxMin.Decimal) {
			entry.SetBool(i, false)
		}
	}
}

func (s *EMACross) OnEntry(row frame.Row, ss *sim.Session) error {
	var err error
	if s.params.Short {
		err = ss.Position().Decrease(s.size)
	} else {
		err = ss.Position().Increase(s.size)
	}
	if err != nil {
		return err
	}

	if fast, ok := row.Decimal(colFast); ok {
		ss.Meta.Set("ema_fast", sim.Number(fast))
	}
	if slow, ok := row.Decimal(colSlow); ok {
		ss.Meta.Set("ema_slow", sim.Number(slow))
	}
	if adx, ok := row.Decimal(colADX); ok {
		ss.Meta.Set("adx", sim.Number(adx))
	}

	sign := decimal.NewFromInt(1)
	if s.params.Short {
		sign = sign.Neg()
	}
	if s.tp.Valid {
		if err := ss.SetTakeProfit(sim.Percent(s.tp.Decimal.Mul(sign))); err != nil {
			return err
		}
	}

	switch atr, ok := row.Decimal(colATR); {
	case s.atrMul.Valid && ok && atr.IsPositive():
		// stop one ATR multiple away from the close
		level := row.Close().Sub(atr.Mul(s.atrMul.Decimal).Mul(sign))
		if err := ss.SetStopLoss(level); err != nil {
			return err
		}
		ss.Meta.Set("atr", sim.Number(atr))
	case s.sl.Valid:
		if err := ss.SetStopLoss(sim.Percent(s.sl.Decimal.Mul(sign).Neg())); err != nil {
			return err
		}
	}
	return nil
}

func (s *EMACross) onExit(row frame.Row, ss *sim.Session) error {
	ss.Position().Close()
	ss.Meta.Set("exit", sim.String("cross"))
	ss.Meta.Set("exit_at", sim.Timestamp(row.Time()))
	return nil
}

func (s *EMACross) OnTakeProfit(row frame.Row, ss *sim.Session) error {
	ss.Meta.Set("exit", sim.String("take-profit"))
	return s.Base.OnTakeProfit(row, ss)
}

func (s *EMACross) OnStopLoss(row frame.Row, ss *sim.Session) error {
	ss.Meta.Set("exit", sim.String("stop-loss"))
	return s.Base.OnStopLoss(row, ss)
}
