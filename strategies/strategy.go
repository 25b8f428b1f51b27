// Package strategies holds the strategies the CLI can run by name.
package strategies

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/frame"
	"github.com/rustyeddy/backtester/sim"
	"github.com/shopspring/decimal"
)

var ErrUnknownStrategy = errors.New("unknown strategy")

// Params are the knobs shared by the built-in strategies. Amounts are
// decimal strings; empty means unset.
type Params struct {
	FastPeriod    int    `json:"fast_period" yaml:"fast_period" toml:"fast_period"`
	SlowPeriod    int    `json:"slow_period" yaml:"slow_period" toml:"slow_period"`
	Size          string `json:"size" yaml:"size" toml:"size"`                                  // base units per entry
	QuoteSize     string `json:"quote_size" yaml:"quote_size" toml:"quote_size"`                // quote units per entry, wins over Size
	TakeProfitPct string `json:"take_profit_pct" yaml:"take_profit_pct" toml:"take_profit_pct"` // e.g. "4" for +4%
	StopLossPct   string `json:"stop_loss_pct" yaml:"stop_loss_pct" toml:"stop_loss_pct"`       // e.g. "2" for -2%
	ATRPeriod     int    `json:"atr_period" yaml:"atr_period" toml:"atr_period"`                // 0 disables the ATR stop
	ATRMultiple   string `json:"atr_multiple" yaml:"atr_multiple" toml:"atr_multiple"`
	ADXPeriod     int    `json:"adx_period" yaml:"adx_period" toml:"adx_period"` // 0 disables the trend filter
	ADXMin        string `json:"adx_min" yaml:"adx_min" toml:"adx_min"`          // entries need ADX at or above this
	Short         bool   `json:"short" yaml:"short" toml:"short"`
}

// Defaults mirror the ema-cross example config.
func Defaults() Params {
	return Params{
		FastPeriod:    10,
		SlowPeriod:    30,
		Size:          "1",
		TakeProfitPct: "4",
		StopLossPct:   "2",
		ATRMultiple:   "2",
	}
}

// Factory builds a strategy over a loaded bar frame.
type Factory func(src *frame.Frame, p Params) (backtest.Strategy, error)

var registry = map[string]Factory{
	"noop":      func(src *frame.Frame, _ Params) (backtest.Strategy, error) { return NewNoop(src), nil },
	"open-once": func(src *frame.Frame, p Params) (backtest.Strategy, error) { return NewOpenOnce(src, p) },
	"ema-cross": func(src *frame.Frame, p Params) (backtest.Strategy, error) { return NewEMACross(src, p) },
}

var aliases = map[string]string{
	"none":     "noop",
	"emacross": "ema-cross",
	"hold":     "open-once",
}

// Register adds or replaces a named factory.
func Register(name string, f Factory) {
	registry[strings.ToLower(name)] = f
}

// Names lists the registered strategy names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func lookup(name string) (Factory, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownStrategy, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Check reports whether name resolves to a registered strategy.
func Check(name string) error {
	_, err := lookup(name)
	return err
}

// ByName builds the named strategy.
func ByName(name string, src *frame.Frame, p Params) (backtest.Strategy, error) {
	f, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return f(src, p)
}

// entrySize turns Params into the quantity opened on each entry.
func (p Params) entrySize() (sim.Quantity, error) {
	if p.QuoteSize != "" {
		q := sim.Quote(p.QuoteSize)
		if _, err := sim.ToDecimal(p.QuoteSize); err != nil {
			return q, fmt.Errorf("quote_size: %w", err)
		}
		return q, nil
	}
	size := p.Size
	if size == "" {
		size = "1"
	}
	if _, err := sim.ToDecimal(size); err != nil {
		return sim.Quantity{}, fmt.Errorf("size: %w", err)
	}
	return sim.Base(size), nil
}

// optionalDecimal parses an optional decimal parameter.
func optionalDecimal(name, s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := sim.ToDecimal(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", name, err)
	}
	return decimal.NewNullDecimal(d), nil
}
