package backtest

import (
	"fmt"

	"github.com/rustyeddy/backtester/frame"
)

var priceColumns = []string{frame.Open, frame.High, frame.Low, frame.Close}

// validate checks the composed frame before any bar is replayed. A missing
// entry column is added as all null.
func validate(f *frame.Frame, sigs []signal) error {
	if f == nil || f.Len() == 0 {
		return ErrEmptyInput
	}

	for _, name := range priceColumns {
		c, ok := f.Column(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		if c.Kind() != frame.KindDecimal {
			return fmt.Errorf("%w: %q is %s, want decimal", ErrMissingColumn, name, c.Kind())
		}
	}

	if !f.Has(Entry) {
		if err := f.Add(frame.NewBool(Entry, f.Len())); err != nil {
			return err
		}
	}

	for _, s := range sigs {
		c, ok := f.Column(s.name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingSignalColumn, s.name)
		}
		if c.Kind() != frame.KindBool {
			return fmt.Errorf("%w: %q is %s", ErrInvalidSignalType, s.name, c.Kind())
		}
	}
	return nil
}

// checkPrices runs after the warm-up trim: every replayed bar needs a full
// set of prices.
func checkPrices(f *frame.Frame) error {
	for _, name := range priceColumns {
		c, _ := f.Column(name)
		if n := c.NullCount(); n > 0 {
			return fmt.Errorf("%w: %q has %d null rows", ErrNullPrice, name, n)
		}
	}
	return nil
}
