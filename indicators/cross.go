package indicators

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/backtester/frame"
)

var ErrMissingColumn = errors.New("indicators: missing column")

func errMissing(name string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, name)
}

// CrossAbove is true on rows where a moves from at or below b to above it.
// It is null until both series have two consecutive values.
func CrossAbove(name string, a, b *frame.Column) *frame.Column {
	return cross(name, a, b, func(prev, cur int) bool { return prev <= 0 && cur > 0 })
}

// CrossBelow is CrossAbove with the sides swapped.
func CrossBelow(name string, a, b *frame.Column) *frame.Column {
	return cross(name, a, b, func(prev, cur int) bool { return prev >= 0 && cur < 0 })
}

// cross hands test the sign of a-b on the previous and the current row.
func cross(name string, a, b *frame.Column, test func(prev, cur int) bool) *frame.Column {
	out := frame.NewBool(name, a.Len())
	for i := 1; i < a.Len(); i++ {
		pa, ok1 := a.Decimal(i - 1)
		pb, ok2 := b.Decimal(i - 1)
		ca, ok3 := a.Decimal(i)
		cb, ok4 := b.Decimal(i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		out.SetBool(i, test(pa.Cmp(pb), ca.Cmp(cb)))
	}
	return out
}

// AddCross adds CrossAbove(a, b) as above and CrossBelow(a, b) as below.
func AddCross(f *frame.Frame, above, below, a, b string) error {
	ca, ok := f.Column(a)
	if !ok {
		return errMissing(a)
	}
	cb, ok := f.Column(b)
	if !ok {
		return errMissing(b)
	}
	if above != "" {
		if err := f.Add(CrossAbove(above, ca, cb)); err != nil {
			return err
		}
	}
	if below != "" {
		if err := f.Add(CrossBelow(below, ca, cb)); err != nil {
			return err
		}
	}
	return nil
}
