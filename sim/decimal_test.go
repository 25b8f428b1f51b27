package sim

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	t.Parallel()

	ten := decimal.NewFromInt(10)
	tests := []struct {
		name string
		in   any
		want string
		err  bool
	}{
		{name: "decimal", in: ten, want: "10"},
		{name: "decimal_ptr", in: &ten, want: "10"},
		{name: "int", in: 3, want: "3"},
		{name: "int64", in: int64(-7), want: "-7"},
		{name: "uint32", in: uint32(9), want: "9"},
		{name: "string", in: "0.1", want: "0.1"},
		{name: "bad_string", in: "abc", err: true},
		{name: "float64", in: 0.1, err: true},
		{name: "float32", in: float32(1), err: true},
		{name: "nil_ptr", in: (*decimal.Decimal)(nil), err: true},
		{name: "struct", in: struct{}{}, err: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToDecimal(tt.in)
			if tt.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidQuantity)
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestFloatToDecimal(t *testing.T) {
	t.Parallel()
	assertDecimal(t, "0.3", FloatToDecimal(0.1+0.2, 8))
}
