package sim

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultScale is the number of fractional digits kept by ledger divisions
// when no scale is configured.
const DefaultScale int32 = 16

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidBracket  = errors.New("invalid bracket")
)

var hundred = decimal.NewFromInt(100)

// ToDecimal converts exact inputs: decimals, integers and numeric strings.
// Floating point values are rejected; convert them with FloatToDecimal and
// an explicit number of places.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Decimal{}, fmt.Errorf("%w: nil decimal", ErrInvalidQuantity)
		}
		return *x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int8:
		return decimal.NewFromInt(int64(x)), nil
	case int16:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(x)), nil
	case uint64:
		return decimal.NewFromUint64(x), nil
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuantity, x, err)
		}
		return d, nil
	case float32, float64:
		return decimal.Decimal{}, fmt.Errorf("%w: float %v, pass a string or decimal.Decimal", ErrInvalidQuantity, x)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidQuantity, v)
	}
}

// FloatToDecimal is the explicit float conversion, rounded to places.
func FloatToDecimal(f float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(places)
}
