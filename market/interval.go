package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Interval is a bar width in seconds.
type Interval int64

const (
	Minute Interval = 60
	Hour   Interval = 3600
	Day    Interval = 86400
	Week   Interval = 7 * Day
)

// ParseInterval accepts compact slugs ("1m", "15m", "4h", "1d", "1w", "10s")
// as well as the MT style names used in the data files ("M1", "H1", "D1",
// "W1", "MN1").
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse interval: empty string")
	}

	switch strings.ToUpper(s) {
	case "M1":
		return Minute, nil
	case "M5":
		return 5 * Minute, nil
	case "M15":
		return 15 * Minute, nil
	case "M30":
		return 30 * Minute, nil
	case "H1":
		return Hour, nil
	case "H4":
		return 4 * Hour, nil
	case "D1":
		return Day, nil
	case "W1":
		return Week, nil
	case "MN1":
		return 30 * Day, nil
	}

	unit := s[len(s)-1]
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("parse interval: unsupported %q", s)
	}

	switch unit {
	case 's':
		return Interval(n), nil
	case 'm':
		return Interval(n) * Minute, nil
	case 'h':
		return Interval(n) * Hour, nil
	case 'd':
		return Interval(n) * Day, nil
	case 'w':
		return Interval(n) * Week, nil
	default:
		return 0, fmt.Errorf("parse interval: unsupported %q", s)
	}
}

func (iv Interval) Delta() TimeDelta { return TimeDelta(iv) }

// String renders the largest whole unit: "1m", "4h", "1d", "1w", "90s".
func (iv Interval) String() string {
	sec := int64(iv)
	switch {
	case sec <= 0:
		return fmt.Sprintf("%ds", sec)
	case sec%int64(Week) == 0:
		return fmt.Sprintf("%dw", sec/int64(Week))
	case sec%int64(Day) == 0:
		return fmt.Sprintf("%dd", sec/int64(Day))
	case sec%int64(Hour) == 0:
		return fmt.Sprintf("%dh", sec/int64(Hour))
	case sec%int64(Minute) == 0:
		return fmt.Sprintf("%dm", sec/int64(Minute))
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
