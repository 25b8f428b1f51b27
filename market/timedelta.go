package market

import (
	"strconv"
	"strings"
	"time"
)

// TimeDelta is a signed duration in whole seconds.
type TimeDelta int64

func (d TimeDelta) Seconds() int64 { return int64(d) }

func (d TimeDelta) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// Div splits d into n equal parts, truncating.
func (d TimeDelta) Div(n int64) TimeDelta {
	if n == 0 {
		return 0
	}
	return d / TimeDelta(n)
}

// String renders compact units, skipping zero parts: "0s", "1m 10s",
// "1h 1m 40s", "5d 1m".
func (d TimeDelta) String() string {
	if d == 0 {
		return "0s"
	}

	var b strings.Builder
	rem := int64(d)
	if rem < 0 {
		b.WriteByte('-')
		rem = -rem
	}

	units := []struct {
		suffix string
		size   int64
	}{
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
		{"s", 1},
	}

	first := true
	for _, u := range units {
		n := rem / u.size
		rem %= u.size
		if n == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(n, 10))
		b.WriteString(u.suffix)
		first = false
	}
	return b.String()
}
