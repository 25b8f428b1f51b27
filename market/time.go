package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time is a bar timestamp in whole seconds since the Unix epoch (UTC).
type Time int64

// Integers above this are taken as milliseconds (1975-01-01 in ms).
const msThreshold = 157_766_400_000

var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// FromTime converts a time.Time, dropping sub-second precision.
func FromTime(t time.Time) Time {
	return Time(t.UTC().Unix())
}

// ParseTime accepts the calendar layouts bars are usually stamped with, as
// well as integer seconds or milliseconds since the epoch. Calendar strings
// without a zone are read as UTC.
func ParseTime(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse time: empty string")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > msThreshold {
			return Time(n / 1000), nil
		}
		return Time(n), nil
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return FromTime(t), nil
		}
	}
	return 0, fmt.Errorf("parse time: unsupported format %q", s)
}

// MustParseTime is ParseTime for literals in tests and examples.
func MustParseTime(s string) Time {
	t, err := ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) Unix() int64 { return int64(t) }

func (t Time) UTC() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t Time) Before(o Time) bool { return t < o }
func (t Time) After(o Time) bool  { return t > o }

// Sub returns the signed distance t - o.
func (t Time) Sub(o Time) TimeDelta {
	return TimeDelta(t - o)
}

// Add moves t forward by d.
func (t Time) Add(d TimeDelta) Time {
	return t + Time(d)
}

// Block floors t to the start of the interval that contains it.
func (t Time) Block(iv Interval) Time {
	sec := int64(iv)
	if sec <= 0 {
		return t
	}
	v := int64(t)
	b := v - v%sec
	if v < 0 && v%sec != 0 {
		b -= sec
	}
	return Time(b)
}

// String renders minute resolution, e.g. "2000-01-02 03:04".
func (t Time) String() string {
	return t.UTC().Format("2006-01-02 15:04")
}

// Time formats understood by ParseTimeFormat besides Go layouts.
const (
	FormatSeconds = "s"
	FormatMillis  = "ms"
)

// DetectTimeFormat guesses the format of a sample timestamp: FormatSeconds,
// FormatMillis or one of the calendar layouts ParseTime accepts.
func DetectTimeFormat(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > msThreshold {
			return FormatMillis, nil
		}
		return FormatSeconds, nil
	}
	for _, layout := range layouts {
		if _, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return layout, nil
		}
	}
	return "", fmt.Errorf("detect time format: unsupported format %q", s)
}

// ParseTimeFormat parses s in a fixed format. An empty format falls back to
// ParseTime.
func ParseTimeFormat(s, format string) (Time, error) {
	s = strings.TrimSpace(s)
	switch format {
	case "":
		return ParseTime(s)
	case FormatSeconds, FormatMillis:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse time %q as %s: %w", s, format, err)
		}
		if format == FormatMillis {
			n /= 1000
		}
		return Time(n), nil
	default:
		t, err := time.ParseInLocation(format, s, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("parse time: %w", err)
		}
		return FromTime(t), nil
	}
}
