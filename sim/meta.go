package sim

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rustyeddy/backtester/market"
	"github.com/shopspring/decimal"
)

// MetaKind enumerates what a MetaValue may hold.
type MetaKind uint8

const (
	MetaNumber MetaKind = iota
	MetaString
	MetaBool
	MetaTime
)

func (k MetaKind) String() string {
	switch k {
	case MetaNumber:
		return "number"
	case MetaString:
		return "string"
	case MetaBool:
		return "bool"
	case MetaTime:
		return "time"
	default:
		return fmt.Sprintf("meta(%d)", uint8(k))
	}
}

// MetaValue is one strategy annotation on a session.
type MetaValue struct {
	kind MetaKind
	num  decimal.Decimal
	str  string
	b    bool
	ts   market.Time
}

func Number(d decimal.Decimal) MetaValue { return MetaValue{kind: MetaNumber, num: d} }
func String(s string) MetaValue          { return MetaValue{kind: MetaString, str: s} }
func Bool(b bool) MetaValue              { return MetaValue{kind: MetaBool, b: b} }
func Timestamp(t market.Time) MetaValue  { return MetaValue{kind: MetaTime, ts: t} }

func (v MetaValue) Kind() MetaKind { return v.kind }

func (v MetaValue) Number() (decimal.Decimal, bool) { return v.num, v.kind == MetaNumber }
func (v MetaValue) Str() (string, bool)             { return v.str, v.kind == MetaString }
func (v MetaValue) Bool() (bool, bool)              { return v.b, v.kind == MetaBool }
func (v MetaValue) Time() (market.Time, bool)       { return v.ts, v.kind == MetaTime }

func (v MetaValue) String() string {
	switch v.kind {
	case MetaNumber:
		return v.num.String()
	case MetaString:
		return v.str
	case MetaBool:
		return fmt.Sprintf("%t", v.b)
	case MetaTime:
		return v.ts.String()
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as decimal strings and times as epoch seconds.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case MetaNumber:
		return json.Marshal(v.num.String())
	case MetaString:
		return json.Marshal(v.str)
	case MetaBool:
		return json.Marshal(v.b)
	case MetaTime:
		return json.Marshal(v.ts.Unix())
	default:
		return nil, fmt.Errorf("marshal meta: unknown kind %s", v.kind)
	}
}

// Meta is an open set of named annotations a strategy keeps on a session.
type Meta struct {
	vals map[string]MetaValue
}

func NewMeta() *Meta {
	return &Meta{vals: make(map[string]MetaValue)}
}

func (m *Meta) Set(key string, v MetaValue) { m.vals[key] = v }

func (m *Meta) Get(key string) (MetaValue, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *Meta) Delete(key string) { delete(m.vals, key) }

func (m *Meta) Len() int { return len(m.vals) }

// Keys are returned sorted.
func (m *Meta) Keys() []string {
	keys := make([]string, 0, len(m.vals))
	for k := range m.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Meta) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.vals)
}
