package frame

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind is the value type held by a Column.
type Kind uint8

const (
	KindDecimal Kind = iota
	KindInt
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Column is a named, nullable vector. Every slot starts null; a slot becomes
// valid once a value is set. Validity is a bitmap, one bit per row.
type Column struct {
	name  string
	kind  Kind
	n     int
	nums  []decimal.Decimal
	ints  []int64
	bools []bool
	valid []uint64
}

func newColumn(name string, kind Kind, n int) *Column {
	c := &Column{
		name:  name,
		kind:  kind,
		n:     n,
		valid: make([]uint64, (n+63)/64),
	}
	switch kind {
	case KindDecimal:
		c.nums = make([]decimal.Decimal, n)
	case KindInt:
		c.ints = make([]int64, n)
	case KindBool:
		c.bools = make([]bool, n)
	}
	return c
}

// NewDecimal returns an all-null decimal column of length n.
func NewDecimal(name string, n int) *Column { return newColumn(name, KindDecimal, n) }

// NewInt returns an all-null integer column of length n.
func NewInt(name string, n int) *Column { return newColumn(name, KindInt, n) }

// NewBool returns an all-null boolean column of length n.
func NewBool(name string, n int) *Column { return newColumn(name, KindBool, n) }

// DecimalOf builds a fully valid decimal column.
func DecimalOf(name string, vals ...decimal.Decimal) *Column {
	c := NewDecimal(name, len(vals))
	for i, v := range vals {
		c.SetDecimal(i, v)
	}
	return c
}

// BoolOf builds a boolean column; nil entries are null.
func BoolOf(name string, vals ...*bool) *Column {
	c := NewBool(name, len(vals))
	for i, v := range vals {
		if v != nil {
			c.SetBool(i, *v)
		}
	}
	return c
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return c.n }

func (c *Column) IsNull(i int) bool { return !bitIsSet(c.valid, i) }

func (c *Column) SetNull(i int) { bitClear(c.valid, i) }

func (c *Column) SetDecimal(i int, v decimal.Decimal) {
	c.mustKind(KindDecimal)
	c.nums[i] = v
	bitSet(c.valid, i)
}

func (c *Column) SetInt(i int, v int64) {
	c.mustKind(KindInt)
	c.ints[i] = v
	bitSet(c.valid, i)
}

func (c *Column) SetBool(i int, v bool) {
	c.mustKind(KindBool)
	c.bools[i] = v
	bitSet(c.valid, i)
}

// Decimal returns the value at i; ok is false for null slots or a column of
// another kind.
func (c *Column) Decimal(i int) (decimal.Decimal, bool) {
	if c.kind != KindDecimal || c.IsNull(i) {
		return decimal.Decimal{}, false
	}
	return c.nums[i], true
}

func (c *Column) Int(i int) (int64, bool) {
	if c.kind != KindInt || c.IsNull(i) {
		return 0, false
	}
	return c.ints[i], true
}

func (c *Column) Bool(i int) (bool, bool) {
	if c.kind != KindBool || c.IsNull(i) {
		return false, false
	}
	return c.bools[i], true
}

// NullCount is the number of null slots.
func (c *Column) NullCount() int {
	nulls := 0
	for i := 0; i < c.n; i++ {
		if c.IsNull(i) {
			nulls++
		}
	}
	return nulls
}

// FirstValid is the index of the first non-null slot, or -1.
func (c *Column) FirstValid() int {
	for i := 0; i < c.n; i++ {
		if !c.IsNull(i) {
			return i
		}
	}
	return -1
}

// slice copies rows [from, n).
func (c *Column) slice(from int) *Column {
	out := newColumn(c.name, c.kind, c.n-from)
	for i := from; i < c.n; i++ {
		if c.IsNull(i) {
			continue
		}
		j := i - from
		switch c.kind {
		case KindDecimal:
			out.nums[j] = c.nums[i]
		case KindInt:
			out.ints[j] = c.ints[i]
		case KindBool:
			out.bools[j] = c.bools[i]
		}
		bitSet(out.valid, j)
	}
	return out
}

func (c *Column) mustKind(k Kind) {
	if c.kind != k {
		panic(fmt.Sprintf("frame: column %q is %s, not %s", c.name, c.kind, k))
	}
}

func bitIsSet(bits []uint64, i int) bool {
	return (bits[i>>6] & (uint64(1) << uint(i&63))) != 0
}

func bitSet(bits []uint64, i int) {
	bits[i>>6] |= (uint64(1) << uint(i&63))
}

func bitClear(bits []uint64, i int) {
	bits[i>>6] &^= (uint64(1) << uint(i&63))
}
