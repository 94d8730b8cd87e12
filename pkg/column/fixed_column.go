package column

import (
	"cmp"
	"fmt"
	"slices"
	"unsafe"

	"github.com/ajitpratap0/columnar/pkg/types"
)

// FixedColumn stores values of one fixed-width element type in a packed
// slice. It is instantiated once per physical kind, so per-row operations
// never dispatch on the logical type.
type FixedColumn[T types.Fixed] struct {
	state
	lt      types.LogicalType
	width   int
	data    []T
	compare func(a, b T) int
}

// Aliases for the instantiations most callers name directly.
type (
	BoolColumn    = FixedColumn[bool]
	Int8Column    = FixedColumn[int8]
	UInt8Column   = FixedColumn[uint8]
	Int16Column   = FixedColumn[int16]
	Int32Column   = FixedColumn[int32]
	Int64Column   = FixedColumn[int64]
	Int128Column  = FixedColumn[types.Int128]
	FloatColumn   = FixedColumn[float32]
	DoubleColumn  = FixedColumn[float64]
	DecimalColumn = FixedColumn[types.DecimalV2]

	// NullColumn holds one flag per row of a NullableColumn; 1 means null.
	NullColumn = FixedColumn[uint8]
)

var _ Column = (*FixedColumn[int32])(nil)

// NewFixed creates an empty column of lt backed by T. It panics when T is
// not the physical representation of lt.
func NewFixed[T types.Fixed](lt types.LogicalType) *FixedColumn[T] {
	kind, compare := fixedKind[T]()
	if trait := types.TraitOf(lt); trait.Physical != kind {
		panic(fmt.Sprintf("column: %s is stored as %s, not %s", lt, trait.Physical, kind))
	}
	return &FixedColumn[T]{lt: lt, width: types.SizeOf[T](), compare: compare}
}

// NewNullColumn creates an empty null flag column.
func NewNullColumn() *NullColumn {
	return NewFixed[uint8](types.TypeUnsignedTinyInt)
}

// fixedKind maps T to its physical kind and ordering.
func fixedKind[T types.Fixed]() (types.PhysicalKind, func(a, b T) int) {
	var zero T
	var kind types.PhysicalKind
	var f interface{}
	switch any(zero).(type) {
	case bool:
		kind, f = types.KindBool, compareBool
	case int8:
		kind, f = types.KindInt8, cmp.Compare[int8]
	case uint8:
		kind, f = types.KindUint8, cmp.Compare[uint8]
	case int16:
		kind, f = types.KindInt16, cmp.Compare[int16]
	case uint16:
		kind, f = types.KindUint16, cmp.Compare[uint16]
	case int32:
		kind, f = types.KindInt32, cmp.Compare[int32]
	case uint32:
		kind, f = types.KindUint32, cmp.Compare[uint32]
	case int64:
		kind, f = types.KindInt64, cmp.Compare[int64]
	case uint64:
		kind, f = types.KindUint64, cmp.Compare[uint64]
	case float32:
		kind, f = types.KindFloat32, cmp.Compare[float32]
	case float64:
		kind, f = types.KindFloat64, cmp.Compare[float64]
	case types.Int128:
		kind, f = types.KindInt128, types.Int128.Compare
	case types.Uint128:
		kind, f = types.KindUint128, types.Uint128.Compare
	case types.Decimal12:
		kind, f = types.KindDecimal12, types.Decimal12.Compare
	case types.DecimalV2:
		kind, f = types.KindDecimalV2, types.DecimalV2.Compare
	case types.Uint24:
		kind, f = types.KindUint24, types.Uint24.Compare
	default:
		panic(fmt.Sprintf("column: no physical kind for %T", zero))
	}
	return kind, f.(func(a, b T) int)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func (c *FixedColumn[T]) Size() int { return len(c.data) }

func (c *FixedColumn[T]) ByteSize() int { return len(c.data) * c.width }

func (c *FixedColumn[T]) Type() types.LogicalType { return c.lt }

func (c *FixedColumn[T]) IsNullable() bool { return false }

func (c *FixedColumn[T]) IsBinary() bool { return false }

// Data returns the packed values. The slice aliases the column.
func (c *FixedColumn[T]) Data() []T { return c.data }

func (c *FixedColumn[T]) Value(i int) T { return c.data[i] }

func (c *FixedColumn[T]) Append(v T) { c.data = append(c.data, v) }

func (c *FixedColumn[T]) AppendDatum(v interface{}) error {
	switch d := v.(type) {
	case T:
		c.data = append(c.data, d)
	case nil:
		return ErrNotNullable
	default:
		return mismatch(v, c.lt)
	}
	return nil
}

// AppendStrings always fails: fixed-width rows are not byte views.
func (c *FixedColumn[T]) AppendStrings(values [][]byte) error {
	return ErrTypeMismatch
}

// AppendNumbers copies buf, laid out as packed T in native byte order.
// BOOLEAN columns expect every byte to be 0 or 1.
func (c *FixedColumn[T]) AppendNumbers(buf []byte) (int, error) {
	if len(buf)%c.width != 0 {
		return -1, ErrBadLength
	}
	n := len(buf) / c.width
	if n == 0 {
		return 0, nil
	}
	old := len(c.data)
	c.data = slices.Grow(c.data, n)[:old+n]
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&c.data[old])), len(buf)), buf)
	return n, nil
}

// RawBytes returns the packed values as bytes in native order, the inverse
// of AppendNumbers. The slice aliases the column.
func (c *FixedColumn[T]) RawBytes() []byte {
	if len(c.data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&c.data[0])), len(c.data)*c.width)
}

func (c *FixedColumn[T]) AppendNulls(n int) bool { return false }

func (c *FixedColumn[T]) AppendDefault(n int) {
	old := len(c.data)
	c.data = slices.Grow(c.data, n)[:old+n]
	clear(c.data[old:])
}

// fill appends n copies of v.
func (c *FixedColumn[T]) fill(v T, n int) {
	c.data = slices.Grow(c.data, n)
	for i := 0; i < n; i++ {
		c.data = append(c.data, v)
	}
}

func (c *FixedColumn[T]) AppendRange(src Column, from, count int) {
	if count == 0 {
		return
	}
	c.data = append(c.data, asFixed[T](src).data[from:from+count]...)
}

func (c *FixedColumn[T]) AppendSelective(src Column, indexes []uint32) {
	s := asFixed[T](src).data
	c.data = slices.Grow(c.data, len(indexes))
	for _, idx := range indexes {
		c.data = append(c.data, s[idx])
	}
}

func (c *FixedColumn[T]) AppendValueMultipleTimes(src Column, idx, n int) {
	c.fill(asFixed[T](src).data[idx], n)
}

func (c *FixedColumn[T]) Filter(sel Filter) int {
	return c.FilterRange(sel, 0, len(c.data))
}

func (c *FixedColumn[T]) FilterRange(sel Filter, from, to int) int {
	dst := from
	for i := from; i < to; i++ {
		if sel[i] != 0 {
			c.data[dst] = c.data[i]
			dst++
		}
	}
	if dst != to {
		dst += copy(c.data[dst:], c.data[to:])
		c.data = c.data[:dst]
	}
	return len(c.data)
}

// CompareAt orders two values. Floats order NaN before every number.
func (c *FixedColumn[T]) CompareAt(left, right int, rhs Column, nanDirection int) int {
	return c.compare(c.data[left], asFixed[T](rhs).data[right])
}

func (c *FixedColumn[T]) Resize(n int) {
	if n > len(c.data) {
		c.AppendDefault(n - len(c.data))
		return
	}
	c.data = c.data[:n]
}

func (c *FixedColumn[T]) Assign(n, idx int) {
	v := c.data[idx]
	c.data = c.data[:0]
	c.fill(v, n)
}

// Reserve ignores nbytes; capacity is counted in rows.
func (c *FixedColumn[T]) Reserve(rows, nbytes int) {
	if cap(c.data) < rows {
		grown := make([]T, len(c.data), rows)
		copy(grown, c.data)
		c.data = grown
	}
}

func (c *FixedColumn[T]) Clone() Column { return c.cloneFixed() }

func (c *FixedColumn[T]) cloneFixed() *FixedColumn[T] {
	out := *c
	out.data = slices.Clone(c.data)
	return &out
}

func (c *FixedColumn[T]) CloneShared() *Ptr { return NewPtr(c.cloneFixed()) }

func (c *FixedColumn[T]) CloneEmpty() Column {
	return &FixedColumn[T]{lt: c.lt, width: c.width, compare: c.compare}
}

func (c *FixedColumn[T]) Take() Column { return c.takeFixed() }

func (c *FixedColumn[T]) takeFixed() *FixedColumn[T] {
	out := *c
	c.data = nil
	c.state = state{}
	return &out
}

func (c *FixedColumn[T]) Swap(other Column) {
	o := asFixed[T](other)
	*c, *o = *o, *c
}

func (c *FixedColumn[T]) Reset() {
	c.data = c.data[:0]
	c.del = DelNotSatisfied
}

func (c *FixedColumn[T]) Get(i int) interface{} { return c.data[i] }

func (c *FixedColumn[T]) DebugItem(i int) string { return fmt.Sprint(c.data[i]) }

func (c *FixedColumn[T]) DebugString() string { return debugString(c) }

func asFixed[T types.Fixed](c Column) *FixedColumn[T] {
	f, ok := c.(*FixedColumn[T])
	if !ok {
		panic(fmt.Sprintf("column: expected %T, got %T", (*FixedColumn[T])(nil), c))
	}
	return f
}
