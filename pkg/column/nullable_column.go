package column

import (
	"fmt"

	"github.com/ajitpratap0/columnar/pkg/types"
)

// NullableColumn pairs a data column with a null flag column of the same
// size. A null row still occupies a slot in the data column, holding the
// type's zero value.
//
// Every mutation is applied to both columns. The per-column steps cannot
// fail once the source types are checked, so the pair never diverges in
// size.
type NullableColumn struct {
	state
	data    Column
	nulls   *NullColumn
	hasNull bool
}

var _ Column = (*NullableColumn)(nil)

// NewNullable wraps data with the flags in nulls. Both must have the same
// size and data must not be nullable itself.
func NewNullable(data Column, nulls *NullColumn) *NullableColumn {
	if data.IsNullable() {
		panic("column: data column of a nullable column must not be nullable")
	}
	if data.Size() != nulls.Size() {
		panic(fmt.Sprintf("column: %d data rows but %d null flags", data.Size(), nulls.Size()))
	}
	return &NullableColumn{
		data:    data,
		nulls:   nulls,
		hasNull: countNonZero(nulls.data) > 0,
	}
}

func (c *NullableColumn) Size() int { return c.data.Size() }

func (c *NullableColumn) ByteSize() int { return c.data.ByteSize() + c.nulls.ByteSize() }

func (c *NullableColumn) Type() types.LogicalType { return c.data.Type() }

func (c *NullableColumn) IsNullable() bool { return true }

func (c *NullableColumn) IsBinary() bool { return false }

// DataColumn returns the wrapped data column.
func (c *NullableColumn) DataColumn() Column { return c.data }

// NullColumn returns the null flags.
func (c *NullableColumn) NullColumn() *NullColumn { return c.nulls }

// NullFlags returns one flag per row; 1 means null.
func (c *NullableColumn) NullFlags() []uint8 { return c.nulls.data }

func (c *NullableColumn) IsNull(i int) bool { return c.nulls.data[i] != 0 }

// HasNull reports whether any row may be null.
func (c *NullableColumn) HasNull() bool { return c.hasNull }

// SetNull marks row i null. The data slot keeps its value.
func (c *NullableColumn) SetNull(i int) {
	c.nulls.data[i] = 1
	c.hasNull = true
}

// warm forwards to the data column so shared readers never build caches.
func (c *NullableColumn) warm() {
	if w, ok := c.data.(interface{ warm() }); ok {
		w.warm()
	}
}

func (c *NullableColumn) AppendDatum(v interface{}) error {
	if v == nil {
		c.AppendNulls(1)
		return nil
	}
	if err := c.data.AppendDatum(v); err != nil {
		return err
	}
	c.nulls.Append(0)
	return nil
}

func (c *NullableColumn) AppendStrings(values [][]byte) error {
	if err := c.data.AppendStrings(values); err != nil {
		return err
	}
	c.nulls.AppendDefault(len(values))
	return nil
}

func (c *NullableColumn) AppendNumbers(buf []byte) (int, error) {
	n, err := c.data.AppendNumbers(buf)
	if err != nil {
		return n, err
	}
	c.nulls.AppendDefault(n)
	return n, nil
}

// AppendNulls appends n zero values to the data column and flags them.
func (c *NullableColumn) AppendNulls(n int) bool {
	c.data.AppendDefault(n)
	c.nulls.fill(1, n)
	if n > 0 {
		c.hasNull = true
	}
	return true
}

// AppendDefault is AppendNulls: a default row reads as null at this layer.
func (c *NullableColumn) AppendDefault(n int) {
	c.AppendNulls(n)
}

// AppendRange copies data and flags from a nullable src, or data with
// cleared flags from a plain src.
func (c *NullableColumn) AppendRange(src Column, from, count int) {
	if s, ok := src.(*NullableColumn); ok {
		c.data.AppendRange(s.data, from, count)
		c.nulls.AppendRange(s.nulls, from, count)
		c.hasNull = c.hasNull || countNonZero(s.nulls.data[from:from+count]) > 0
		return
	}
	c.data.AppendRange(src, from, count)
	c.nulls.AppendDefault(count)
}

func (c *NullableColumn) AppendSelective(src Column, indexes []uint32) {
	if s, ok := src.(*NullableColumn); ok {
		c.data.AppendSelective(s.data, indexes)
		old := c.nulls.Size()
		c.nulls.AppendSelective(s.nulls, indexes)
		c.hasNull = c.hasNull || countNonZero(c.nulls.data[old:]) > 0
		return
	}
	c.data.AppendSelective(src, indexes)
	c.nulls.AppendDefault(len(indexes))
}

func (c *NullableColumn) AppendValueMultipleTimes(src Column, idx, n int) {
	if s, ok := src.(*NullableColumn); ok {
		c.data.AppendValueMultipleTimes(s.data, idx, n)
		c.nulls.AppendValueMultipleTimes(s.nulls, idx, n)
		c.hasNull = c.hasNull || (n > 0 && s.IsNull(idx))
		return
	}
	c.data.AppendValueMultipleTimes(src, idx, n)
	c.nulls.AppendDefault(n)
}

func (c *NullableColumn) Filter(sel Filter) int {
	return c.FilterRange(sel, 0, c.Size())
}

func (c *NullableColumn) FilterRange(sel Filter, from, to int) int {
	c.data.FilterRange(sel, from, to)
	n := c.nulls.FilterRange(sel, from, to)
	c.hasNull = countNonZero(c.nulls.data) > 0
	return n
}

// CompareAt sorts null rows by nullDirection: a null left row compares as
// nullDirection against a non-null right row and two nulls are equal. Non
// null rows are compared by the data column.
func (c *NullableColumn) CompareAt(left, right int, rhs Column, nullDirection int) int {
	if c.IsNull(left) {
		if rhs.IsNullable() && rhs.(*NullableColumn).IsNull(right) {
			return 0
		}
		return nullDirection
	}
	if o, ok := rhs.(*NullableColumn); ok {
		if o.IsNull(right) {
			return -nullDirection
		}
		return c.data.CompareAt(left, right, o.data, nullDirection)
	}
	return c.data.CompareAt(left, right, rhs, nullDirection)
}

// Resize extends with non-null zero values.
func (c *NullableColumn) Resize(n int) {
	c.data.Resize(n)
	c.nulls.Resize(n)
	c.hasNull = countNonZero(c.nulls.data) > 0
}

func (c *NullableColumn) Assign(n, idx int) {
	null := c.IsNull(idx)
	c.data.Assign(n, idx)
	c.nulls.Assign(n, idx)
	c.hasNull = null && n > 0
}

func (c *NullableColumn) Reserve(rows, nbytes int) {
	c.data.Reserve(rows, nbytes)
	c.nulls.Reserve(rows, 0)
}

func (c *NullableColumn) Clone() Column { return c.cloneNullable() }

func (c *NullableColumn) cloneNullable() *NullableColumn {
	return &NullableColumn{
		state:   c.state,
		data:    c.data.Clone(),
		nulls:   c.nulls.cloneFixed(),
		hasNull: c.hasNull,
	}
}

func (c *NullableColumn) CloneShared() *Ptr { return NewPtr(c.cloneNullable()) }

func (c *NullableColumn) CloneEmpty() Column {
	return NewNullable(c.data.CloneEmpty(), NewNullColumn())
}

func (c *NullableColumn) Take() Column {
	out := &NullableColumn{
		state:   c.state,
		data:    c.data.Take(),
		nulls:   c.nulls.takeFixed(),
		hasNull: c.hasNull,
	}
	c.state = state{}
	c.hasNull = false
	return out
}

func (c *NullableColumn) Swap(other Column) {
	o, ok := other.(*NullableColumn)
	if !ok {
		panic(fmt.Sprintf("column: expected *NullableColumn, got %T", other))
	}
	*c, *o = *o, *c
}

func (c *NullableColumn) Reset() {
	c.data.Reset()
	c.nulls.Reset()
	c.hasNull = false
	c.del = DelNotSatisfied
}

func (c *NullableColumn) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return c.data.Get(i)
}

func (c *NullableColumn) DebugItem(i int) string {
	if c.IsNull(i) {
		return "NULL"
	}
	return c.data.DebugItem(i)
}

func (c *NullableColumn) DebugString() string { return debugString(c) }
