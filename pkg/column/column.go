package column

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// Filter is a selection vector with one entry per row. Rows with a nonzero
// entry are kept.
type Filter []uint8

// DeleteState is the outcome of a delete predicate evaluated against a
// column. The column only stores it.
type DeleteState uint8

const (
	// DelNotSatisfied means the predicate was not evaluated or matched no row.
	DelNotSatisfied DeleteState = iota
	// DelPartialSatisfied means some rows matched.
	DelPartialSatisfied
	// DelSatisfied means every row matched.
	DelSatisfied
)

func (s DeleteState) String() string {
	switch s {
	case DelNotSatisfied:
		return "not_satisfied"
	case DelPartialSatisfied:
		return "partial_satisfied"
	case DelSatisfied:
		return "satisfied"
	}
	return fmt.Sprintf("DeleteState(%d)", uint8(s))
}

var (
	// ErrTypeMismatch is returned by bulk appends that the column's physical
	// representation cannot serve.
	ErrTypeMismatch = errors.Sentinel(errors.ErrorTypeTypeMismatch, "append does not match column representation")
	// ErrBadLength is returned by AppendNumbers when the buffer is not a
	// whole number of elements.
	ErrBadLength = errors.Sentinel(errors.ErrorTypeValidation, "buffer length is not a multiple of the element width")
	// ErrNotNullable is returned when a nil datum is appended to a column
	// without a null channel.
	ErrNotNullable = errors.Sentinel(errors.ErrorTypeCapability, "column is not nullable")
	// ErrShared is returned by Ptr.Mutable while other handles exist.
	ErrShared = errors.Sentinel(errors.ErrorTypeShared, "column is shared")
)

// Column is the capability set every column implementation provides.
//
// Methods taking a source column require it to have the receiver's concrete
// type (a NullableColumn also accepts its data column's type). Passing any
// other column panics.
type Column interface {
	// Size returns the number of rows.
	Size() int
	// ByteSize returns the memory held by payload and index structures.
	ByteSize() int
	Type() types.LogicalType
	IsNullable() bool
	IsBinary() bool

	// AppendDatum appends one value of the column's native Go type. A nil
	// datum appends a null.
	AppendDatum(v interface{}) error
	// AppendStrings appends byte views. It fails with ErrTypeMismatch, and
	// appends nothing, unless values are stored as byte views.
	AppendStrings(values [][]byte) error
	// AppendNumbers reinterprets buf as packed native-endian elements and
	// appends them, returning the number of rows appended. Variable-length
	// columns return (-1, ErrTypeMismatch).
	AppendNumbers(buf []byte) (int, error)
	// AppendNulls appends n null rows. It reports false, and does nothing,
	// on columns that cannot represent null.
	AppendNulls(n int) bool
	// AppendDefault appends n rows holding the type's zero value.
	AppendDefault(n int)
	// AppendRange appends rows [from, from+count) of src.
	AppendRange(src Column, from, count int)
	// AppendSelective appends the rows of src listed in indexes, in order.
	AppendSelective(src Column, indexes []uint32)
	// AppendValueMultipleTimes appends row idx of src n times.
	AppendValueMultipleTimes(src Column, idx, n int)

	// Filter keeps the rows selected by sel, which must have Size()
	// entries, and returns the new size.
	Filter(sel Filter) int
	// FilterRange compacts rows [from, to) by sel and keeps every other row.
	// sel is indexed by row and must cover [from, to).
	FilterRange(sel Filter, from, to int) int
	// CompareAt orders row left of the receiver against row right of rhs.
	// nanDirection decides where null sorts for nullable columns.
	CompareAt(left, right int, rhs Column, nanDirection int) int

	// Resize truncates or extends with zero values.
	Resize(n int)
	// Assign replaces the contents with n copies of row idx.
	Assign(n, idx int)
	// Reserve ensures capacity for rows rows and, on binary columns, bytes
	// payload bytes without changing Size.
	Reserve(rows, bytes int)

	// Clone returns an independent deep copy.
	Clone() Column
	// CloneShared returns a deep copy behind a reference-counted handle.
	CloneShared() *Ptr
	// CloneEmpty returns an empty column of the same type.
	CloneEmpty() Column
	// Take moves the contents into a new column and leaves the receiver
	// empty.
	Take() Column
	// Swap exchanges the full state of two columns of the same type.
	Swap(other Column)
	// Reset empties the column and clears its delete state, keeping the
	// allocated capacity.
	Reset()

	DeleteState() DeleteState
	SetDeleteState(s DeleteState)

	// Get returns row i as a Go value, or nil for a null row.
	Get(i int) interface{}
	DebugItem(i int) string
	DebugString() string
}

// state is embedded by every column implementation.
type state struct {
	del DeleteState
}

func (s *state) DeleteState() DeleteState { return s.del }

func (s *state) SetDeleteState(del DeleteState) { s.del = del }

func mismatch(v interface{}, lt types.LogicalType) error {
	return errors.Wrap(ErrTypeMismatch, errors.ErrorTypeTypeMismatch,
		fmt.Sprintf("cannot append %T to %s column", v, lt))
}

func debugString(c Column) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < c.Size(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.DebugItem(i))
	}
	b.WriteByte(']')
	return b.String()
}

// countNonZero reports how many flags are set.
func countNonZero(flags []uint8) int {
	n := 0
	for _, f := range flags {
		if f != 0 {
			n++
		}
	}
	return n
}
