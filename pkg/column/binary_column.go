package column

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/pool"
	cstrings "github.com/ajitpratap0/columnar/pkg/strings"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// Offset is the element type of a binary column's offset index.
type Offset = uint32

// OffsetSize is the width of one Offset in bytes.
const OffsetSize = 4

// BinaryColumn stores variable-length values back to back in one byte
// buffer. offsets has one entry per row plus a trailing entry equal to
// len(bytes).
type BinaryColumn struct {
	state
	lt      types.LogicalType
	bytes   []byte
	offsets []Offset

	// slices caches a view per row. Only buildCache sets cacheValid and
	// only invalidate clears it.
	slices     [][]byte
	cacheValid bool
}

var _ Column = (*BinaryColumn)(nil)

// NewBinary creates an empty VARCHAR column.
func NewBinary() *BinaryColumn {
	return NewBinaryOf(types.TypeVarchar)
}

// NewBinaryOf creates an empty column for a logical type stored as byte
// views. Any other type panics.
func NewBinaryOf(lt types.LogicalType) *BinaryColumn {
	if !lt.IsBinary() {
		panic(fmt.Sprintf("column: %s is not a binary type", lt))
	}
	return &BinaryColumn{lt: lt, offsets: []Offset{0}}
}

// NewBinaryFrom adopts existing buffers once the offsets are checked to
// start at zero, never decrease and end at len(data). The column owns
// both slices afterwards.
func NewBinaryFrom(lt types.LogicalType, data []byte, offsets []Offset) (*BinaryColumn, error) {
	if !lt.IsBinary() {
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s is not a binary type", lt)
	}
	if len(offsets) == 0 || offsets[0] != 0 {
		return nil, errors.New(errors.ErrorTypeData, "offsets must start with 0")
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, errors.Newf(errors.ErrorTypeData, "offsets decrease at %d", i)
		}
	}
	if int(offsets[len(offsets)-1]) != len(data) {
		return nil, errors.Newf(errors.ErrorTypeData, "last offset %d does not match %d payload bytes",
			offsets[len(offsets)-1], len(data))
	}
	return &BinaryColumn{lt: lt, bytes: data, offsets: offsets}, nil
}

func (c *BinaryColumn) Size() int { return len(c.offsets) - 1 }

func (c *BinaryColumn) ByteSize() int { return len(c.bytes) + len(c.offsets)*OffsetSize }

func (c *BinaryColumn) Type() types.LogicalType { return c.lt }

func (c *BinaryColumn) IsNullable() bool { return false }

func (c *BinaryColumn) IsBinary() bool { return true }

// Bytes returns the payload buffer.
func (c *BinaryColumn) Bytes() []byte { return c.bytes }

// Offsets returns the offset index.
func (c *BinaryColumn) Offsets() []Offset { return c.offsets }

// CacheValid reports whether the view cache is currently built.
func (c *BinaryColumn) CacheValid() bool { return c.cacheValid }

// Data returns one view per row, building the view cache if needed. The
// views alias the payload and are invalidated by the next mutation.
func (c *BinaryColumn) Data() [][]byte {
	if !c.cacheValid {
		c.buildCache()
	}
	return c.slices
}

func (c *BinaryColumn) buildCache() {
	n := c.Size()
	if cap(c.slices) < n {
		c.slices = make([][]byte, n)
	} else {
		c.slices = c.slices[:n]
	}
	for i := 0; i < n; i++ {
		start, end := c.offsets[i], c.offsets[i+1]
		c.slices[i] = c.bytes[start:end:end]
	}
	c.cacheValid = true
}

// warm builds the view cache so readers of a shared column never write.
func (c *BinaryColumn) warm() {
	if !c.cacheValid {
		c.buildCache()
	}
}

func (c *BinaryColumn) invalidate() {
	c.cacheValid = false
}

// Slice returns a view of row i without touching the cache.
func (c *BinaryColumn) Slice(i int) []byte {
	start, end := c.offsets[i], c.offsets[i+1]
	return c.bytes[start:end:end]
}

// String returns row i as a string sharing the payload memory.
func (c *BinaryColumn) String(i int) string {
	return cstrings.BytesToString(c.Slice(i))
}

// Append appends a copy of v.
func (c *BinaryColumn) Append(v []byte) {
	c.bytes = append(c.bytes, v...)
	c.offsets = append(c.offsets, Offset(len(c.bytes)))
	c.invalidate()
}

// AppendString appends a copy of s.
func (c *BinaryColumn) AppendString(s string) {
	c.bytes = append(c.bytes, s...)
	c.offsets = append(c.offsets, Offset(len(c.bytes)))
	c.invalidate()
}

func (c *BinaryColumn) AppendDatum(v interface{}) error {
	switch d := v.(type) {
	case []byte:
		c.Append(d)
	case string:
		c.AppendString(d)
	case nil:
		return ErrNotNullable
	default:
		return mismatch(v, c.lt)
	}
	return nil
}

func (c *BinaryColumn) AppendStrings(values [][]byte) error {
	total := 0
	for _, v := range values {
		total += len(v)
	}
	c.grow(len(values), total)
	for _, v := range values {
		c.bytes = append(c.bytes, v...)
		c.offsets = append(c.offsets, Offset(len(c.bytes)))
	}
	c.invalidate()
	return nil
}

// AppendNumbers always fails: binary rows have no fixed stride.
func (c *BinaryColumn) AppendNumbers(buf []byte) (int, error) {
	return -1, ErrTypeMismatch
}

func (c *BinaryColumn) AppendNulls(n int) bool { return false }

func (c *BinaryColumn) AppendDefault(n int) {
	end := Offset(len(c.bytes))
	for i := 0; i < n; i++ {
		c.offsets = append(c.offsets, end)
	}
	c.invalidate()
}

// AppendRange copies rows [from, from+count) of src. src may be the
// receiver: the source headers are read before anything is appended and
// append never writes below the current length.
func (c *BinaryColumn) AppendRange(src Column, from, count int) {
	if count == 0 {
		return
	}
	s := asBinary(src)
	srcBytes, srcOffsets := s.bytes, s.offsets

	start, end := srcOffsets[from], srcOffsets[from+count]
	base := Offset(len(c.bytes))
	c.grow(count, int(end-start))
	c.bytes = append(c.bytes, srcBytes[start:end]...)
	for i := from + 1; i <= from+count; i++ {
		c.offsets = append(c.offsets, base+srcOffsets[i]-start)
	}
	c.invalidate()
}

func (c *BinaryColumn) AppendSelective(src Column, indexes []uint32) {
	s := asBinary(src)
	srcBytes, srcOffsets := s.bytes, s.offsets
	for _, idx := range indexes {
		c.bytes = append(c.bytes, srcBytes[srcOffsets[idx]:srcOffsets[idx+1]]...)
		c.offsets = append(c.offsets, Offset(len(c.bytes)))
	}
	c.invalidate()
}

func (c *BinaryColumn) AppendValueMultipleTimes(src Column, idx, n int) {
	v := asBinary(src).Slice(idx)
	c.grow(n, len(v)*n)
	for i := 0; i < n; i++ {
		c.bytes = append(c.bytes, v...)
		c.offsets = append(c.offsets, Offset(len(c.bytes)))
	}
	c.invalidate()
}

func (c *BinaryColumn) Filter(sel Filter) int {
	return c.FilterRange(sel, 0, c.Size())
}

// FilterRange compacts kept rows of [from, to) forward in one pass, then
// shifts the rows after to down by the number of dropped bytes.
func (c *BinaryColumn) FilterRange(sel Filter, from, to int) int {
	c.invalidate()
	size := c.Size()

	dst := from
	write := c.offsets[from]
	start := write
	for i := from; i < to; i++ {
		end := c.offsets[i+1]
		if sel[i] != 0 {
			if write != start {
				copy(c.bytes[write:], c.bytes[start:end])
			}
			write += end - start
			dst++
			c.offsets[dst] = write
		}
		start = end
	}
	if dst == to {
		return size
	}

	tailStart := c.offsets[to]
	tailLen := Offset(len(c.bytes)) - tailStart
	copy(c.bytes[write:], c.bytes[tailStart:])
	delta := tailStart - write
	for i := to + 1; i <= size; i++ {
		dst++
		c.offsets[dst] = c.offsets[i] - delta
	}
	c.bytes = c.bytes[:write+tailLen]
	c.offsets = c.offsets[:dst+1]
	return c.Size()
}

// CompareAt compares rows as raw bytes. nanDirection has no meaning for
// non-nullable binary data.
func (c *BinaryColumn) CompareAt(left, right int, rhs Column, nanDirection int) int {
	return bytes.Compare(c.Slice(left), asBinary(rhs).Slice(right))
}

func (c *BinaryColumn) Resize(n int) {
	size := c.Size()
	if n > size {
		c.AppendDefault(n - size)
		return
	}
	c.bytes = c.bytes[:c.offsets[n]]
	c.offsets = c.offsets[:n+1]
	c.invalidate()
}

func (c *BinaryColumn) Assign(n, idx int) {
	v := c.Slice(idx)
	snapshot := pool.GetBytes(len(v))
	defer pool.PutBytes(snapshot)
	*snapshot = append(*snapshot, v...)

	c.bytes = c.bytes[:0]
	c.offsets = c.offsets[:1]
	c.grow(n, len(*snapshot)*n)
	for i := 0; i < n; i++ {
		c.bytes = append(c.bytes, *snapshot...)
		c.offsets = append(c.offsets, Offset(len(c.bytes)))
	}
	c.invalidate()
}

// Reserve sets the offset capacity to at least rows+1 and the payload
// capacity to at least nbytes.
func (c *BinaryColumn) Reserve(rows, nbytes int) {
	if cap(c.offsets) < rows+1 {
		grown := make([]Offset, len(c.offsets), rows+1)
		copy(grown, c.offsets)
		c.offsets = grown
	}
	if cap(c.bytes) < nbytes {
		grown := make([]byte, len(c.bytes), nbytes)
		copy(grown, c.bytes)
		c.bytes = grown
	}
	c.invalidate()
}

// grow makes room for rows more rows and n more payload bytes.
func (c *BinaryColumn) grow(rows, n int) {
	c.offsets = slices.Grow(c.offsets, rows)
	c.bytes = slices.Grow(c.bytes, n)
}

func (c *BinaryColumn) Clone() Column {
	return c.cloneBinary()
}

func (c *BinaryColumn) cloneBinary() *BinaryColumn {
	out := &BinaryColumn{
		state:   c.state,
		lt:      c.lt,
		offsets: make([]Offset, len(c.offsets)),
	}
	copy(out.offsets, c.offsets)
	if len(c.bytes) > 0 {
		out.bytes = make([]byte, len(c.bytes))
		copy(out.bytes, c.bytes)
	}
	return out
}

func (c *BinaryColumn) CloneShared() *Ptr { return NewPtr(c.cloneBinary()) }

func (c *BinaryColumn) CloneEmpty() Column { return NewBinaryOf(c.lt) }

func (c *BinaryColumn) Take() Column {
	out := &BinaryColumn{state: c.state, lt: c.lt, bytes: c.bytes, offsets: c.offsets}
	c.state = state{}
	c.bytes = nil
	c.offsets = []Offset{0}
	c.slices = nil
	c.invalidate()
	return out
}

func (c *BinaryColumn) Swap(other Column) {
	o := asBinary(other)
	*c, *o = *o, *c
}

func (c *BinaryColumn) Reset() {
	c.bytes = c.bytes[:0]
	c.offsets = c.offsets[:1]
	c.del = DelNotSatisfied
	c.invalidate()
}

// Get returns a view of row i.
func (c *BinaryColumn) Get(i int) interface{} { return c.Slice(i) }

func (c *BinaryColumn) DebugItem(i int) string {
	return strconv.Quote(c.String(i))
}

func (c *BinaryColumn) DebugString() string { return debugString(c) }

func asBinary(c Column) *BinaryColumn {
	b, ok := c.(*BinaryColumn)
	if !ok {
		panic(fmt.Sprintf("column: expected *BinaryColumn, got %T", c))
	}
	return b
}
