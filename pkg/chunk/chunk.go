// Package chunk groups columns of equal length into row batches.
//
// A Chunk is the unit passed between producers and consumers of columnar
// data. It owns one column per schema field and keeps them the same size:
// every mutating method either succeeds on all columns or leaves the chunk
// unchanged. Chunks convert to Apache Arrow records, serialize to a
// compressed page format and render as JSON rows.
package chunk

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/metrics"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// Field describes one column of a chunk.
type Field struct {
	Name     string            `json:"name" yaml:"name"`
	Type     types.LogicalType `json:"type" yaml:"type"`
	Nullable bool              `json:"nullable" yaml:"nullable"`
}

func (f Field) String() string {
	if f.Nullable {
		return fmt.Sprintf("%s %s NULL", f.Name, f.Type)
	}
	return fmt.Sprintf("%s %s", f.Name, f.Type)
}

// Schema is an ordered list of uniquely named fields.
type Schema struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// NewSchema builds a schema from fields.
func NewSchema(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Validate checks that names are unique and non-empty and that every type
// has a column implementation.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return errors.Newf(errors.ErrorTypeValidation, "field %d has no name", i)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
		if !f.Type.Valid() {
			return errors.Newf(errors.ErrorTypeValidation, "field %q has invalid type %s", f.Name, f.Type)
		}
		if types.TraitOf(f.Type).Physical == types.KindCollection {
			return errors.Newf(errors.ErrorTypeCapability, "field %q: %s columns are not supported", f.Name, f.Type)
		}
	}
	return nil
}

// Index returns the position of the named field, or -1.
func (s *Schema) Index(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether both schemas have the same fields in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Chunk is a batch of rows stored column by column.
type Chunk struct {
	schema  *Schema
	columns []column.Column
}

// NewChunk creates an empty chunk with one column per field.
func NewChunk(schema *Schema) (*Chunk, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	cols := make([]column.Column, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = column.New(f.Type, f.Nullable)
	}
	return &Chunk{schema: schema, columns: cols}, nil
}

// FromColumns wraps existing columns. Column types, nullability and sizes
// must agree with schema.
func FromColumns(schema *Schema, cols []column.Column) (*Chunk, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if len(cols) != len(schema.Fields) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"schema has %d fields, got %d columns", len(schema.Fields), len(cols))
	}
	for i, f := range schema.Fields {
		c := cols[i]
		if c.Type() != f.Type || c.IsNullable() != f.Nullable {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %d does not match field %s", i, f)
		}
		if c.Size() != cols[0].Size() {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", f.Name, c.Size(), cols[0].Size())
		}
	}
	return &Chunk{schema: schema, columns: cols}, nil
}

func (ch *Chunk) Schema() *Schema { return ch.schema }

// NumRows returns the shared size of the columns.
func (ch *Chunk) NumRows() int {
	if len(ch.columns) == 0 {
		return 0
	}
	return ch.columns[0].Size()
}

func (ch *Chunk) NumColumns() int { return len(ch.columns) }

func (ch *Chunk) Column(i int) column.Column { return ch.columns[i] }

// ColumnByName returns the named column.
func (ch *Chunk) ColumnByName(name string) (column.Column, bool) {
	i := ch.schema.Index(name)
	if i < 0 {
		return nil, false
	}
	return ch.columns[i], true
}

// Reserve forwards capacity hints to every column. bytesPerRow applies to
// binary columns only.
func (ch *Chunk) Reserve(rows, bytesPerRow int) {
	for _, c := range ch.columns {
		c.Reserve(rows, rows*bytesPerRow)
	}
}

// AppendRow appends one value per column in schema order. A nil value
// appends a null. On error no column is modified.
func (ch *Chunk) AppendRow(values ...interface{}) error {
	if len(values) != len(ch.columns) {
		return errors.Newf(errors.ErrorTypeValidation,
			"row has %d values, schema has %d fields", len(values), len(ch.columns))
	}
	n := ch.NumRows()
	for i, v := range values {
		if err := ch.columns[i].AppendDatum(v); err != nil {
			for _, c := range ch.columns[:i] {
				c.Resize(n)
			}
			return errors.Wrap(err, errors.TypeOf(err),
				fmt.Sprintf("field %q", ch.schema.Fields[i].Name))
		}
	}
	metrics.RowsAppended.WithLabelValues("row").Inc()
	return nil
}

// Row returns the values of row i, with nil for nulls.
func (ch *Chunk) Row(i int) []interface{} {
	row := make([]interface{}, len(ch.columns))
	for j, c := range ch.columns {
		row[j] = c.Get(i)
	}
	return row
}

func (ch *Chunk) checkSource(src *Chunk) error {
	if !ch.schema.Equal(src.schema) {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"schema %s does not match %s", src.schema, ch.schema)
	}
	return nil
}

// AppendChunk appends rows [from, from+count) of src, which must have an
// equal schema. src may be ch itself.
func (ch *Chunk) AppendChunk(src *Chunk, from, count int) error {
	if err := ch.checkSource(src); err != nil {
		return err
	}
	if from < 0 || count < 0 || from+count > src.NumRows() {
		return errors.Newf(errors.ErrorTypeValidation,
			"range [%d, %d) outside %d rows", from, from+count, src.NumRows())
	}
	for i, c := range ch.columns {
		c.AppendRange(src.columns[i], from, count)
	}
	metrics.RowsAppended.WithLabelValues("range").Add(float64(count))
	return nil
}

// AppendSelective appends the rows of src listed in indexes.
func (ch *Chunk) AppendSelective(src *Chunk, indexes []uint32) error {
	if err := ch.checkSource(src); err != nil {
		return err
	}
	rows := src.NumRows()
	for _, idx := range indexes {
		if int(idx) >= rows {
			return errors.Newf(errors.ErrorTypeValidation, "index %d outside %d rows", idx, rows)
		}
	}
	for i, c := range ch.columns {
		c.AppendSelective(src.columns[i], indexes)
	}
	metrics.RowsAppended.WithLabelValues("selective").Add(float64(len(indexes)))
	return nil
}

// Filter keeps the rows selected by sel and returns the new row count.
func (ch *Chunk) Filter(sel column.Filter) (int, error) {
	before := ch.NumRows()
	if len(sel) != before {
		return before, errors.Newf(errors.ErrorTypeValidation,
			"selection has %d entries, chunk has %d rows", len(sel), before)
	}
	after := before
	for _, c := range ch.columns {
		after = c.Filter(sel)
	}
	metrics.RowsFiltered.WithLabelValues("kept").Add(float64(after))
	metrics.RowsFiltered.WithLabelValues("dropped").Add(float64(before - after))
	return after, nil
}

// Clone returns a deep copy.
func (ch *Chunk) Clone() *Chunk {
	cols := make([]column.Column, len(ch.columns))
	for i, c := range ch.columns {
		cols[i] = c.Clone()
	}
	return &Chunk{schema: ch.schema, columns: cols}
}

// CloneEmpty returns an empty chunk with the same schema.
func (ch *Chunk) CloneEmpty() *Chunk {
	cols := make([]column.Column, len(ch.columns))
	for i, c := range ch.columns {
		cols[i] = c.CloneEmpty()
	}
	return &Chunk{schema: ch.schema, columns: cols}
}

// Reset empties every column, keeping capacity.
func (ch *Chunk) Reset() {
	for _, c := range ch.columns {
		c.Reset()
	}
}

// ByteSize sums the memory held by the columns.
func (ch *Chunk) ByteSize() int {
	n := 0
	for _, c := range ch.columns {
		n += c.ByteSize()
	}
	return n
}

// SetDeleteState broadcasts s to every column.
func (ch *Chunk) SetDeleteState(s column.DeleteState) {
	for _, c := range ch.columns {
		c.SetDeleteState(s)
	}
}

// Equal reports whether a and b have equal schemas and equal rows. Nulls
// compare equal to each other.
func Equal(a, b *Chunk) bool {
	if !a.schema.Equal(b.schema) || a.NumRows() != b.NumRows() {
		return false
	}
	for i, c := range a.columns {
		other := b.columns[i]
		for r := 0; r < a.NumRows(); r++ {
			if c.CompareAt(r, r, other, 1) != 0 {
				return false
			}
		}
	}
	return true
}

func (ch *Chunk) DebugString() string {
	var b strings.Builder
	for i, f := range ch.schema.Fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(ch.columns[i].DebugString())
	}
	return b.String()
}
