package chunk

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/columnar/pkg/column"
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// MetaLogicalType is the arrow field metadata key that records the logical
// type of a column. Fields without it are mapped by their arrow type.
const MetaLogicalType = "columnar.logical_type"

// ArrowType returns the arrow type a column of lt converts to. Character
// types become String and the other byte view types Binary. Fixed types
// with a native arrow counterpart map onto it; the wide types are carried
// as FixedSizeBinary in native byte order.
func ArrowType(lt types.LogicalType) (arrow.DataType, error) {
	if lt.IsString() {
		return arrow.BinaryTypes.String, nil
	}
	trait := types.TraitOf(lt)
	switch trait.Physical {
	case types.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.KindInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case types.KindUint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case types.KindInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case types.KindUint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case types.KindInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case types.KindUint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case types.KindInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case types.KindUint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case types.KindFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case types.KindFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case types.KindInt128, types.KindUint128, types.KindDecimal12, types.KindDecimalV2, types.KindUint24:
		return &arrow.FixedSizeBinaryType{ByteWidth: trait.Size}, nil
	case types.KindSlice:
		return arrow.BinaryTypes.Binary, nil
	}
	return nil, errors.Newf(errors.ErrorTypeCapability, "no arrow type for %s", lt)
}

// inferLogical maps an arrow type onto a logical type when the field
// carries no metadata.
func inferLogical(dt arrow.DataType) (types.LogicalType, error) {
	switch dt.ID() {
	case arrow.BOOL:
		return types.TypeBoolean, nil
	case arrow.INT8:
		return types.TypeTinyInt, nil
	case arrow.UINT8:
		return types.TypeUnsignedTinyInt, nil
	case arrow.INT16:
		return types.TypeSmallInt, nil
	case arrow.UINT16:
		return types.TypeUnsignedSmallInt, nil
	case arrow.INT32:
		return types.TypeInt, nil
	case arrow.UINT32:
		return types.TypeUnsignedInt, nil
	case arrow.INT64:
		return types.TypeBigInt, nil
	case arrow.UINT64:
		return types.TypeUnsignedBigInt, nil
	case arrow.FLOAT32:
		return types.TypeFloat, nil
	case arrow.FLOAT64:
		return types.TypeDouble, nil
	case arrow.STRING:
		return types.TypeVarchar, nil
	case arrow.BINARY:
		return types.TypeVarbinary, nil
	}
	return types.TypeNone, errors.Newf(errors.ErrorTypeCapability, "unsupported arrow type %s", dt)
}

// ArrowSchema converts s, tagging every field with its logical type.
func ArrowSchema(s *Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s.Fields))
	for i, f := range s.Fields {
		dt, err := ArrowType(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{
			Name:     f.Name,
			Type:     dt,
			Nullable: f.Nullable,
			Metadata: arrow.NewMetadata([]string{MetaLogicalType}, []string{f.Type.String()}),
		}
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToArrow copies the chunk into an arrow record allocated from mem, or from
// the default allocator when mem is nil. The caller releases the record.
func (ch *Chunk) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	sc, err := ArrowSchema(ch.schema)
	if err != nil {
		return nil, err
	}
	b := array.NewRecordBuilder(mem, sc)
	defer b.Release()

	for i, c := range ch.columns {
		if err := exportColumn(b.Field(i), c); err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "export field "+ch.schema.Fields[i].Name)
		}
	}
	return b.NewRecord(), nil
}

func exportColumn(b array.Builder, c column.Column) error {
	var valid []bool
	data := c
	if nc, ok := c.(*column.NullableColumn); ok {
		data = nc.DataColumn()
		if nc.HasNull() {
			valid = make([]bool, nc.Size())
			for i, f := range nc.NullFlags() {
				valid[i] = f == 0
			}
		}
	}
	b.Reserve(c.Size())

	switch d := data.(type) {
	case *column.BinaryColumn:
		if sb, ok := b.(*array.StringBuilder); ok {
			values := make([]string, d.Size())
			for i := range values {
				values[i] = d.String(i)
			}
			sb.AppendValues(values, valid)
			return nil
		}
		return appendValues(b, d.Data(), valid)
	case *column.BoolColumn:
		return appendValues(b, d.Data(), valid)
	case *column.Int8Column:
		return appendValues(b, d.Data(), valid)
	case *column.UInt8Column:
		return appendValues(b, d.Data(), valid)
	case *column.Int16Column:
		return appendValues(b, d.Data(), valid)
	case *column.FixedColumn[uint16]:
		return appendValues(b, d.Data(), valid)
	case *column.Int32Column:
		return appendValues(b, d.Data(), valid)
	case *column.FixedColumn[uint32]:
		return appendValues(b, d.Data(), valid)
	case *column.Int64Column:
		return appendValues(b, d.Data(), valid)
	case *column.FixedColumn[uint64]:
		return appendValues(b, d.Data(), valid)
	case *column.FloatColumn:
		return appendValues(b, d.Data(), valid)
	case *column.DoubleColumn:
		return appendValues(b, d.Data(), valid)
	case rawColumn:
		width := types.TraitOf(data.Type()).Size
		raw := d.RawBytes()
		views := make([][]byte, data.Size())
		for i := range views {
			views[i] = raw[i*width : (i+1)*width]
		}
		return appendValues(b, views, valid)
	}
	return errors.Newf(errors.ErrorTypeCapability, "cannot export %T", data)
}

// rawColumn is implemented by every fixed-width column.
type rawColumn interface {
	RawBytes() []byte
}

func appendValues[T any](b array.Builder, values []T, valid []bool) error {
	vb, ok := b.(interface{ AppendValues([]T, []bool) })
	if !ok {
		return errors.Newf(errors.ErrorTypeInternal, "builder %T cannot append %T", b, values)
	}
	vb.AppendValues(values, valid)
	return nil
}

// FromArrow copies rec into a new chunk. Fields tagged with MetaLogicalType
// restore their logical type exactly; others are inferred from the arrow
// type.
func FromArrow(rec arrow.Record) (*Chunk, error) {
	sc := rec.Schema()
	fields := make([]Field, sc.NumFields())
	cols := make([]column.Column, sc.NumFields())
	for i, af := range sc.Fields() {
		lt, err := logicalOf(af)
		if err != nil {
			return nil, err
		}
		want, err := ArrowType(lt)
		if err != nil {
			return nil, err
		}
		if !arrow.TypeEqual(want, af.Type) {
			return nil, errors.Newf(errors.ErrorTypeData,
				"field %q: %s is stored as %s, expected %s", af.Name, lt, af.Type, want)
		}
		arr := rec.Column(i)
		if !af.Nullable && arr.NullN() > 0 {
			return nil, errors.Newf(errors.ErrorTypeData,
				"field %q is not nullable but has %d nulls", af.Name, arr.NullN())
		}
		data, err := importColumn(lt, arr)
		if err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "import field "+af.Name)
		}
		if af.Nullable {
			nulls := column.NewNullColumn()
			nulls.Reserve(arr.Len(), 0)
			for j := 0; j < arr.Len(); j++ {
				if arr.IsNull(j) {
					nulls.Append(1)
				} else {
					nulls.Append(0)
				}
			}
			data = column.NewNullable(data, nulls)
		}
		fields[i] = Field{Name: af.Name, Type: lt, Nullable: af.Nullable}
		cols[i] = data
	}
	return FromColumns(NewSchema(fields...), cols)
}

func logicalOf(af arrow.Field) (types.LogicalType, error) {
	if af.HasMetadata() {
		if idx := af.Metadata.FindKey(MetaLogicalType); idx >= 0 {
			lt, err := types.ParseLogicalType(af.Metadata.Values()[idx])
			if err != nil {
				return types.TypeNone, errors.Wrap(err, errors.ErrorTypeData, "field "+af.Name)
			}
			return lt, nil
		}
	}
	return inferLogical(af.Type)
}

func importColumn(lt types.LogicalType, arr arrow.Array) (column.Column, error) {
	n := arr.Len()
	switch a := arr.(type) {
	case *array.Boolean:
		c := column.NewFixed[bool](lt)
		c.Reserve(n, 0)
		for j := 0; j < n; j++ {
			c.Append(a.Value(j))
		}
		return c, nil
	case *array.Int8:
		return fixedFrom(lt, a.Int8Values()), nil
	case *array.Uint8:
		return fixedFrom(lt, a.Uint8Values()), nil
	case *array.Int16:
		return fixedFrom(lt, a.Int16Values()), nil
	case *array.Uint16:
		return fixedFrom(lt, a.Uint16Values()), nil
	case *array.Int32:
		return fixedFrom(lt, a.Int32Values()), nil
	case *array.Uint32:
		return fixedFrom(lt, a.Uint32Values()), nil
	case *array.Int64:
		return fixedFrom(lt, a.Int64Values()), nil
	case *array.Uint64:
		return fixedFrom(lt, a.Uint64Values()), nil
	case *array.Float32:
		return fixedFrom(lt, a.Float32Values()), nil
	case *array.Float64:
		return fixedFrom(lt, a.Float64Values()), nil
	case *array.String:
		c := column.NewBinaryOf(lt)
		c.Reserve(n, len(a.ValueBytes()))
		for j := 0; j < n; j++ {
			c.AppendString(a.Value(j))
		}
		return c, nil
	case *array.Binary:
		c := column.NewBinaryOf(lt)
		c.Reserve(n, len(a.ValueBytes()))
		for j := 0; j < n; j++ {
			c.Append(a.Value(j))
		}
		return c, nil
	case *array.FixedSizeBinary:
		width := types.TraitOf(lt).Size
		buf := make([]byte, 0, n*width)
		for j := 0; j < n; j++ {
			if a.IsNull(j) {
				buf = append(buf, make([]byte, width)...)
				continue
			}
			buf = append(buf, a.Value(j)...)
		}
		c := column.New(lt, false)
		if _, err := c.AppendNumbers(buf); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "fixed size binary payload")
		}
		return c, nil
	}
	return nil, errors.Newf(errors.ErrorTypeCapability, "unsupported arrow array %T", arr)
}

func fixedFrom[T types.Fixed](lt types.LogicalType, values []T) *column.FixedColumn[T] {
	c := column.NewFixed[T](lt)
	c.Reserve(len(values), 0)
	for _, v := range values {
		c.Append(v)
	}
	return c
}
