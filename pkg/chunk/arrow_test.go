package chunk

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/types"
)

func TestArrowRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	ch := sampleChunk(t, 20)

	rec, err := ch.ToArrow(mem)
	require.NoError(t, err)
	assert.Equal(t, int64(20), rec.NumRows())
	assert.Equal(t, int64(12), rec.NumCols())

	sc := rec.Schema()
	assert.True(t, arrow.TypeEqual(arrow.PrimitiveTypes.Int64, sc.Field(0).Type))
	assert.True(t, arrow.TypeEqual(arrow.BinaryTypes.String, sc.Field(4).Type))
	assert.True(t, arrow.TypeEqual(arrow.BinaryTypes.Binary, sc.Field(5).Type))
	assert.True(t, arrow.TypeEqual(&arrow.FixedSizeBinaryType{ByteWidth: 16}, sc.Field(6).Type))
	assert.True(t, arrow.TypeEqual(&arrow.FixedSizeBinaryType{ByteWidth: 3}, sc.Field(8).Type))

	names := rec.Column(4).(*array.String)
	assert.True(t, names.IsNull(0))
	assert.Equal(t, "name-1", names.Value(1))
	assert.Equal(t, 7, names.NullN())

	back, err := FromArrow(rec)
	require.NoError(t, err)
	assert.True(t, Equal(ch, back))

	rec.Release()
	mem.AssertSize(t, 0)
}

func TestArrowEmptyChunk(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	ch := sampleChunk(t, 0)

	rec, err := ch.ToArrow(mem)
	require.NoError(t, err)
	back, err := FromArrow(rec)
	require.NoError(t, err)
	assert.Equal(t, 0, back.NumRows())
	assert.True(t, back.Schema().Equal(ch.Schema()))

	rec.Release()
	mem.AssertSize(t, 0)
}

func TestFromArrowInfersTypes(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	sc := arrow.NewSchema([]arrow.Field{
		{Name: "n", Type: arrow.PrimitiveTypes.Int32},
		{Name: "s", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "b", Type: arrow.BinaryTypes.Binary},
		{Name: "ok", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)
	b := array.NewRecordBuilder(mem, sc)
	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2, 3}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "", "c"}, []bool{true, false, true})
	b.Field(2).(*array.BinaryBuilder).AppendValues([][]byte{{1}, {}, {2, 3}}, nil)
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, true}, nil)
	rec := b.NewRecord()
	b.Release()

	ch, err := FromArrow(rec)
	require.NoError(t, err)
	rec.Release()
	mem.AssertSize(t, 0)

	want := NewSchema(
		Field{Name: "n", Type: types.TypeInt},
		Field{Name: "s", Type: types.TypeVarchar, Nullable: true},
		Field{Name: "b", Type: types.TypeVarbinary},
		Field{Name: "ok", Type: types.TypeBoolean},
	)
	assert.True(t, want.Equal(ch.Schema()), ch.Schema().String())
	assert.Equal(t, []interface{}{int32(2), nil, []byte{}, false}, ch.Row(1))
	assert.Equal(t, []interface{}{int32(3), []byte("c"), []byte{2, 3}, true}, ch.Row(2))
}

func TestFromArrowRejects(t *testing.T) {
	build := func(field arrow.Field, fill func(array.Builder)) arrow.Record {
		b := array.NewRecordBuilder(memory.DefaultAllocator, arrow.NewSchema([]arrow.Field{field}, nil))
		defer b.Release()
		fill(b.Field(0))
		return b.NewRecord()
	}
	ints := func(valid []bool) func(array.Builder) {
		return func(b array.Builder) {
			b.(*array.Int32Builder).AppendValues([]int32{1, 2}, valid)
		}
	}

	tests := []struct {
		name    string
		rec     arrow.Record
		errType errors.ErrorType
	}{
		{
			name: "metadata disagrees with storage",
			rec: build(arrow.Field{
				Name:     "x",
				Type:     arrow.PrimitiveTypes.Int32,
				Metadata: arrow.NewMetadata([]string{MetaLogicalType}, []string{"BIGINT"}),
			}, ints(nil)),
			errType: errors.ErrorTypeData,
		},
		{
			name: "unknown logical type",
			rec: build(arrow.Field{
				Name:     "x",
				Type:     arrow.PrimitiveTypes.Int32,
				Metadata: arrow.NewMetadata([]string{MetaLogicalType}, []string{"STRUCT"}),
			}, ints(nil)),
			errType: errors.ErrorTypeData,
		},
		{
			name:    "nulls in non-nullable field",
			rec:     build(arrow.Field{Name: "x", Type: arrow.PrimitiveTypes.Int32}, ints([]bool{true, false})),
			errType: errors.ErrorTypeData,
		},
		{
			name: "unsupported arrow type",
			rec: build(arrow.Field{Name: "x", Type: arrow.FixedWidthTypes.Date32}, func(b array.Builder) {
				b.(*array.Date32Builder).Append(1)
			}),
			errType: errors.ErrorTypeCapability,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer tt.rec.Release()
			_, err := FromArrow(tt.rec)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), err.Error())
		})
	}
}

func TestArrowType(t *testing.T) {
	for _, lt := range types.AllLogicalTypes() {
		dt, err := ArrowType(lt)
		if lt == types.TypeArray {
			assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
			continue
		}
		require.NoError(t, err, lt.String())
		if lt.IsString() {
			assert.Equal(t, arrow.STRING, dt.ID())
		}
	}
}
