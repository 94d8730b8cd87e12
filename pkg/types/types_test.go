package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTraitOf(t *testing.T) {
	tests := []struct {
		logical  LogicalType
		physical PhysicalKind
		size     int
	}{
		{TypeNone, KindBool, 1},
		{TypeBoolean, KindBool, 1},
		{TypeTinyInt, KindInt8, 1},
		{TypeUnsignedTinyInt, KindUint8, 1},
		{TypeSmallInt, KindInt16, 2},
		{TypeUnsignedSmallInt, KindUint16, 2},
		{TypeInt, KindInt32, 4},
		{TypeUnsignedInt, KindUint32, 4},
		{TypeBigInt, KindInt64, 8},
		{TypeUnsignedBigInt, KindUint64, 8},
		{TypeLargeInt, KindInt128, 16},
		{TypeFloat, KindFloat32, 4},
		{TypeDouble, KindFloat64, 8},
		{TypeDecimal, KindDecimal12, 12},
		{TypeDecimalV2, KindDecimalV2, 16},
		{TypeDecimal32, KindInt32, 4},
		{TypeDecimal64, KindInt64, 8},
		{TypeDecimal128, KindInt128, 16},
		{TypeDateV1, KindUint24, 3},
		{TypeDate, KindInt32, 4},
		{TypeDatetimeV1, KindInt64, 8},
		{TypeDatetime, KindInt64, 8},
		{TypeChar, KindSlice, VariableSize},
		{TypeVarchar, KindSlice, VariableSize},
		{TypeHLL, KindSlice, VariableSize},
		{TypeObject, KindSlice, VariableSize},
		{TypePercentile, KindSlice, VariableSize},
		{TypeJSON, KindSlice, VariableSize},
		{TypeVarbinary, KindSlice, VariableSize},
		{TypeArray, KindCollection, VariableSize},
	}

	require.Len(t, tests, len(AllLogicalTypes()), "every logical type needs a case")

	for _, tt := range tests {
		t.Run(tt.logical.String(), func(t *testing.T) {
			trait := TraitOf(tt.logical)
			assert.Equal(t, tt.logical, trait.Logical)
			assert.Equal(t, tt.physical, trait.Physical)
			assert.Equal(t, tt.size, trait.Size)
			assert.Equal(t, tt.size != VariableSize, trait.Fixed())
		})
	}
}

func TestTraitOfUndeclaredTagPanics(t *testing.T) {
	assert.Panics(t, func() { TraitOf(numLogicalTypes) })
	assert.Panics(t, func() { TraitOf(LogicalType(200)) })
}

func TestSizeOfMatchesTraits(t *testing.T) {
	widths := map[PhysicalKind]int{
		KindBool:      SizeOf[bool](),
		KindInt8:      SizeOf[int8](),
		KindUint8:     SizeOf[uint8](),
		KindInt16:     SizeOf[int16](),
		KindUint16:    SizeOf[uint16](),
		KindInt32:     SizeOf[int32](),
		KindUint32:    SizeOf[uint32](),
		KindInt64:     SizeOf[int64](),
		KindUint64:    SizeOf[uint64](),
		KindInt128:    SizeOf[Int128](),
		KindUint128:   SizeOf[Uint128](),
		KindFloat32:   SizeOf[float32](),
		KindFloat64:   SizeOf[float64](),
		KindDecimal12: SizeOf[Decimal12](),
		KindDecimalV2: SizeOf[DecimalV2](),
		KindUint24:    SizeOf[Uint24](),
	}
	for _, lt := range AllLogicalTypes() {
		trait := TraitOf(lt)
		if !trait.Fixed() {
			continue
		}
		assert.Equal(t, trait.Size, widths[trait.Physical], "width of %s", lt)
	}
}

func TestParseLogicalType(t *testing.T) {
	for _, lt := range AllLogicalTypes() {
		parsed, err := ParseLogicalType(lt.String())
		require.NoError(t, err)
		assert.Equal(t, lt, parsed)
	}

	parsed, err := ParseLogicalType(" varchar ")
	require.NoError(t, err)
	assert.Equal(t, TypeVarchar, parsed)

	_, err = ParseLogicalType("STRUCT")
	assert.Error(t, err)
}

func TestLogicalTypeYAML(t *testing.T) {
	type doc struct {
		Type LogicalType `yaml:"type"`
	}
	out, err := yaml.Marshal(doc{Type: TypeDecimal64})
	require.NoError(t, err)
	assert.Equal(t, "type: DECIMAL64\n", string(out))

	var in doc
	require.NoError(t, yaml.Unmarshal([]byte("type: json"), &in))
	assert.Equal(t, TypeJSON, in.Type)
}

func TestPredicates(t *testing.T) {
	assert.True(t, TypeVarchar.IsBinary())
	assert.True(t, TypeHLL.IsBinary())
	assert.False(t, TypeArray.IsBinary())
	assert.False(t, TypeArray.IsFixed())
	assert.True(t, TypeDate.IsFixed())
	assert.True(t, TypeLargeInt.IsInteger())
	assert.False(t, TypeDecimal32.IsInteger())
	assert.True(t, TypeDecimal32.IsDecimal())
	assert.True(t, TypeDatetimeV1.IsDate())
	assert.True(t, TypeJSON.IsString())
	assert.False(t, TypeVarbinary.IsString())
}

func TestUnsignedOf(t *testing.T) {
	assert.Equal(t, KindUint8, UnsignedOf(KindInt8))
	assert.Equal(t, KindUint16, UnsignedOf(KindInt16))
	assert.Equal(t, KindUint32, UnsignedOf(KindInt32))
	assert.Equal(t, KindUint64, UnsignedOf(KindInt64))
	assert.Equal(t, KindUint128, UnsignedOf(KindInt128))
	assert.Equal(t, KindFloat64, UnsignedOf(KindFloat64))
	assert.Equal(t, KindDecimal12, UnsignedOf(KindDecimal12))
}

func TestInt128(t *testing.T) {
	neg := Int128FromInt64(-5)
	pos := Int128FromInt64(7)
	big := Int128{Lo: 0, Hi: 1}

	assert.Equal(t, "-5", neg.String())
	assert.Equal(t, "18446744073709551616", big.String())
	assert.Negative(t, neg.Compare(pos))
	assert.Positive(t, big.Compare(pos))
	assert.Zero(t, pos.Compare(Int128FromInt64(7)))

	u := Uint128{Lo: 1, Hi: 1}
	assert.Equal(t, "18446744073709551617", u.String())
	assert.Positive(t, u.Compare(Uint128{Lo: 2}))
}

func TestDecimalValues(t *testing.T) {
	d := NewDecimal12(12, 500000000)
	assert.Equal(t, int64(12), d.Integer())
	assert.Equal(t, int32(500000000), d.Fraction())
	assert.Equal(t, "12.500000000", d.String())
	assert.Equal(t, "-0.000000001", NewDecimal12(0, -1).String())
	assert.Negative(t, NewDecimal12(1, 0).Compare(NewDecimal12(1, 1)))

	v2 := DecimalV2{Value: Int128FromInt64(-1_500_000_000)}
	assert.Equal(t, "-1.500000000", v2.String())
	assert.Negative(t, v2.Compare(DecimalV2{}))
}

func TestUint24(t *testing.T) {
	u := NewUint24(0x123456)
	assert.Equal(t, uint32(0x123456), u.Value())
	assert.Equal(t, Uint24{0x56, 0x34, 0x12}, u)
	assert.Equal(t, uint32(0xFFFFFF), NewUint24(0xFFFFFFFF).Value())
	assert.Negative(t, NewUint24(1).Compare(NewUint24(256)))
}
