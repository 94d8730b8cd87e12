package types

import "fmt"

// PhysicalKind is the in-memory storage representation of a logical type.
type PhysicalKind uint8

const (
	KindBool PhysicalKind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindInt128
	KindUint128
	KindFloat32
	KindFloat64
	KindDecimal12
	KindDecimalV2
	KindUint24
	// KindSlice is a zero-copy view over a byte buffer.
	KindSlice
	// KindCollection is a nested array value.
	KindCollection
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindInt8:       "int8",
	KindUint8:      "uint8",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindInt128:     "int128",
	KindUint128:    "uint128",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindDecimal12:  "decimal12",
	KindDecimalV2:  "decimalv2",
	KindUint24:     "uint24",
	KindSlice:      "slice",
	KindCollection: "collection",
}

func (k PhysicalKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("PhysicalKind(%d)", uint8(k))
}

// VariableSize is reported as the width of representations with no fixed
// per-element stride.
const VariableSize = -1

// Trait describes how one logical type is laid out in memory.
type Trait struct {
	Logical  LogicalType
	Physical PhysicalKind
	// Size is the element width in bytes, or VariableSize.
	Size int
}

// Fixed reports whether the trait has a fixed element width.
func (t Trait) Fixed() bool { return t.Size != VariableSize }

func (t Trait) String() string {
	if t.Size == VariableSize {
		return fmt.Sprintf("%s -> %s (variable)", t.Logical, t.Physical)
	}
	return fmt.Sprintf("%s -> %s (%d bytes)", t.Logical, t.Physical, t.Size)
}

// traits is indexed by LogicalType; every tag has exactly one entry.
var traits = [numLogicalTypes]Trait{
	TypeNone:             {TypeNone, KindBool, 1},
	TypeBoolean:          {TypeBoolean, KindBool, 1},
	TypeTinyInt:          {TypeTinyInt, KindInt8, 1},
	TypeUnsignedTinyInt:  {TypeUnsignedTinyInt, KindUint8, 1},
	TypeSmallInt:         {TypeSmallInt, KindInt16, 2},
	TypeUnsignedSmallInt: {TypeUnsignedSmallInt, KindUint16, 2},
	TypeInt:              {TypeInt, KindInt32, 4},
	TypeUnsignedInt:      {TypeUnsignedInt, KindUint32, 4},
	TypeBigInt:           {TypeBigInt, KindInt64, 8},
	TypeUnsignedBigInt:   {TypeUnsignedBigInt, KindUint64, 8},
	TypeLargeInt:         {TypeLargeInt, KindInt128, 16},
	TypeFloat:            {TypeFloat, KindFloat32, 4},
	TypeDouble:           {TypeDouble, KindFloat64, 8},
	TypeDecimal:          {TypeDecimal, KindDecimal12, 12},
	TypeDecimalV2:        {TypeDecimalV2, KindDecimalV2, 16},
	TypeDecimal32:        {TypeDecimal32, KindInt32, 4},
	TypeDecimal64:        {TypeDecimal64, KindInt64, 8},
	TypeDecimal128:       {TypeDecimal128, KindInt128, 16},
	TypeDateV1:           {TypeDateV1, KindUint24, 3},
	TypeDate:             {TypeDate, KindInt32, 4},
	TypeDatetimeV1:       {TypeDatetimeV1, KindInt64, 8},
	TypeDatetime:         {TypeDatetime, KindInt64, 8},
	TypeChar:             {TypeChar, KindSlice, VariableSize},
	TypeVarchar:          {TypeVarchar, KindSlice, VariableSize},
	TypeHLL:              {TypeHLL, KindSlice, VariableSize},
	TypeObject:           {TypeObject, KindSlice, VariableSize},
	TypePercentile:       {TypePercentile, KindSlice, VariableSize},
	TypeJSON:             {TypeJSON, KindSlice, VariableSize},
	TypeVarbinary:        {TypeVarbinary, KindSlice, VariableSize},
	TypeArray:            {TypeArray, KindCollection, VariableSize},
}

// TraitOf returns the physical representation of lt. An undeclared tag is a
// programming error and panics.
func TraitOf(lt LogicalType) Trait {
	if !lt.Valid() {
		panic(fmt.Sprintf("types: no trait for %s", lt))
	}
	return traits[lt]
}

// UnsignedOf returns the unsigned counterpart of an integer kind. Other kinds
// are returned unchanged.
func UnsignedOf(k PhysicalKind) PhysicalKind {
	switch k {
	case KindInt8:
		return KindUint8
	case KindInt16:
		return KindUint16
	case KindInt32:
		return KindUint32
	case KindInt64:
		return KindUint64
	case KindInt128:
		return KindUint128
	}
	return k
}
