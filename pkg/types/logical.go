// Package types maps the logical column types of the engine onto their
// physical in-memory representation.
//
// Every column is created for exactly one LogicalType. TraitOf resolves that
// tag once, at construction time, into a Trait describing how the values are
// laid out in memory. Several logical types share a physical representation:
// DECIMAL32 is stored exactly like INT and DATETIME exactly like BIGINT. The
// scale and precision of decimals live in the schema, not here.
package types

import (
	"fmt"
	"strings"
)

// LogicalType is the schema-visible type of a column.
type LogicalType uint8

const (
	TypeNone LogicalType = iota
	TypeBoolean
	TypeTinyInt
	TypeUnsignedTinyInt
	TypeSmallInt
	TypeUnsignedSmallInt
	TypeInt
	TypeUnsignedInt
	TypeBigInt
	TypeUnsignedBigInt
	TypeLargeInt
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeDecimalV2
	TypeDecimal32
	TypeDecimal64
	TypeDecimal128
	TypeDateV1
	TypeDate
	TypeDatetimeV1
	TypeDatetime
	TypeChar
	TypeVarchar
	TypeHLL
	TypeObject
	TypePercentile
	TypeJSON
	TypeVarbinary
	TypeArray

	numLogicalTypes
)

var logicalNames = [numLogicalTypes]string{
	TypeNone:             "NONE",
	TypeBoolean:          "BOOLEAN",
	TypeTinyInt:          "TINYINT",
	TypeUnsignedTinyInt:  "UNSIGNED_TINYINT",
	TypeSmallInt:         "SMALLINT",
	TypeUnsignedSmallInt: "UNSIGNED_SMALLINT",
	TypeInt:              "INT",
	TypeUnsignedInt:      "UNSIGNED_INT",
	TypeBigInt:           "BIGINT",
	TypeUnsignedBigInt:   "UNSIGNED_BIGINT",
	TypeLargeInt:         "LARGEINT",
	TypeFloat:            "FLOAT",
	TypeDouble:           "DOUBLE",
	TypeDecimal:          "DECIMAL",
	TypeDecimalV2:        "DECIMALV2",
	TypeDecimal32:        "DECIMAL32",
	TypeDecimal64:        "DECIMAL64",
	TypeDecimal128:       "DECIMAL128",
	TypeDateV1:           "DATE_V1",
	TypeDate:             "DATE",
	TypeDatetimeV1:       "DATETIME_V1",
	TypeDatetime:         "DATETIME",
	TypeChar:             "CHAR",
	TypeVarchar:          "VARCHAR",
	TypeHLL:              "HLL",
	TypeObject:           "OBJECT",
	TypePercentile:       "PERCENTILE",
	TypeJSON:             "JSON",
	TypeVarbinary:        "VARBINARY",
	TypeArray:            "ARRAY",
}

// AllLogicalTypes returns every defined logical type in declaration order.
func AllLogicalTypes() []LogicalType {
	out := make([]LogicalType, 0, numLogicalTypes)
	for lt := TypeNone; lt < numLogicalTypes; lt++ {
		out = append(out, lt)
	}
	return out
}

// Valid reports whether lt is one of the declared tags.
func (lt LogicalType) Valid() bool {
	return lt < numLogicalTypes
}

func (lt LogicalType) String() string {
	if !lt.Valid() {
		return fmt.Sprintf("LogicalType(%d)", uint8(lt))
	}
	return logicalNames[lt]
}

// ParseLogicalType is the inverse of String. Matching is case-insensitive.
func ParseLogicalType(name string) (LogicalType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for lt := TypeNone; lt < numLogicalTypes; lt++ {
		if logicalNames[lt] == upper {
			return lt, nil
		}
	}
	return TypeNone, fmt.Errorf("unknown logical type %q", name)
}

// MarshalText lets logical types appear by name in YAML and JSON documents.
func (lt LogicalType) MarshalText() ([]byte, error) {
	if !lt.Valid() {
		return nil, fmt.Errorf("invalid logical type %d", uint8(lt))
	}
	return []byte(logicalNames[lt]), nil
}

// UnmarshalText parses a logical type name.
func (lt *LogicalType) UnmarshalText(text []byte) error {
	parsed, err := ParseLogicalType(string(text))
	if err != nil {
		return err
	}
	*lt = parsed
	return nil
}

// IsBinary reports whether lt is stored as a variable-length byte view.
func (lt LogicalType) IsBinary() bool {
	return TraitOf(lt).Physical == KindSlice
}

// IsFixed reports whether lt has a fixed per-element byte width.
func (lt LogicalType) IsFixed() bool {
	return TraitOf(lt).Size != VariableSize
}

// IsInteger reports whether lt is one of the plain integer types.
func (lt LogicalType) IsInteger() bool {
	switch lt {
	case TypeTinyInt, TypeUnsignedTinyInt, TypeSmallInt, TypeUnsignedSmallInt,
		TypeInt, TypeUnsignedInt, TypeBigInt, TypeUnsignedBigInt, TypeLargeInt:
		return true
	}
	return false
}

// IsDecimal reports whether lt is a fixed-point decimal.
func (lt LogicalType) IsDecimal() bool {
	switch lt {
	case TypeDecimal, TypeDecimalV2, TypeDecimal32, TypeDecimal64, TypeDecimal128:
		return true
	}
	return false
}

// IsDate reports whether lt is any of the date or datetime types.
func (lt LogicalType) IsDate() bool {
	switch lt {
	case TypeDateV1, TypeDate, TypeDatetimeV1, TypeDatetime:
		return true
	}
	return false
}

// IsString reports whether lt holds character data rather than opaque bytes.
func (lt LogicalType) IsString() bool {
	switch lt {
	case TypeChar, TypeVarchar, TypeJSON:
		return true
	}
	return false
}
