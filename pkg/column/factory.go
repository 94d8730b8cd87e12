package column

import (
	"github.com/ajitpratap0/columnar/pkg/errors"
	"github.com/ajitpratap0/columnar/pkg/types"
)

// New creates an empty column for lt, wrapped in a NullableColumn when
// nullable is set. The physical representation is resolved here once.
//
// ARRAY columns are not implemented; asking for one panics with a
// capability error.
func New(lt types.LogicalType, nullable bool) Column {
	data := newData(lt)
	if nullable {
		return NewNullable(data, NewNullColumn())
	}
	return data
}

func newData(lt types.LogicalType) Column {
	switch types.TraitOf(lt).Physical {
	case types.KindBool:
		return NewFixed[bool](lt)
	case types.KindInt8:
		return NewFixed[int8](lt)
	case types.KindUint8:
		return NewFixed[uint8](lt)
	case types.KindInt16:
		return NewFixed[int16](lt)
	case types.KindUint16:
		return NewFixed[uint16](lt)
	case types.KindInt32:
		return NewFixed[int32](lt)
	case types.KindUint32:
		return NewFixed[uint32](lt)
	case types.KindInt64:
		return NewFixed[int64](lt)
	case types.KindUint64:
		return NewFixed[uint64](lt)
	case types.KindInt128:
		return NewFixed[types.Int128](lt)
	case types.KindUint128:
		return NewFixed[types.Uint128](lt)
	case types.KindFloat32:
		return NewFixed[float32](lt)
	case types.KindFloat64:
		return NewFixed[float64](lt)
	case types.KindDecimal12:
		return NewFixed[types.Decimal12](lt)
	case types.KindDecimalV2:
		return NewFixed[types.DecimalV2](lt)
	case types.KindUint24:
		return NewFixed[types.Uint24](lt)
	case types.KindSlice:
		return NewBinaryOf(lt)
	}
	panic(errors.Newf(errors.ErrorTypeCapability, "no column implementation for %s", lt))
}
