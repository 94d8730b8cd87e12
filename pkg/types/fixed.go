package types

import "unsafe"

// Fixed is the set of Go element types backing fixed-width columns. A
// fixed-width column is instantiated once per member, so per-element
// operations never dispatch on the logical type.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64 |
		Int128 | Uint128 | Decimal12 | DecimalV2 | Uint24
}

// SizeOf returns the in-memory width of T. It matches Trait.Size for the
// logical types whose physical kind is T.
func SizeOf[T Fixed]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
