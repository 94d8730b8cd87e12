// Package column implements the in-memory columns that row batches are
// materialized into.
//
// # Overview
//
// Every column holds values of exactly one logical type, fixed when the
// column is created. The package provides:
//   - BinaryColumn: variable-length bytes stored as one byte buffer plus an
//     offset index, with a lazily built cache of zero-copy views
//   - FixedColumn[T]: a packed slice of one fixed-width element type,
//     instantiated per physical kind
//   - NullableColumn: a data column paired with a per-row null flag column
//   - Ptr: a reference-counted handle used to share an immutable column
//     between batches
//
// All of them implement Column, so algorithms written against the interface
// work on every physical type.
//
// # Layout
//
// A binary column with the values "ab", "", "cde" is stored as
//
//	bytes   = "abcde"
//	offsets = [0, 2, 2, 5]
//
// offsets always has Size()+1 entries, starts at 0 and ends at len(bytes).
// Element i is bytes[offsets[i]:offsets[i+1]].
//
// # Errors
//
// Bulk appends that do not match the physical representation return
// ErrTypeMismatch; AppendNulls on a column without a null channel returns
// false. Both are cheap inline checks on append paths, never panics.
// Out-of-range row indexes and short selection vectors are caller bugs and
// panic through Go's bounds checks.
//
// # Concurrency
//
// Columns are not synchronized. A column may be read from many goroutines
// once nothing mutates it; Ptr.Share hands out such read-only handles and
// Ptr.Mutable refuses to return a column that is still shared.
//
// # Basic Usage
//
//	c := column.New(types.TypeVarchar, true)
//	c.AppendStrings([][]byte{[]byte("hello"), []byte("world")})
//	c.AppendNulls(1)
//
//	keep := column.Filter{1, 0, 1}
//	c.Filter(keep) // 2 rows: "hello", NULL
package column
