// Package strings provides zero-copy conversions between Go strings and the
// byte views handed out by binary columns.
package strings

import "unsafe"

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice while the string is alive.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes converts string to byte slice without allocation
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Views returns zero-copy byte views over values, suitable for bulk appends
// into a binary column. The column copies the bytes, so the views only need
// to live for the duration of the append.
func Views(values []string) [][]byte {
	out := make([][]byte, len(values))
	for i, s := range values {
		out[i] = StringToBytes(s)
	}
	return out
}

// Clone creates a copy of a string that owns its memory. Use it to keep a
// value read from a column after the column is mutated.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}
