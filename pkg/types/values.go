package types

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math/big"
)

// Int128 is a two's complement 128-bit integer. LARGEINT and DECIMAL128
// values are stored in this form.
type Int128 struct {
	Lo uint64
	Hi int64
}

// Int128FromInt64 sign-extends v.
func Int128FromInt64(v int64) Int128 {
	return Int128{Lo: uint64(v), Hi: v >> 63}
}

// Compare orders a and b numerically.
func (a Int128) Compare(b Int128) int {
	if c := cmp.Compare(a.Hi, b.Hi); c != 0 {
		return c
	}
	return cmp.Compare(a.Lo, b.Lo)
}

// Big returns v as an arbitrary precision integer.
func (a Int128) Big() *big.Int {
	v := new(big.Int).SetInt64(a.Hi)
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(a.Lo))
}

func (a Int128) String() string { return a.Big().String() }

// Uint128 is the unsigned counterpart of Int128.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

func (a Uint128) Compare(b Uint128) int {
	if c := cmp.Compare(a.Hi, b.Hi); c != 0 {
		return c
	}
	return cmp.Compare(a.Lo, b.Lo)
}

func (a Uint128) String() string {
	v := new(big.Int).SetUint64(a.Hi)
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(a.Lo)).String()
}

// Decimal12 is the legacy DECIMAL value: a 64-bit integer part followed by a
// 32-bit fraction in units of 1e-9, packed into 12 bytes.
type Decimal12 struct {
	raw [12]byte
}

// NewDecimal12 packs integer and fraction parts.
func NewDecimal12(integer int64, fraction int32) Decimal12 {
	var d Decimal12
	binary.LittleEndian.PutUint64(d.raw[0:8], uint64(integer))
	binary.LittleEndian.PutUint32(d.raw[8:12], uint32(fraction))
	return d
}

func (d Decimal12) Integer() int64 { return int64(binary.LittleEndian.Uint64(d.raw[0:8])) }

func (d Decimal12) Fraction() int32 { return int32(binary.LittleEndian.Uint32(d.raw[8:12])) }

func (d Decimal12) Compare(o Decimal12) int {
	if c := cmp.Compare(d.Integer(), o.Integer()); c != 0 {
		return c
	}
	return cmp.Compare(d.Fraction(), o.Fraction())
}

func (d Decimal12) String() string {
	i, f := d.Integer(), d.Fraction()
	sign := ""
	if i < 0 || f < 0 {
		sign = "-"
		if i < 0 {
			i = -i
		}
		if f < 0 {
			f = -f
		}
	}
	return fmt.Sprintf("%s%d.%09d", sign, i, f)
}

// DecimalV2Scale is the fixed number of fractional digits of DecimalV2.
const DecimalV2Scale = 9

var decimalV2Divisor = big.NewInt(1_000_000_000)

// DecimalV2 is a 128-bit fixed point value with DecimalV2Scale digits of
// fraction.
type DecimalV2 struct {
	Value Int128
}

func (d DecimalV2) Compare(o DecimalV2) int { return d.Value.Compare(o.Value) }

func (d DecimalV2) String() string {
	v := d.Value.Big()
	sign := ""
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	q, r := new(big.Int).QuoRem(v, decimalV2Divisor, new(big.Int))
	return fmt.Sprintf("%s%s.%09d", sign, q.String(), r.Int64())
}

// Uint24 is the three byte little-endian encoding of DATE_V1 values.
type Uint24 [3]byte

// NewUint24 truncates v to 24 bits.
func NewUint24(v uint32) Uint24 {
	return Uint24{byte(v), byte(v >> 8), byte(v >> 16)}
}

func (u Uint24) Value() uint32 {
	return uint32(u[0]) | uint32(u[1])<<8 | uint32(u[2])<<16
}

func (u Uint24) Compare(o Uint24) int { return cmp.Compare(u.Value(), o.Value()) }

func (u Uint24) String() string { return fmt.Sprintf("%d", u.Value()) }
