package safemath

import (
	"github.com/holiman/uint256"
)

const u128Bits = 128

// U128 is an unsigned 128-bit value whose arithmetic fails instead of
// exceeding 2^128-1. Intermediate products of 64-bit operands go through
// it before being narrowed back.
type U128 struct {
	v uint256.Int
}

// NewU128 widens a uint64.
func NewU128(x uint64) U128 {
	var u U128
	u.v.SetUint64(x)
	return u
}

// U128FromWords builds a value from its high and low 64-bit halves.
func U128FromWords(hi, lo uint64) U128 {
	var u U128
	u.v[0] = lo
	u.v[1] = hi
	return u
}

// Hi returns the upper 64 bits.
func (a U128) Hi() uint64 { return a.v[1] }

// Lo returns the lower 64 bits.
func (a U128) Lo() uint64 { return a.v[0] }

// IsZero reports whether a is zero.
func (a U128) IsZero() bool { return a.v.IsZero() }

// Cmp returns -1, 0 or 1.
func (a U128) Cmp(b U128) int { return a.v.Cmp(&b.v) }

// Add returns a+b.
func (a U128) Add(b U128) (U128, error) {
	var r U128
	r.v.Add(&a.v, &b.v)
	if r.v.BitLen() > u128Bits {
		return U128{}, mathError("add128", a, b)
	}
	return r, nil
}

// Sub returns a-b.
func (a U128) Sub(b U128) (U128, error) {
	if a.v.Lt(&b.v) {
		return U128{}, mathError("sub128", a, b)
	}
	var r U128
	r.v.Sub(&a.v, &b.v)
	return r, nil
}

// Mul returns a*b.
func (a U128) Mul(b U128) (U128, error) {
	var r U128
	r.v.Mul(&a.v, &b.v)
	if r.v.BitLen() > u128Bits {
		return U128{}, mathError("mul128", a, b)
	}
	return r, nil
}

// Div returns a/b truncated.
func (a U128) Div(b U128) (U128, error) {
	if b.v.IsZero() {
		return U128{}, mathError("div128", a, b)
	}
	var r U128
	r.v.Div(&a.v, &b.v)
	return r, nil
}

// Uint64 narrows a to 64 bits.
func (a U128) Uint64() (uint64, error) {
	if !a.v.IsUint64() {
		return 0, mathError("narrow64", a, "u64")
	}
	return a.v.Uint64(), nil
}

// String renders a in base 10.
func (a U128) String() string {
	return a.v.Dec()
}

// MulDiv returns a*b/c with a 128-bit intermediate product, narrowed to
// 64 bits.
func MulDiv(a, b, c uint64) (uint64, error) {
	return Chain(NewU128(a)).Mul(b).Div(c).Uint64()
}

// Calc threads a sequence of checked 128-bit operations and keeps the
// first error.
type Calc struct {
	v   U128
	err error
}

// Chain starts a calculation from v.
func Chain(v U128) *Calc {
	return &Calc{v: v}
}

// Mul multiplies by x.
func (c *Calc) Mul(x uint64) *Calc {
	if c.err == nil {
		c.v, c.err = c.v.Mul(NewU128(x))
	}
	return c
}

// Div divides by x.
func (c *Calc) Div(x uint64) *Calc {
	if c.err == nil {
		c.v, c.err = c.v.Div(NewU128(x))
	}
	return c
}

// Result returns the 128-bit result.
func (c *Calc) Result() (U128, error) {
	return c.v, c.err
}

// Uint64 returns the result narrowed to 64 bits.
func (c *Calc) Uint64() (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.v.Uint64()
}
