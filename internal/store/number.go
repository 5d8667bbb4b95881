// Package store holds the four heap-shaped payload arenas (number, array,
// object use this file and array.go/object.go; strings are interned by
// internal/intern) behind slot indices instead of raw pointers. It knows
// nothing about vjson.Value's tag-bit packing — it only deals in opaque
// uint32 slot indices and, for composite payloads, the raw uint64 child
// words the vjson package packs/unpacks.
package store

import (
	"math"
	"math/big"

	"github.com/arakawa-lab/vjson/internal/arena"
	"github.com/arakawa-lab/vjson/internal/hash"
)

// Shape discriminates a Number payload's storage form. Equality and
// ordering compare by mathematical value across shapes; Shape only affects
// how the value is physically stored and whether HasDecimalPoint is true.
type Shape uint8

const (
	ShapeShortInt Shape = iota // fits in 24 bits signed, stored in i64
	ShapeI64
	ShapeU64
	ShapeF64
)

// Number is the number heap payload: exactly one of i64/u64/f64 is
// meaningful, selected by Shape.
type Number struct {
	Shape           Shape
	I64             int64
	U64             uint64
	F64             float64
	HasDecimalPoint bool
}

const (
	smallTableMin  = -128
	smallTableSize = 512
)

var numberArena = arena.New[Number](smallTableSize)

func init() {
	for i := 0; i < smallTableSize; i++ {
		v := int64(i + smallTableMin)
		numberArena.Static(uint32(i), Number{Shape: ShapeShortInt, I64: v})
	}
}

// SmallIndex returns the static small-number table slot for v, if v falls
// in the precomputed range [-128, 383].
func SmallIndex(v int64) (uint32, bool) {
	if v < smallTableMin || v >= smallTableMin+smallTableSize {
		return 0, false
	}

	return uint32(v - smallTableMin), true
}

const (
	shortIntMin = -(1 << 23)
	shortIntMax = (1 << 23) - 1
)

// NumberFromI64 returns a slot index for v, using the static small table
// when possible, else a short-int or wide i64 cell.
func NumberFromI64(v int64) uint32 {
	if idx, ok := SmallIndex(v); ok {
		return idx
	}

	shape := ShapeI64
	if v >= shortIntMin && v <= shortIntMax {
		shape = ShapeShortInt
	}

	return numberArena.Alloc(Number{Shape: shape, I64: v})
}

// NumberFromU64 returns a slot index for v, demoting to the signed path
// when v fits in int64 (so it can share the small table / short-int cell),
// else allocating a wide u64 cell.
func NumberFromU64(v uint64) uint32 {
	if v <= math.MaxInt64 {
		return NumberFromI64(int64(v))
	}

	return numberArena.Alloc(Number{Shape: ShapeU64, U64: v})
}

// NumberFromF64 allocates a wide f64 cell for v, rejecting non-finite
// values per spec. Floats never reuse the small table or a short-int cell,
// even when their value is integral, because HasDecimalPoint must stay true
// for values constructed this way.
func NumberFromF64(v float64) (uint32, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return numberArena.Alloc(Number{Shape: ShapeF64, F64: v, HasDecimalPoint: true}), true
}

// Get returns the Number payload at idx.
func Get(idx uint32) Number {
	return *numberArena.Get(idx)
}

// Retain increments idx's refcount (no-op for small-table slots).
func Retain(idx uint32) { numberArena.Retain(idx) }

// Release decrements idx's refcount, reporting whether it reached zero.
func Release(idx uint32) bool { return numberArena.Release(idx) }

// RefCount reports idx's current refcount (negative means static).
func RefCount(idx uint32) int32 { return numberArena.RefCount(idx) }

// AllocCount returns the arena's total allocation count, for tests.
func AllocCount() uint64 { return numberArena.AllocCount() }

// asBigFloat converts a Number to an exact *big.Float, used for comparisons
// that must not go through a lossy float64 round-trip for large integers.
func (n Number) asBigFloat() *big.Float {
	switch n.Shape {
	case ShapeU64:
		return new(big.Float).SetPrec(128).SetUint64(n.U64)
	case ShapeF64:
		return new(big.Float).SetPrec(128).SetFloat64(n.F64)
	default:
		return new(big.Float).SetPrec(128).SetInt64(n.I64)
	}
}

// Equal reports whether a and b represent the same mathematical value,
// regardless of shape (2, 2u, and 2.0 all compare equal).
func Equal(a, b Number) bool {
	return Compare(a, b) == 0
}

// Compare orders a and b by mathematical value. Integer/integer comparisons
// never touch floating point; comparisons involving a float use exact
// arbitrary-precision arithmetic so magnitudes beyond 2^53 are never
// silently rounded.
func Compare(a, b Number) int {
	if a.Shape != ShapeF64 && b.Shape != ShapeF64 {
		return compareInts(a, b)
	}

	return a.asBigFloat().Cmp(b.asBigFloat())
}

func compareInts(a, b Number) int {
	aNeg := a.Shape != ShapeU64 && a.I64 < 0
	bNeg := b.Shape != ShapeU64 && b.I64 < 0

	switch {
	case aNeg && !bNeg:
		return -1
	case !aNeg && bNeg:
		return 1
	case aNeg && bNeg:
		switch {
		case a.I64 < b.I64:
			return -1
		case a.I64 > b.I64:
			return 1
		default:
			return 0
		}
	default:
		au := asUint64(a)
		bu := asUint64(b)
		switch {
		case au < bu:
			return -1
		case au > bu:
			return 1
		default:
			return 0
		}
	}
}

func asUint64(n Number) uint64 {
	if n.Shape == ShapeU64 {
		return n.U64
	}

	return uint64(n.I64)
}

// canonicalBytes returns the canonical encoding used for hashing: the
// narrowest lossless form so 2, 2u, and 2.0 hash identically.
func canonicalBytes(n Number) [8]byte {
	var buf [8]byte

	switch n.Shape {
	case ShapeF64:
		const maxExact = 9223372036854775808.0 // 2^63, one past MaxInt64
		if f := n.F64; f == math.Trunc(f) && f >= -maxExact && f < maxExact {
			putInt64(&buf, int64(f))
		} else if f == math.Trunc(f) && f >= maxExact && f < 2*maxExact {
			putUint64(&buf, uint64(f))
		} else {
			putUint64(&buf, math.Float64bits(n.F64))
		}
	case ShapeU64:
		putUint64(&buf, n.U64)
	default:
		putInt64(&buf, n.I64)
	}

	return buf
}

func putInt64(buf *[8]byte, v int64) { putUint64(buf, uint64(v)) }

func putUint64(buf *[8]byte, v uint64) {
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
}

// Hash returns a hash consistent with Equal: numerically equal numbers of
// any shape hash identically.
func Hash(n Number) uint64 {
	b := canonicalBytes(n)

	return hash.Bytes(b[:])
}
