package vjson

import (
	"math"

	"github.com/arakawa-lab/vjson/internal/store"
)

// Number is a borrowed view of a Value known to hold a number payload.
type Number struct {
	n store.Number
}

// HasDecimalPoint reports whether this number was originally constructed
// from a float, preserved across Clone for round-trip fidelity (spec.md
// §4.3, tested property has_decimal_point).
func (n Number) HasDecimalPoint() bool { return n.n.HasDecimalPoint }

// isIntegral reports whether n's mathematical value has no fractional part.
func (n Number) isIntegral() bool {
	if n.n.Shape != store.ShapeF64 {
		return true
	}

	return n.n.F64 == math.Trunc(n.n.F64)
}

func (n Number) asF64() float64 {
	switch n.n.Shape {
	case store.ShapeU64:
		return float64(n.n.U64)
	case store.ShapeF64:
		return n.n.F64
	default:
		return float64(n.n.I64)
	}
}

func (n Number) asI64() (int64, bool) {
	switch n.n.Shape {
	case store.ShapeU64:
		if n.n.U64 > math.MaxInt64 {
			return 0, false
		}

		return int64(n.n.U64), true
	case store.ShapeF64:
		if !n.isIntegral() || n.n.F64 < math.MinInt64 || n.n.F64 >= math.MaxInt64 {
			return 0, false
		}

		return int64(n.n.F64), true
	default:
		return n.n.I64, true
	}
}

// ToI64 returns n's value as an int64 if it is integral and fits.
func (v Value) ToI64() (int64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}

	return n.asI64()
}

// ToI32 returns n's value as an int32 if it is integral and fits.
func (v Value) ToI32() (int32, bool) {
	i, ok := v.ToI64()
	if !ok || i < math.MinInt32 || i > math.MaxInt32 {
		return 0, false
	}

	return int32(i), true
}

// ToU64 returns n's value as a uint64 if it is integral, non-negative, and fits.
func (v Value) ToU64() (uint64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}

	switch n.n.Shape {
	case store.ShapeU64:
		return n.n.U64, true
	case store.ShapeF64:
		if !n.isIntegral() || n.n.F64 < 0 || n.n.F64 >= math.MaxUint64 {
			return 0, false
		}

		return uint64(n.n.F64), true
	default:
		if n.n.I64 < 0 {
			return 0, false
		}

		return uint64(n.n.I64), true
	}
}

// ToU32 returns n's value as a uint32 if it is integral, non-negative, and fits.
func (v Value) ToU32() (uint32, bool) {
	u, ok := v.ToU64()
	if !ok || u > math.MaxUint32 {
		return 0, false
	}

	return uint32(u), true
}

// ToF64 always succeeds for any stored number, possibly with precision loss
// for 64-bit integers.
func (v Value) ToF64() (float64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}

	return n.asF64(), true
}

// ToF32 always succeeds for any stored number, with the precision loss of
// both the 64->32 float narrowing and, for 64-bit integers, the int->float
// widening.
func (v Value) ToF32() (float32, bool) {
	f, ok := v.ToF64()
	if !ok {
		return 0, false
	}

	return float32(f), true
}

// ToI64Lossy rounds and saturates instead of failing on overflow/fraction.
func (v Value) ToI64Lossy() (int64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	if n.n.Shape != store.ShapeF64 {
		i, _ := n.asI64()
		if n.n.Shape == store.ShapeU64 && n.n.U64 > math.MaxInt64 {
			return math.MaxInt64, true
		}

		return i, true
	}

	f := math.Round(n.n.F64)
	switch {
	case f <= math.MinInt64:
		return math.MinInt64, true
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	default:
		return int64(f), true
	}
}

// ToI32Lossy rounds and saturates to the int32 range.
func (v Value) ToI32Lossy() (int32, bool) {
	i, ok := v.ToI64Lossy()
	if !ok {
		return 0, false
	}

	switch {
	case i < math.MinInt32:
		return math.MinInt32, true
	case i > math.MaxInt32:
		return math.MaxInt32, true
	default:
		return int32(i), true
	}
}

// ToU64Lossy rounds and saturates to the uint64 range (negative values
// saturate to 0).
func (v Value) ToU64Lossy() (uint64, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}

	switch n.n.Shape {
	case store.ShapeU64:
		return n.n.U64, true
	case store.ShapeF64:
		f := math.Round(n.n.F64)
		switch {
		case f <= 0:
			return 0, true
		case f >= math.MaxUint64:
			return math.MaxUint64, true
		default:
			return uint64(f), true
		}
	default:
		if n.n.I64 < 0 {
			return 0, true
		}

		return uint64(n.n.I64), true
	}
}

// ToU32Lossy rounds and saturates to the uint32 range.
func (v Value) ToU32Lossy() (uint32, bool) {
	u, ok := v.ToU64Lossy()
	if !ok {
		return 0, false
	}
	if u > math.MaxUint32 {
		return math.MaxUint32, true
	}

	return uint32(u), true
}

// ToF32Lossy and ToF64Lossy coincide with their non-lossy counterparts for
// numbers, since ToF64/ToF32 never fail for a stored number (spec.md §4.1).
func (v Value) ToF32Lossy() (float32, bool) { return v.ToF32() }
func (v Value) ToF64Lossy() (float64, bool) { return v.ToF64() }
