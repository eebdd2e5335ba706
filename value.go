package histo

import "math"

// Value is the set of observation types a Histogram can hold: exactly
// uint64 and float64, not defined types with one of those as underlying
// type. Go generics have no equivalent of specializing a method body per
// instantiation, so the handful of places that behave differently for
// integers and floats (NaN, the sum accumulator, the +Inf sentinel)
// branch once on the instantiated type via a type switch on
// any(zero-value) rather than carrying a trait object around — and that
// dispatch only sees past a defined type's wrapper when the constraint
// forbids one from being substituted in the first place. (A `~uint64 |
// ~float64` constraint would let `type Count uint64` satisfy Value, but
// boxing a Count into any keeps its dynamic type as Count, so none of the
// uint64/float64 cases below would ever match and toBits would panic on
// the very first Observe. Plain uint64 | float64 rules that out at
// New's instantiation site instead.)
type Value interface {
	uint64 | float64
}

func isFloatValue[V Value]() bool {
	var zero V
	_, ok := any(zero).(float64)
	return ok
}

func isNaN[V Value](v V) bool {
	f, ok := any(v).(float64)
	return ok && math.IsNaN(f)
}

// toBits returns the raw 64-bit pattern a shard stores for v: the value
// itself for integers, its IEEE-754 bit pattern for floats.
func toBits[V Value](v V) uint64 {
	switch x := any(v).(type) {
	case uint64:
		return x
	case float64:
		return math.Float64bits(x)
	default:
		panic("histo: unsupported Value type")
	}
}

// bitsToValue reverses toBits.
func bitsToValue[V Value](bits uint64) V {
	var zero V
	switch any(zero).(type) {
	case uint64:
		return any(bits).(V)
	case float64:
		return any(math.Float64frombits(bits)).(V)
	default:
		panic("histo: unsupported Value type")
	}
}

// infBound returns the sentinel used for the implicit +Inf bucket: positive
// infinity for floats, math.MaxUint64 for integers, since an unsigned
// integer type has no infinity of its own.
func infBound[V Value]() V {
	var zero V
	switch any(zero).(type) {
	case uint64:
		return any(uint64(math.MaxUint64)).(V)
	case float64:
		return any(math.Inf(1)).(V)
	default:
		panic("histo: unsupported Value type")
	}
}

// nanValue returns NaN for float Histograms. Never called for integer
// Histograms, which carry no NaN bucket.
func nanValue[V Value]() V {
	var zero V
	switch any(zero).(type) {
	case float64:
		return any(math.NaN()).(V)
	default:
		return zero
	}
}

func mergeBits[V Value](a, b uint64) uint64 {
	if isFloatValue[V]() {
		return math.Float64bits(math.Float64frombits(a) + math.Float64frombits(b))
	}
	return a + b
}
