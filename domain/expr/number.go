package expr

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is an integer or floating-point value. Integers stay integers until an
// operation forces promotion.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// Int wraps an integer value.
func Int(v int64) Number { return Number{i: v} }

// Float wraps a floating-point value.
func Float(v float64) Number { return Number{f: v, isFloat: true} }

// IsInt reports whether n holds an integer.
func (n Number) IsInt() bool { return !n.isFloat }

// Int64 returns the integer value and whether n holds one.
func (n Number) Int64() (int64, bool) { return n.i, !n.isFloat }

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// IsZero reports whether n equals zero.
func (n Number) IsZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	return n.i == 0
}

func (n Number) finite() bool {
	return !n.isFloat || (!math.IsInf(n.f, 0) && !math.IsNaN(n.f))
}

func (n Number) String() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

// MarshalJSON emits integers without a fraction and floats the way encoding/json does.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.isFloat {
		return json.Marshal(n.f)
	}
	return []byte(strconv.FormatInt(n.i, 10)), nil
}

// Equal compares by value; Int(2) equals Float(2).
func (n Number) Equal(o Number) bool {
	if !n.isFloat && !o.isFloat {
		return n.i == o.i
	}
	return n.Float64() == o.Float64()
}

func add(a, b Number) Number {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() + b.Float64())
	}
	r := a.i + b.i
	if (a.i > 0 && b.i > 0 && r < 0) || (a.i < 0 && b.i < 0 && r >= 0) {
		return Float(float64(a.i) + float64(b.i))
	}
	return Int(r)
}

func sub(a, b Number) Number {
	return add(a, neg(b))
}

func mul(a, b Number) Number {
	if a.isFloat || b.isFloat {
		return Float(a.Float64() * b.Float64())
	}
	if a.i == 0 || b.i == 0 {
		return Int(0)
	}
	r := a.i * b.i
	if r/b.i != a.i || (a.i == -1 && b.i == math.MinInt64) || (b.i == -1 && a.i == math.MinInt64) {
		return Float(float64(a.i) * float64(b.i))
	}
	return Int(r)
}

// div assumes b is non-zero.
func div(a, b Number) Number {
	if !a.isFloat && !b.isFloat && a.i%b.i == 0 && !(a.i == math.MinInt64 && b.i == -1) {
		return Int(a.i / b.i)
	}
	return Float(a.Float64() / b.Float64())
}

func neg(a Number) Number {
	if a.isFloat {
		return Float(-a.f)
	}
	if a.i == math.MinInt64 {
		return Float(-float64(a.i))
	}
	return Int(-a.i)
}
