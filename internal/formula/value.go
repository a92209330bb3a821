package formula

// Value is the numeric result of evaluating a Formula: either one scalar
// or one scalar per group key, mirroring the shape of the formula that
// produced it.
type Value struct {
	scalar  float64
	groups  map[string]float64
	grouped bool
}

// ScalarValue wraps a single number.
func ScalarValue(v float64) Value {
	return Value{scalar: v}
}

// GroupedValue wraps one number per group key.
func GroupedValue(groups map[string]float64) Value {
	return Value{groups: groups, grouped: true}
}

// IsGrouped reports whether the value carries per-group numbers.
func (v Value) IsGrouped() bool {
	return v.grouped
}

// Scalar returns the single number. Only meaningful when IsGrouped is
// false; a grouped value returns 0.
func (v Value) Scalar() float64 {
	return v.scalar
}

// Groups returns a copy of the per-group numbers, or nil for a scalar
// value.
func (v Value) Groups() map[string]float64 {
	if !v.grouped {
		return nil
	}
	out := make(map[string]float64, len(v.groups))
	for k, val := range v.groups {
		out[k] = val
	}
	return out
}

// Div divides every number in the value by d, preserving shape. Division
// by zero follows float64 semantics and yields a non-finite result; a
// zero denominator is a modeling fault the caller detects on the output.
func (v Value) Div(d float64) Value {
	if !v.grouped {
		return ScalarValue(v.scalar / d)
	}
	out := make(map[string]float64, len(v.groups))
	for k, val := range v.groups {
		out[k] = val / d
	}
	return GroupedValue(out)
}

// Any returns the result as a plain Go value: float64 for scalars,
// map[string]float64 for grouped values. Intended for JSON output.
func (v Value) Any() any {
	if v.grouped {
		return v.Groups()
	}
	return v.scalar
}
