package budget

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Bounds describes the validation rule for one numeric field.
// Fields are unbounded above.
type Bounds struct {
	Min     float64
	Step    float64
	Integer bool
}

// Sanitize turns a raw input into a usable field value. Anything that does
// not parse to a finite number becomes Min; values below Min are raised to
// Min; integer fields are truncated after clamping.
func (b Bounds) Sanitize(raw any) float64 {
	v, ok := parseNumber(raw)
	if !ok {
		v = b.Min
	}
	return b.clamp(v)
}

// Increment adds one step and re-applies the clamp.
func (b Bounds) Increment(v float64) float64 {
	return b.Sanitize(v + b.step())
}

// Decrement subtracts one step, saturating at Min.
func (b Bounds) Decrement(v float64) float64 {
	return b.Sanitize(v - b.step())
}

func (b Bounds) step() float64 {
	if b.Step <= 0 {
		return 1
	}
	return b.Step
}

func (b Bounds) clamp(v float64) float64 {
	if v < b.Min {
		v = b.Min
	}
	if b.Integer {
		v = math.Trunc(v)
		if v < b.Min {
			v = math.Ceil(b.Min)
		}
	}
	return v
}

// parseNumber accepts the shapes a value can arrive in from widgets, the
// store and decoded JSON. The bool is false for anything non-numeric.
func parseNumber(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case int32:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(x)
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
