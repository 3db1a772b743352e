package models

import (
	"encoding/json"
	"math"
	"time"
)

// ToMillis coerces a stored or incoming timestamp value to epoch milliseconds.
// Integers pass through, finite floats are truncated, json.Number is parsed,
// and time.Time values are converted. Anything else (strings, bools, nil,
// the zero time) reports ok == false and must be treated as absent.
func ToMillis(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float32:
		return floatMillis(float64(t))
	case float64:
		return floatMillis(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return floatMillis(f)
	case time.Time:
		if t.IsZero() {
			return 0, false
		}
		return t.UnixMilli(), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0, false
		}
		return t.UnixMilli(), true
	default:
		return 0, false
	}
}

func floatMillis(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// FlattenTimes returns v with every time.Time replaced by epoch milliseconds,
// descending into maps and slices. Other values are returned as is.
func FlattenTimes(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UnixMilli()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = FlattenTimes(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = FlattenTimes(val)
		}
		return out
	default:
		return v
	}
}
