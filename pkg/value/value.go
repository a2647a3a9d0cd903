// Package value holds the JSON-shaped data model shared by the extraction
// pipeline. Every capture, diff, and merge operates on the six canonical
// forms produced by Normalize: nil, bool, float64, string, []any, and
// map[string]any.
package value

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind identifies the canonical shape of a normalized value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// KindOf reports the canonical shape of v. Values outside the six canonical
// forms are classified as if they had been passed through Normalize.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return KindNumber
	case string, []byte:
		return KindString
	case []any, []string:
		return KindArray
	case map[string]any, map[string]string:
		return KindMap
	default:
		return KindOf(Normalize(v))
	}
}

// Normalize converts arbitrary Go data into the canonical forms. Numbers
// widen to float64, byte slices become strings, and typed maps and slices
// are rebuilt as map[string]any and []any with normalized elements. Anything
// else goes through a JSON round trip; values JSON cannot represent degrade
// to their fmt.Sprint rendering rather than failing.
func Normalize(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case bool, float64, string:
		return typed
	case float32:
		return float64(typed)
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	case []byte:
		return string(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = item
		}
		return out
	default:
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		var decoded any
		if err := json.Unmarshal(payload, &decoded); err != nil {
			return fmt.Sprint(v)
		}
		return decoded
	}
}

// Clone returns a deep copy of v in canonical form. Mutating the clone never
// touches the original.
func Clone(v any) any {
	switch typed := Normalize(v).(type) {
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Clone(item)
		}
		return out
	default:
		return typed
	}
}

// Equal reports deep equality of a and b after normalization. Numeric values
// compare as float64, so int(3) and float64(3) are equal.
func Equal(a, b any) bool {
	return equalNormalized(Normalize(a), Normalize(b))
}

func equalNormalized(a, b any) bool {
	switch left := a.(type) {
	case nil:
		return b == nil
	case bool:
		right, ok := b.(bool)
		return ok && left == right
	case float64:
		right, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(left) && math.IsNaN(right) {
			return true
		}
		return left == right
	case string:
		right, ok := b.(string)
		return ok && left == right
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !equalNormalized(left[i], right[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		right, ok := b.(map[string]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for key, item := range left {
			other, present := right[key]
			if !present || !equalNormalized(item, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
