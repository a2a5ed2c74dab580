package rule

import (
	"encoding/json"
	"fmt"
)

// Match reports whether payload contains every key of pattern with an equal value.
// Nested objects recurse with the same subset rule. Scalars and arrays compare by value.
// Keys absent from pattern are ignored; an empty pattern matches anything.
func Match(pattern, payload map[string]any) bool {
	for key, want := range pattern {
		got, ok := payload[key]
		if !ok {
			return false
		}
		wantObj, wantIsObj := want.(map[string]any)
		gotObj, gotIsObj := got.(map[string]any)
		if wantIsObj && gotIsObj {
			if !Match(wantObj, gotObj) {
				return false
			}
			continue
		}
		if !equalValues(want, got) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValues(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !equalValues(v, bv[k]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Normalize round-trips pattern through JSON so values have the same shapes a decoded payload has.
func Normalize(pattern map[string]any) (map[string]any, error) {
	b, err := json.Marshal(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return out, nil
}

// Canonicalize returns a stable serialization of pattern. encoding/json sorts map keys,
// so two patterns with the same content always produce the same string.
func Canonicalize(pattern map[string]any) (string, error) {
	normalized, err := Normalize(pattern)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return string(b), nil
}
