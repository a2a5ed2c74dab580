package store

import "encoding/json"

// BoolToInt converts a bool for an INTEGER column.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// EncodeJSON serializes v for a TEXT column. nil slices become "[]".
func EncodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

// DecodeStrings reads a JSON string list column. Bad input yields nil.
func DecodeStrings(s string) []string {
	var out []string
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// DecodeObject reads a JSON object column. Bad input yields an empty map.
func DecodeObject(s string) map[string]any {
	out := map[string]any{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return map[string]any{}
	}
	return out
}
