package rule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestMatch_SubsetWithExtraKeys(t *testing.T) {
	pattern := map[string]any{
		"event_type": "change_request",
		"attrs":      map[string]any{"action": "open"},
	}
	payload := decode(t, `{
		"event_type": "change_request",
		"attrs": {"action": "open", "iid": 7, "title": "x"},
		"project": {"id": 1},
		"user": {"name": "dev"}
	}`)
	assert.True(t, Match(pattern, payload))

	payload["attrs"].(map[string]any)["action"] = "update"
	assert.False(t, Match(pattern, payload))
}

func TestMatch_Cases(t *testing.T) {
	tests := []struct {
		name    string
		pattern map[string]any
		payload string
		want    bool
	}{
		{"empty pattern matches", map[string]any{}, `{"a":1}`, true},
		{"missing key", map[string]any{"b": 1}, `{"a":1}`, false},
		{"int pattern vs float payload", map[string]any{"a": 1}, `{"a":1}`, true},
		{"string vs number", map[string]any{"a": "1"}, `{"a":1}`, false},
		{"array by value", map[string]any{"labels": []any{"x", "y"}}, `{"labels":["x","y"]}`, true},
		{"array order matters", map[string]any{"labels": []any{"y", "x"}}, `{"labels":["x","y"]}`, false},
		{"object vs scalar", map[string]any{"a": map[string]any{"b": 1}}, `{"a":1}`, false},
		{"deep nesting", map[string]any{"a": map[string]any{"b": map[string]any{"c": true}}}, `{"a":{"b":{"c":true,"d":2}}}`, true},
		{"null value", map[string]any{"a": nil}, `{"a":null}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Match(tc.pattern, decode(t, tc.payload)))
		})
	}
}

func TestCanonicalize_KeyOrderIndependent(t *testing.T) {
	a, err := Canonicalize(map[string]any{"b": 1, "a": map[string]any{"y": 2, "x": 1}})
	require.NoError(t, err)
	b, err := Canonicalize(decode(t, `{"a":{"x":1,"y":2},"b":1}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, `{"a":{"x":1,"y":2},"b":1}`, a)
}

func TestDefaultSeeds(t *testing.T) {
	seeds, err := DefaultSeeds()
	require.NoError(t, err)
	require.Len(t, seeds, 2)

	open := decode(t, `{"object_kind":"merge_request","object_attributes":{"action":"open","iid":3}}`)
	assert.True(t, Match(seeds[0].Pattern, open))
	assert.False(t, Match(seeds[1].Pattern, open))
}

func TestParseSeeds_Invalid(t *testing.T) {
	_, err := ParseSeeds([]byte("- name: ''\n  pattern: {a: 1}\n"))
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = ParseSeeds([]byte("- name: x\n"))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}
