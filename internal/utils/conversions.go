package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JoinAny renders each element as text and joins them with sep. Strings are used as-is,
// everything else is JSON-encoded.
func JoinAny(values []any, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			parts = append(parts, s)
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			parts = append(parts, fmt.Sprint(v))
			continue
		}
		parts = append(parts, string(b))
	}
	return strings.Join(parts, sep)
}

// FirstString returns the first non-empty string value found under keys.
func FirstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// IDString renders a JSON id as a string. The API may send ids as numbers or strings.
func IDString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
