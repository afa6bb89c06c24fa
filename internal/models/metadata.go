package models

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Metadata is the free-form per-event attribute bag. The wire format may
// arrive as either a native JSON object or a JSON-encoded string (a known
// quirk of upstream game-server telemetry emitters); UnmarshalJSON coerces
// both into a plain map. Any other JSON kind (null, number, bool, array) is
// coerced to an empty map rather than rejected, a known limitation accepted
// in favor of coercion over per-event failure.
type Metadata map[string]interface{}

// UnmarshalJSON implements the string-or-object coercion, narrowed to a
// single field rather than a whole-struct reflection pass since Metadata is
// the only value on EventRecord that needs it.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	// Fast path: already a native JSON object.
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err == nil {
		*m = obj
		return nil
	}

	// Slow path: value is a JSON string containing an encoded object.
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		var nested map[string]interface{}
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			*m = nested
			return nil
		}
		*m = Metadata{}
		return nil
	}

	// Anything else (null, number, bool, array) coerces to empty map.
	*m = Metadata{}
	return nil
}

// Float reads a numeric field, returning def if absent or not numeric.
// Handles both JSON numbers and numeric strings (another upstream quirk).
func (m Metadata) Float(key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// Int reads an integer field, returning def if absent or not numeric.
func (m Metadata) Int(key string, def int64) int64 {
	return int64(m.Float(key, float64(def)))
}
