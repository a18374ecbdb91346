package entities

import (
	"encoding/json"
	"fmt"
)

// CloneValue deep-copies a value into its JSON shape: maps become
// map[string]interface{}, slices become []interface{} and every number
// becomes a float64. The result shares no storage with v, so a field value
// handed in by a caller cannot reach into a stored graph. Values that have
// no JSON encoding are kept as their printed form.
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, string, bool, float64:
		return t
	case map[string]interface{}:
		return CloneFields(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return normalize(v)
	}
}

// normalize round-trips v through encoding/json
func normalize(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}

// CloneFields deep-copies a field map. A nil map stays nil.
func CloneFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = CloneValue(v)
	}
	return out
}

func nilIfEmpty(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	return fields
}
