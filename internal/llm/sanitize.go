package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stringish fields the model sometimes returns as numbers or nested values.
var coerceKeys = []string{"doseNumber", "date", "startDate", "endDate"}

// SanitizeFields normalizes a model response that is valid JSON but fails
// schema validation: numeric values for string fields are stringified,
// nulls are dropped, and non-scalar values are removed. Only field-level
// repairs; if the document is not a JSON object, the caller falls back.
func SanitizeFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string
	for _, k := range coerceKeys {
		switch v := m[k].(type) {
		case float64:
			if v == float64(int64(v)) {
				m[k] = fmt.Sprintf("%d", int64(v))
			} else {
				m[k] = fmt.Sprintf("%v", v)
			}
		}
	}
	for k, v := range m {
		switch v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k)
		case map[string]any, []any:
			// flatten single-level structures the model sometimes nests
			b, err := json.Marshal(v)
			if err != nil {
				delete(m, k)
				dropped = append(dropped, k)
				continue
			}
			m[k] = string(b)
		case string:
			m[k] = strings.TrimSpace(v.(string))
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, err
	}
	return out, dropped, nil
}
