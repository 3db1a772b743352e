package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func encodeData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// decodeData parses stored JSON. Integral numbers come back as int64 and all
// other numbers as float64, so timestamps survive a round trip exactly.
func decodeData(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if data == nil {
		return map[string]any{}, nil
	}
	return normalizeNumbers(data).(map[string]any), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalizeNumbers(val)
		}
		return t
	default:
		return v
	}
}

// mergeFields applies a top-level merge of fields onto dst.
func mergeFields(dst, fields map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		dst[k] = v
	}
	return dst
}
