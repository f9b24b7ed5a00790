package extism

import (
	"bytes"
	"encoding/json"
	"log/slog"
)

// encodeInput marshals the visible variables as a JSON object. Values JSON cannot represent
// are left out.
func encodeInput(visible []string, vars map[string]any, logger *slog.Logger) ([]byte, error) {
	input := make(map[string]json.RawMessage, len(visible))
	for _, name := range visible {
		v, ok := vars[name]
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			logger.Debug("skipping variable", "name", name, "error", err)
			continue
		}
		input[name] = raw
	}
	return json.Marshal(input)
}

// decodeOutput reads the function output as JSON. Output that is not JSON is returned as a
// string, and empty output as nil.
func decodeOutput(output []byte) any {
	if len(bytes.TrimSpace(output)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(output))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(output)
	}
	return fixNumbers(v)
}

// fixNumbers turns json.Number into int64 when the number is integral, float64 otherwise.
func fixNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, err := v.Float64()
		if err != nil {
			return v.String()
		}
		return f
	case []any:
		for i := range v {
			v[i] = fixNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = fixNumbers(v[k])
		}
		return v
	}
	return v
}
