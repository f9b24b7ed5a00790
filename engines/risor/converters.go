package risor

import (
	"fmt"
	"log/slog"

	risorLib "github.com/risor-io/risor"
	"github.com/risor-io/risor/object"
)

// convertToRisorOptions builds the globals of one evaluation. Every compiled name gets a
// Risor object. Missing and nil values bind Risor nil, as do values Risor
// cannot represent.
func convertToRisorOptions(
	names []string,
	globals map[string]any,
	vars map[string]any,
	logger *slog.Logger,
) []risorLib.Option {
	options := make([]risorLib.Option, 0, len(names))
	for _, name := range names {
		v, ok := vars[name]
		if !ok {
			v = globals[name]
		}
		obj := object.FromGoType(v)
		if object.IsError(obj) {
			logger.Debug("unsupported variable type, binding nil", "name", name, "type", fmt.Sprintf("%T", v))
			obj = object.Nil
		}
		options = append(options, risorLib.WithGlobal(name, obj))
	}
	return options
}

// normalize turns the integer kinds Risor may hand back into int64.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case []any:
		for i, elem := range val {
			val[i] = normalize(elem)
		}
		return val
	case map[string]any:
		for k, elem := range val {
			val[k] = normalize(elem)
		}
		return val
	}
	return v
}
