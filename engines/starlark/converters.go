package starlark

import (
	"fmt"

	starlarkLib "go.starlark.net/starlark"
)

// convertStarlarkValueToInterface converts a Starlark value to a Go value. Integers become
// int64, lists and tuples []any, dicts map[string]any.
func convertStarlarkValueToInterface(v starlarkLib.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("%w: integer %s overflows int64", ErrUnsupportedValue, v)
		}
		return i, nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case *starlarkLib.List:
		return convertIterable(v, v.Len())
	case starlarkLib.Tuple:
		return convertIterable(v, v.Len())
	case *starlarkLib.Set:
		return convertIterable(v, v.Len())
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := item[0].(starlarkLib.String)
			if !ok {
				// Non-string keys are rendered as strings
				key = starlarkLib.String(item[0].String())
			}
			vv, err := convertStarlarkValueToInterface(item[1])
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			dict[string(key)] = vv
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("%w: starlark %s", ErrUnsupportedValue, v.Type())
	}
}

func convertIterable(v starlarkLib.Iterable, size int) ([]any, error) {
	list := make([]any, 0, size)
	iter := v.Iterate()
	defer iter.Done()

	var elem starlarkLib.Value
	for iter.Next(&elem) {
		converted, err := convertStarlarkValueToInterface(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to convert list element: %w", err)
		}
		list = append(list, converted)
	}
	return list, nil
}

func convertToStarlarkValue(v any) (starlarkLib.Value, error) {
	if v == nil {
		return starlarkLib.None, nil
	}

	switch val := v.(type) {
	case bool:
		return starlarkLib.Bool(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int32:
		return starlarkLib.MakeInt64(int64(val)), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case uint:
		return starlarkLib.MakeUint(val), nil
	case uint64:
		return starlarkLib.MakeUint64(val), nil
	case float32:
		return starlarkLib.Float(val), nil
	case float64:
		return starlarkLib.Float(val), nil
	case string:
		return starlarkLib.String(val), nil
	case []string:
		elements := make([]starlarkLib.Value, len(val))
		for i, s := range val {
			elements[i] = starlarkLib.String(s)
		}
		return starlarkLib.NewList(elements), nil
	case []any:
		elements := make([]starlarkLib.Value, len(val))
		for i, elem := range val {
			var err error
			elements[i], err = convertToStarlarkValue(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to convert list element: %w", err)
			}
		}
		return starlarkLib.NewList(elements), nil
	case map[string]struct{}:
		// golang doesn't have a Set, but often a map[string]struct{} is used instead
		elements := starlarkLib.NewSet(len(val))
		for k := range val {
			if err := elements.Insert(starlarkLib.String(k)); err != nil {
				return nil, fmt.Errorf("failed to insert set element: %w", err)
			}
		}
		return elements, nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		for k, v := range val {
			starlarkVal, err := convertToStarlarkValue(v)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			if err := dict.SetKey(starlarkLib.String(k), starlarkVal); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
