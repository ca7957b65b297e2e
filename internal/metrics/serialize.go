package metrics

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// maxStringPreview is the default truncation limit for captured strings.
const maxStringPreview = 1024

// truncateString head-truncates s to limit runes, appending a suffix that
// reports how many runes were omitted.
func truncateString(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	omitted := len(runes) - limit
	return fmt.Sprintf("%s... (+%d chars truncated)", string(runes[:limit]), omitted)
}

// safeSerialize converts an arbitrary value into a JSON-safe structure:
// strings are truncated, binary payloads are replaced with a placeholder,
// containers are walked recursively, and anything else degrades to a textual
// representation. It never panics; metrics capture must not abort the run
// being observed.
func safeSerialize(v any, limit int) (out any) {
	defer func() {
		if recover() != nil {
			out = "<unserializable>"
		}
	}()
	return serializeValue(v, limit)
}

func serializeValue(v any, limit int) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return truncateString(val, limit)
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return val
	case []byte:
		return fmt.Sprintf("<binary %d bytes>", len(val))
	case map[string]any:
		m := make(map[string]any, len(val))
		for key, item := range val {
			m[key] = serializeValue(item, limit)
		}
		return m
	case []any:
		list := make([]any, 0, len(val))
		for _, item := range val {
			list = append(list, serializeValue(item, limit))
		}
		return list
	case error:
		return truncateString(val.Error(), limit)
	}
	return serializeReflect(v, limit)
}

// serializeReflect handles container kinds not covered by the type switch
// (typed maps, slices of concrete types, pointers, structs).
func serializeReflect(v any, limit int) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return serializeValue(rv.Elem().Interface(), limit)
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = serializeValue(iter.Value().Interface(), limit)
		}
		return m
	case reflect.Slice, reflect.Array:
		list := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			list = append(list, serializeValue(rv.Index(i).Interface(), limit))
		}
		return list
	}

	// Structs and the rest: round-trip through encoding/json so nested
	// fields come out as plain maps and omitted nulls stay omitted.
	data, err := json.Marshal(v)
	if err == nil {
		var decoded any
		if json.Unmarshal(data, &decoded) == nil {
			return serializeValue(decoded, limit)
		}
	}
	return truncateString(fmt.Sprintf("%v", v), limit)
}
