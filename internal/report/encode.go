package report

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"reflect"
	"strings"

	"deadsym/internal/deadcode"
)

// EncodeJSON produces byte-identical JSON for identical input:
//   - object keys sorted
//   - floats rounded to 6 decimal places
//   - nil values omitted, empty non-nil lists kept
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalizeValue(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes res as indented deterministic JSON.
func WriteJSON(w io.Writer, res *deadcode.Result, byFile bool) error {
	data, err := EncodeJSON(NewDocument(res, byFile))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RoundFloat rounds to 6 decimal places.
func RoundFloat(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}

func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		return normalizeMap(val)
	case reflect.Slice, reflect.Array:
		return normalizeSlice(val)
	case reflect.Struct:
		return normalizeStruct(val)
	case reflect.Float32, reflect.Float64:
		return RoundFloat(val.Float())
	case reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return normalizeValue(val.Interface())
	default:
		return val.Interface()
	}
}

func normalizeMap(val reflect.Value) any {
	if val.IsNil() {
		return nil
	}
	out := make(map[string]any, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		if nv := normalizeValue(iter.Value().Interface()); nv != nil {
			out[iter.Key().String()] = nv
		}
	}
	return out
}

func normalizeSlice(val reflect.Value) any {
	if val.Kind() == reflect.Slice && val.IsNil() {
		return nil
	}
	out := make([]any, val.Len())
	for i := range out {
		out[i] = normalizeValue(val.Index(i).Interface())
	}
	return out
}

func normalizeStruct(val reflect.Value) any {
	out := make(map[string]any)
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty := parseJSONTag(field.Tag.Get("json"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		nv := normalizeValue(val.Field(i).Interface())
		if nv == nil || (omitEmpty && isZeroValue(nv)) {
			continue
		}
		out[name] = nv
	}
	return out
}

func parseJSONTag(tag string) (name string, omitEmpty bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty
}

func isZeroValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	rv := reflect.ValueOf(v)
	return rv.IsZero()
}
