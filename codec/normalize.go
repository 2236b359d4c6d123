package codec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Normalize recursively walks maps and slices, converting uuid.UUID leaf
// values to their canonical string form and time.Time leaf values to RFC 3339
// with zone. Other values pass through unchanged; an unrecognized type is
// left as-is rather than rejected.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case uuid.UUID:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	}

	// Generic maps and slices that are not the any-typed shapes above.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[Stringify(iter.Key().Interface())] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	}

	return v
}

// Stringify renders a scalar value for use in cache keys. UUIDs and
// timestamps use the same canonical forms as Normalize; everything else
// falls back to its default string representation.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case uuid.UUID:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprintf("%v", v)
}
