package intent

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// param returns the string form of params[key] when the value is present
// and non-empty, "" otherwise. Absent, null, "", 0, NaN and false all count
// as empty. Numbers are rendered without a fractional part when integral
// (agents send @sys.number values as JSON floats). For list parameters the
// first element is used.
func param(params map[string]any, key string) string {
	return paramValue(params[key])
}

func paramValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == 0 || math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	case int64:
		if v == 0 {
			return ""
		}
		return strconv.FormatInt(v, 10)
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case bool:
		if !v {
			return ""
		}
		return "true"
	case []any:
		if len(v) == 0 {
			return ""
		}
		return paramValue(v[0])
	default:
		return fmt.Sprint(v)
	}
}
