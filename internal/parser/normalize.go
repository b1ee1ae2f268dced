package parser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcncl/datasniff/internal/models"
)

// normalizeNative converts values produced by the YAML and TOML decoders into
// model types. Numbers become json.Number; NaN and infinities have no JSON
// spelling and become null.
func normalizeNative(val interface{}) models.JSONValue {
	switch v := val.(type) {
	case nil:
		return nil
	case bool, string, json.Number:
		return v
	case int:
		return json.Number(fmt.Sprint(v))
	case int64:
		return json.Number(fmt.Sprint(v))
	case uint64:
		return json.Number(fmt.Sprint(v))
	case float32:
		return floatNumber(float64(v))
	case float64:
		return floatNumber(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeNative(value)
		}
		return obj
	case map[interface{}]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[fmt.Sprint(key)] = normalizeNative(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeNative(value)
		}
		return arr
	case fmt.Stringer:
		// TOML local dates and times
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func floatNumber(f float64) models.JSONValue {
	b, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return json.Number(b)
}
