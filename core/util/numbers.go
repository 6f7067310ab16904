/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import (
	"strconv"

	"infini.sh/insight/core/errors"
)

// StringToFloat converts a string to a float64
func StringToFloat(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty string")
	}
	return strconv.ParseFloat(s, 64)
}

func ToFloat(s string, defaultValue float64) float64 {
	v, err := StringToFloat(s)
	if err != nil {
		return defaultValue
	}
	return v
}

// ToFloat64 coerces arbitrary scalar values to float64. Strings are parsed,
// every numeric type widens. The bool result reports whether coercion worked.
func ToFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := StringToFloat(x)
		return f, err == nil
	}
	return 0, false
}
