/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import (
	"fmt"
	"strconv"
	"strings"
)

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}

func ToInt(str string) (int, error) {
	if strings.IndexAny(str, ".") > 0 {
		nonFractionalPart := strings.Split(str, ".")
		return strconv.Atoi(nonFractionalPart[0])
	}
	return strconv.Atoi(str)
}

func IntToString(i int) string {
	return strconv.Itoa(i)
}

func StringInArray(s []string, element string) bool {
	for _, v := range s {
		if v == element {
			return true
		}
	}
	return false
}

// ToString renders any scalar in its natural string form, floats without
// a trailing .000000.
func ToString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprintf("%v", v)
}
