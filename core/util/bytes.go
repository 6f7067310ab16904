/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import (
	"github.com/segmentio/encoding/json"
)

func MustToJSONBytes(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func ToJSONBytes(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func MustFromJSONBytes(b []byte, v interface{}) {
	err := json.Unmarshal(b, v)
	if err != nil {
		panic(err)
	}
}

func FromJSONBytes(b []byte, v interface{}) (err error) {
	return json.Unmarshal(b, v)
}

func MustToJSON(v interface{}) string {
	return string(MustToJSONBytes(v))
}
