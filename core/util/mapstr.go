/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package util

import (
	"strings"

	"infini.sh/insight/core/errors"
)

// MapStr is a map[string]interface{} wrapper with handy access helpers,
// the common currency for rows and opaque config blobs.
type MapStr map[string]interface{}

// Update overwrites keys of m with keys of d.
func (m MapStr) Update(d MapStr) {
	for k, v := range d {
		m[k] = v
	}
}

func (m MapStr) Clone() MapStr {
	result := MapStr{}
	for k, v := range m {
		if innerMap, ok := tryToMapStr(v); ok {
			v = innerMap.Clone()
		}
		result[k] = v
	}
	return result
}

// GetValue resolves a dotted key path, eg. `connection.url`.
func (m MapStr) GetValue(key string) (interface{}, error) {
	current := m
	keyParts := strings.Split(key, ".")
	for i, k := range keyParts {
		v, exists := current[k]
		if !exists {
			return nil, errors.Errorf("key [%v] not found", key)
		}
		if i == len(keyParts)-1 {
			return v, nil
		}
		inner, ok := tryToMapStr(v)
		if !ok {
			return nil, errors.Errorf("key [%v] is not a map", strings.Join(keyParts[:i+1], "."))
		}
		current = inner
	}
	return nil, errors.Errorf("key [%v] not found", key)
}

func (m MapStr) Put(key string, value interface{}) {
	m[key] = value
}

func tryToMapStr(v interface{}) (MapStr, bool) {
	switch x := v.(type) {
	case MapStr:
		return x, true
	case map[string]interface{}:
		return MapStr(x), true
	}
	return nil, false
}

// KV is a simple key/value pair.
type KV struct {
	Key   string      `json:"key,omitempty"`
	Value interface{} `json:"value,omitempty"`
}
