/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package global

import (
	"sync"

	"infini.sh/insight/core/env"
	"infini.sh/insight/core/errors"
)

// RegisterKey is used to register custom value and retrieve back
type RegisterKey string

type registrar struct {
	values map[RegisterKey]interface{}
	sync.RWMutex
}

var r = &registrar{values: map[RegisterKey]interface{}{}}

var (
	l sync.RWMutex
	e *env.Env
)

// Register is used to register your own key and value
func Register(k RegisterKey, v interface{}) {
	r.Lock()
	defer r.Unlock()
	r.values[k] = v
}

func Lookup(k RegisterKey) interface{} {
	r.RLock()
	defer r.RUnlock()
	return r.values[k]
}

func MustLookup(k RegisterKey) interface{} {
	v := Lookup(k)
	if v == nil {
		panic(errors.Errorf("invalid key: %v", k))
	}
	return v
}

func MustLookupString(k RegisterKey) string {
	return MustLookup(k).(string)
}

// RegisterEnv attaches the env to the global registrar, only once per process.
func RegisterEnv(e1 *env.Env) {
	l.Lock()
	defer l.Unlock()
	e = e1
}

// Env returns the registered env
func Env() *env.Env {
	l.RLock()
	defer l.RUnlock()
	if e == nil {
		panic(errors.New("env is not registered"))
	}
	return e
}
