/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package kv

import (
	log "github.com/cihub/seelog"
	"infini.sh/insight/core/errors"
)

type KVStore interface {
	Open() error

	Close() error

	GetValue(bucket string, key []byte) ([]byte, error)

	AddValue(bucket string, key []byte, value []byte) error

	ExistsKey(bucket string, key []byte) (bool, error)

	DeleteKey(bucket string, key []byte) error

	// IterateBucket walks every key of a bucket in key order, stops when fn
	// returns false.
	IterateBucket(bucket string, fn func(key, value []byte) bool) error
}

var handler KVStore

func getKVHandler() KVStore {
	if handler == nil {
		panic(errors.New("kv store handler is not registered"))
	}
	return handler
}

func GetValue(bucket string, key []byte) ([]byte, error) {
	return getKVHandler().GetValue(bucket, key)
}

func AddValue(bucket string, key []byte, value []byte) error {
	return getKVHandler().AddValue(bucket, key, value)
}

func ExistsKey(bucket string, key []byte) (bool, error) {
	return getKVHandler().ExistsKey(bucket, key)
}

func DeleteKey(bucket string, key []byte) error {
	return getKVHandler().DeleteKey(bucket, key)
}

func IterateBucket(bucket string, fn func(key, value []byte) bool) error {
	return getKVHandler().IterateBucket(bucket, fn)
}

var stores = map[string]KVStore{}

func Register(name string, h KVStore) {
	_, ok := stores[name]
	if ok {
		panic(errors.Errorf("KV handler with same name: %v already exists", name))
	}

	stores[name] = h
	handler = h

	log.Debug("register kv store: ", name)
}

func GetStore(name string) (KVStore, bool) {
	s, ok := stores[name]
	return s, ok
}
