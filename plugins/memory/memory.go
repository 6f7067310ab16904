/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package memory

import (
	"sort"
	"strings"
	"sync"

	"infini.sh/insight/core/kv"
	"infini.sh/insight/core/orm"
)

// Store is an in-process kv.KVStore, used as the `memory` storage driver and
// as a test double. Data is lost on restart.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Open() error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetValue(bucket string, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[bucket+":"+string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) AddValue(bucket string, key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[bucket+":"+string(key)] = v
	return nil
}

func (s *Store) ExistsKey(bucket string, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[bucket+":"+string(key)]
	return ok, nil
}

func (s *Store) DeleteKey(bucket string, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, bucket+":"+string(key))
	return nil
}

func (s *Store) IterateBucket(bucket string, fn func(key, value []byte) bool) error {
	s.mu.RLock()
	prefix := bucket + ":"
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	entries := make(map[string][]byte, len(keys))
	for _, k := range keys {
		entries[k] = s.data[k]
	}
	s.mu.RUnlock()

	for _, k := range keys {
		if !fn([]byte(strings.TrimPrefix(k, prefix)), entries[k]) {
			return nil
		}
	}
	return nil
}

var _ kv.KVStore = (*Store)(nil)

// NewORM is a convenience constructor used by tests and the memory driver.
func NewORM() *orm.KVStoreORM {
	return orm.NewKVStoreORM(NewStore())
}
