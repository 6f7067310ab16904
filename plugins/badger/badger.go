/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package badger

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/global"
)

// Store keeps all buckets in one badger database, bucket name as key prefix.
type Store struct {
	cfg    *Config
	db     *badger.DB
	closed bool
}

func NewStore(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Open() error {
	option := badger.DefaultOptions(s.cfg.Path)
	option.InMemory = s.cfg.InMemoryMode
	option.SyncWrites = s.cfg.SyncWrites
	option.MemTableSize = s.cfg.MemTableSize
	option.ValueLogFileSize = s.cfg.ValueLogFileSize
	option.ValueLogMaxEntries = s.cfg.ValueLogMaxEntries
	option.NumGoroutines = 1
	option.Compression = options.None
	option.MetricsEnabled = false
	option.CompactL0OnClose = true

	if !global.Env().IsDebug {
		option.Logger = nil
	}

	db, err := badger.Open(option)
	if err != nil {
		return err
	}
	s.db = db
	s.closed = false
	return nil
}

func (s *Store) Close() error {
	if s.db == nil || s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) GetValue(bucket string, key []byte) ([]byte, error) {
	var value []byte
	err := s.mustDB().View(func(txn *badger.Txn) error {
		item, err := txn.Get(bucketKey(bucket, key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

func (s *Store) AddValue(bucket string, key []byte, value []byte) error {
	return s.mustDB().Update(func(txn *badger.Txn) error {
		return txn.Set(bucketKey(bucket, key), value)
	})
}

func (s *Store) ExistsKey(bucket string, key []byte) (bool, error) {
	var exists bool
	err := s.mustDB().View(func(txn *badger.Txn) error {
		_, err := txn.Get(bucketKey(bucket, key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

func (s *Store) DeleteKey(bucket string, key []byte) error {
	return s.mustDB().Update(func(txn *badger.Txn) error {
		return txn.Delete(bucketKey(bucket, key))
	})
}

func (s *Store) IterateBucket(bucket string, fn func(key, value []byte) bool) error {
	prefix := bucketKey(bucket, nil)
	return s.mustDB().View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			key := bytes.TrimPrefix(item.KeyCopy(nil), prefix)
			if !fn(key, value) {
				return nil
			}
		}
		return nil
	})
}

func (s *Store) mustDB() *badger.DB {
	if s.db == nil || s.closed {
		panic(errors.New("badger store is not open"))
	}
	return s.db
}

func bucketKey(bucket string, key []byte) []byte {
	b := make([]byte, 0, len(bucket)+1+len(key))
	b = append(b, bucket...)
	b = append(b, ':')
	b = append(b, key...)
	return b
}
