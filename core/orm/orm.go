/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package orm

import (
	"reflect"
	"strings"
	"time"

	"infini.sh/insight/core/errors"
)

// Object is the minimum contract for a persisted document.
type Object interface {
	GetID() string
	SetID(ID string)
}

// ORMObjectBase provides identity and bookkeeping fields shared by every
// persisted type.
type ORMObjectBase struct {
	ID      string     `json:"id,omitempty"`
	Created *time.Time `json:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

func (obj *ORMObjectBase) GetID() string {
	return obj.ID
}

func (obj *ORMObjectBase) SetID(ID string) {
	obj.ID = ID
}

// ORM is the injected document store contract. Implementations persist
// objects as JSON documents in per-type buckets.
type ORM interface {
	Open() error
	Close() error

	// Get loads the document with o's ID into o, the bool reports existence.
	Get(o Object) (bool, error)

	Create(o Object) error

	Update(o Object) error

	Delete(o Object) error

	// Search walks the bucket of t and returns documents matching the query.
	Search(t Object, q *Query) (*Result, error)

	Count(t Object, q *Query) (int64, error)
}

// Result carries raw matched documents plus the total before paging.
type Result struct {
	Total int64
	Docs  [][]byte
}

var registeredHandler ORM

// Register installs the process wide store handler, done once at bootstrap by
// the selected storage plugin.
func Register(h ORM) {
	registeredHandler = h
}

func GetHandler() ORM {
	if registeredHandler == nil {
		panic(errors.New("orm handler is not registered"))
	}
	return registeredHandler
}

// GetIndexName derives the bucket name from the type name, eg.
// *insight.Dashboard -> "dashboard".
func GetIndexName(o interface{}) string {
	t := reflect.TypeOf(o)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
