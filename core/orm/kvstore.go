/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package orm

import (
	"time"

	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/kv"
	"infini.sh/insight/core/util"
)

// KVStoreORM persists objects as JSON documents in a kv.KVStore, one bucket
// per type. Condition matching and sorting happen on the decoded documents.
type KVStoreORM struct {
	store kv.KVStore
}

func NewKVStoreORM(store kv.KVStore) *KVStoreORM {
	return &KVStoreORM{store: store}
}

func (o *KVStoreORM) Open() error {
	return o.store.Open()
}

func (o *KVStoreORM) Close() error {
	return o.store.Close()
}

func (o *KVStoreORM) Get(obj Object) (bool, error) {
	if obj.GetID() == "" {
		return false, errors.New("object id is required")
	}
	bucket := GetIndexName(obj)
	data, err := o.store.GetValue(bucket, []byte(obj.GetID()))
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	return true, util.FromJSONBytes(data, obj)
}

func (o *KVStoreORM) Create(obj Object) error {
	if obj.GetID() == "" {
		obj.SetID(util.GetUUID())
	}
	touch(obj, true)
	return o.save(obj)
}

func (o *KVStoreORM) Update(obj Object) error {
	if obj.GetID() == "" {
		return errors.New("object id is required")
	}
	exists, err := o.store.ExistsKey(GetIndexName(obj), []byte(obj.GetID()))
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("document [%v] not found", obj.GetID())
	}
	touch(obj, false)
	return o.save(obj)
}

func (o *KVStoreORM) Delete(obj Object) error {
	if obj.GetID() == "" {
		return errors.New("object id is required")
	}
	return o.store.DeleteKey(GetIndexName(obj), []byte(obj.GetID()))
}

func (o *KVStoreORM) Search(t Object, q *Query) (*Result, error) {
	bucket := GetIndexName(t)

	var docs []util.MapStr
	err := o.store.IterateBucket(bucket, func(key, value []byte) bool {
		doc := util.MapStr{}
		if err := util.FromJSONBytes(value, &doc); err != nil {
			return true
		}
		if q == nil || MatchConds(doc, q.Conds) {
			docs = append(docs, doc)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	total := int64(len(docs))
	if q != nil {
		SortDocs(docs, q.Sorts)
		docs = page(docs, q.From, q.Size)
	}

	result := &Result{Total: total}
	for _, doc := range docs {
		result.Docs = append(result.Docs, util.MustToJSONBytes(doc))
	}
	return result, nil
}

func (o *KVStoreORM) Count(t Object, q *Query) (int64, error) {
	r, err := o.Search(t, &Query{Conds: condsOf(q)})
	if err != nil {
		return 0, err
	}
	return r.Total, nil
}

func (o *KVStoreORM) save(obj Object) error {
	return o.store.AddValue(GetIndexName(obj), []byte(obj.GetID()), util.MustToJSONBytes(obj))
}

func condsOf(q *Query) []*Cond {
	if q == nil {
		return nil
	}
	return q.Conds
}

func page(docs []util.MapStr, from, size int) []util.MapStr {
	if from > 0 {
		if from >= len(docs) {
			return nil
		}
		docs = docs[from:]
	}
	if size >= 0 && size < len(docs) {
		docs = docs[:size]
	}
	return docs
}

func touch(obj Object, created bool) {
	now := time.Now()
	if base, ok := obj.(interface {
		SetTimestamps(created, updated *time.Time)
		GetCreated() *time.Time
	}); ok {
		if created || base.GetCreated() == nil {
			base.SetTimestamps(&now, &now)
		} else {
			base.SetTimestamps(base.GetCreated(), &now)
		}
	}
}

// SetTimestamps implements the bookkeeping hook used by the stores.
func (obj *ORMObjectBase) SetTimestamps(created, updated *time.Time) {
	obj.Created = created
	obj.Updated = updated
}

func (obj *ORMObjectBase) GetCreated() *time.Time {
	return obj.Created
}

// UnmarshalDocs decodes every raw document of a result into T.
func UnmarshalDocs[T any](r *Result) ([]T, error) {
	items := make([]T, 0, len(r.Docs))
	for _, raw := range r.Docs {
		var item T
		if err := util.FromJSONBytes(raw, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
