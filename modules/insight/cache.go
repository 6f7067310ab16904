/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"time"

	ccache "github.com/karlseguin/ccache/v2"
	"infini.sh/insight/core/insight"
	"infini.sh/insight/core/util"
)

// CacheEntry is the computed result of one chart request.
type CacheEntry struct {
	Rows        []util.MapStr    `json:"rows"`
	Columns     []insight.Column `json:"columns,omitempty"`
	Query       string           `json:"query,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ResultCache stores computed chart/dashboard results under semantic keys.
// Implementations must support prefix invalidation per owner.
type ResultCache interface {
	Get(key string) (*CacheEntry, bool)
	Put(key string, entry *CacheEntry, ttl time.Duration)
	InvalidateOwner(ownerID string)
	Close() error
}

// localCache is the default backend, an in-process LRU with per-item TTL.
type localCache struct {
	cache *ccache.Cache
}

func NewLocalCache(maxSize int64) ResultCache {
	if maxSize <= 0 {
		maxSize = 5000
	}
	return &localCache{
		cache: ccache.New(ccache.Configure().MaxSize(maxSize).ItemsToPrune(100)),
	}
}

func (c *localCache) Get(key string) (*CacheEntry, bool) {
	item := c.cache.Get(key)
	if item == nil || item.Expired() {
		return nil, false
	}
	entry, ok := item.Value().(*CacheEntry)
	if !ok {
		return nil, false
	}
	return entry, true
}

func (c *localCache) Put(key string, entry *CacheEntry, ttl time.Duration) {
	c.cache.Set(key, entry, ttl)
}

func (c *localCache) InvalidateOwner(ownerID string) {
	c.cache.DeletePrefix(OwnerPrefix(ownerID))
}

func (c *localCache) Close() error {
	c.cache.Stop()
	return nil
}
