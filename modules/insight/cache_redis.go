/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package insight

import (
	"context"
	"time"

	log "github.com/cihub/seelog"
	"github.com/go-redis/redis/v8"
	"infini.sh/insight/core/util"
)

const redisKeyspace = "insight:cache:"

// redisCache shares computed results across instances. Entries are JSON
// encoded, TTL is enforced by redis itself.
type redisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) (ResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(key string) (*CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, redisKeyspace+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Error("redis cache get: ", err)
		}
		return nil, false
	}
	entry := &CacheEntry{}
	if err := util.FromJSONBytes(data, entry); err != nil {
		log.Error("redis cache decode: ", err)
		return nil, false
	}
	return entry, true
}

func (c *redisCache) Put(key string, entry *CacheEntry, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, redisKeyspace+key, util.MustToJSONBytes(entry), ttl).Err(); err != nil {
		log.Error("redis cache put: ", err)
	}
}

func (c *redisCache) InvalidateOwner(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pattern := redisKeyspace + OwnerPrefix(ownerID) + "*"
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Error("redis cache scan: ", err)
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Error("redis cache del: ", err)
		}
	}
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
