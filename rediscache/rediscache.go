/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 *
 * Package rediscache provides an implementation of httpcache.Cache backed by
 * Redis. Every entry expires after the cache's TTL so an abandoned session
 * cleans itself up.
 */
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "dartsleague"

type Cache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	ctx    context.Context
}

// New wraps an existing client. A ttl of 0 keeps entries forever.
func New(ctx context.Context, client redis.UniversalClient, prefix string,
	ttl time.Duration) *Cache {

	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		ctx:    ctx,
	}
}

// Dial connects to a single Redis server and verifies it answers.
func Dial(ctx context.Context, addr string, password string, prefix string,
	ttl time.Duration) (*Cache, error) {

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("rediscache.dial: failed to connect to %v: %w",
			addr, err)
	}

	return New(ctx, rdb, prefix, ttl), nil
}

func (c *Cache) key(k string) string {
	return fmt.Sprintf("%v:{%v}", c.prefix, k)
}

func (c *Cache) Get(key string) ([]byte, bool) {
	data, err := c.client.Get(c.ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("rediscache.get: failed to get %v: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

// Set stores data and restarts the key's TTL.
func (c *Cache) Set(key string, data []byte) {
	if err := c.client.Set(c.ctx, c.key(key), data, c.ttl).Err(); err != nil {
		log.Printf("rediscache.set: failed to set %v: %v", key, err)
	}
}

func (c *Cache) Delete(key string) {
	if err := c.client.Del(c.ctx, c.key(key)).Err(); err != nil {
		log.Printf("rediscache.delete: failed to delete %v: %v", key, err)
	}
}

// TTL reports the remaining lifetime of key, or a negative duration when the
// key is absent or has no expiry.
func (c *Cache) TTL(key string) (time.Duration, error) {
	return c.client.TTL(c.ctx, c.key(key)).Result()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
