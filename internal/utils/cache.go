package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem 包装实际的数据，增加过期时间
type cacheItem[V any] struct {
	Value     V
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存，并发安全
type TTLCache[K comparable, V any] struct {
	storage *lru.Cache[K, cacheItem[V]]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTLCache size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[K comparable, V any](size int, ttl time.Duration) *TTLCache[K, V] {
	if size < 1 {
		size = 1
	}
	c, _ := lru.New[K, cacheItem[V]](size)
	return &TTLCache[K, V]{
		storage: c,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set 写入或覆盖
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.storage.Add(key, cacheItem[V]{
		Value:     value,
		ExpiredAt: c.now().Add(c.ttl),
	})
}

// Get 过期的条目视为不存在并被移除
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.Value, true
}

// Delete 删除
func (c *TTLCache[K, V]) Delete(key K) {
	c.storage.Remove(key)
}

// Clear 清空
func (c *TTLCache[K, V]) Clear() {
	c.storage.Purge()
}

// Len 当前条数，包含尚未被清理的过期条目
func (c *TTLCache[K, V]) Len() int {
	return c.storage.Len()
}
