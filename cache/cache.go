// Package cache 提供带容量上限与过期时间的泛型 LRU 缓存
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config 缓存配置
type Config[K comparable, V any] struct {
	// Name 缓存名称，用于日志与指标
	Name string

	// MaxSize 最大条目数，0 表示不限制
	MaxSize int

	// TTL 自写入起的存活时间，0 表示永不过期
	TTL time.Duration

	// OnEvict 因容量被驱逐时回调，在持锁状态下调用，不得回调缓存自身
	OnEvict func(key K, value V)
}

// Stats 缓存统计
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Expires   int64
	Size      int
}

// HitRate 命中率
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type entry[K comparable, V any] struct {
	key      K
	value    V
	storedAt time.Time
	element  *list.Element
}

// Cache 并发安全的 LRU 缓存，最近使用的条目位于链表头部
type Cache[K comparable, V any] struct {
	config Config[K, V]
	items  map[K]*entry[K, V]
	lru    *list.List
	stats  Stats
	now    func() time.Time
	mu     sync.Mutex
}

// New 创建缓存
func New[K comparable, V any](config Config[K, V]) *Cache[K, V] {
	if config.Name == "" {
		config.Name = "unnamed"
	}
	return &Cache[K, V]{
		config: config,
		items:  make(map[K]*entry[K, V]),
		lru:    list.New(),
		now:    time.Now,
	}
}

// Name 缓存名称
func (c *Cache[K, V]) Name() string { return c.config.Name }

// Get 读取未过期的值，命中时将条目移到链表头部
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if c.expired(e) {
		c.remove(e)
		c.stats.Misses++
		c.stats.Expires++
		return zero, false
	}

	c.lru.MoveToFront(e.element)
	c.stats.Hits++
	return e.value, true
}

// Set 写入或覆盖，超出容量时驱逐最久未使用的条目
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.storedAt = c.now()
		c.lru.MoveToFront(e.element)
		return
	}

	e := &entry[K, V]{key: key, value: value, storedAt: c.now()}
	e.element = c.lru.PushFront(e)
	c.items[key] = e

	for c.config.MaxSize > 0 && len(c.items) > c.config.MaxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		victim := oldest.Value.(*entry[K, V])
		c.remove(victim)
		c.stats.Evictions++
		if c.config.OnEvict != nil {
			c.config.OnEvict(victim.key, victim.value)
		}
	}
}

// Delete 删除条目，返回是否存在
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if ok {
		c.remove(e)
	}
	return ok
}

// Clear 清空缓存，统计保留
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V])
	c.lru.Init()
}

// Len 当前条目数（含尚未清理的过期条目）
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats 统计快照
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = len(c.items)
	return s
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return c.config.TTL > 0 && c.now().Sub(e.storedAt) >= c.config.TTL
}

func (c *Cache[K, V]) remove(e *entry[K, V]) {
	c.lru.Remove(e.element)
	delete(c.items, e.key)
}
