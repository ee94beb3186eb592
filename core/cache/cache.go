// Package cache provides LRU caching for parsed score documents and for
// raw score sources read from the store.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
	Remove(key K)
	Clear()
	Len() int
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	Size       int
	MaxSize    int
	TotalBytes int64
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry leaves the cache, whether it was
	// evicted, expired or removed.
	OnEvict func(key, value interface{})
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{MaxSize: 32}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
	now       func() time.Time
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	return newLRU[K, V](config)
}

func newLRU[K comparable, V any](config Config) *lruCache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &lruCache[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
		now:       time.Now,
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	e := ent.Value.(*entry[K, V])
	if c.config.TTL > 0 && c.now().After(e.expiresAt) {
		c.removeElement(ent)
		c.stats.Misses++
		return zero, false
	}

	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return e.value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		e.value = value
		c.touch(e)
		return
	}

	e := &entry[K, V]{key: key, value: value}
	c.touch(e)
	c.entries[key] = c.evictList.PushFront(e)

	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		c.removeOldest()
	}
}

func (c *lruCache[K, V]) touch(e *entry[K, V]) {
	if c.config.TTL > 0 {
		e.expiresAt = c.now().Add(c.config.TTL)
	}
}

func (c *lruCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.removeElement(ent)
	}
}

// Clear removes all entries without calling OnEvict.
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
}

func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

// removeOldest removes the least recently used entry.
func (c *lruCache[K, V]) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
		c.stats.Evictions++
	}
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// DocumentCache caches parsed documents by the SHA-256 hash of their
// source. Cached documents are shared; callers must not modify them.
type DocumentCache struct {
	cache Cache[string, *imo.Document]
}

// NewDocumentCache creates a new document cache.
func NewDocumentCache(config Config) *DocumentCache {
	return &DocumentCache{cache: NewLRUCache[string, *imo.Document](config)}
}

// NewDefaultDocumentCache creates a document cache with default configuration.
func NewDefaultDocumentCache() *DocumentCache {
	return NewDocumentCache(DefaultConfig())
}

// Get retrieves a document by source hash.
func (c *DocumentCache) Get(hash string) (*imo.Document, bool) { return c.cache.Get(hash) }

// Put stores a document under its source hash.
func (c *DocumentCache) Put(hash string, doc *imo.Document) { c.cache.Put(hash, doc) }

// Remove removes a document from the cache.
func (c *DocumentCache) Remove(hash string) { c.cache.Remove(hash) }

// Clear removes all documents.
func (c *DocumentCache) Clear() { c.cache.Clear() }

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int { return c.cache.Len() }

// Stats returns cache statistics.
func (c *DocumentCache) Stats() Stats { return c.cache.Stats() }

// GetOrLoad returns the cached document for hash, or calls load and caches
// its result. Load errors are not cached.
func (c *DocumentCache) GetOrLoad(hash string, load func() (*imo.Document, error)) (*imo.Document, error) {
	if doc, ok := c.cache.Get(hash); ok {
		return doc, nil
	}
	doc, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Put(hash, doc)
	return doc, nil
}

// BoundedCache is an LRU cache with both entry count and byte size limits.
// Least recently used entries are evicted until a new value fits.
type BoundedCache[K comparable, V any] struct {
	mu          sync.Mutex
	lru         *lruCache[K, V]
	maxBytes    int64
	currentSize int64
	sizeFunc    func(V) int64
}

// NewBoundedCache creates a new cache with both entry count and byte size limits.
func NewBoundedCache[K comparable, V any](config Config, maxBytes int64, sizeFunc func(V) int64) *BoundedCache[K, V] {
	c := &BoundedCache[K, V]{maxBytes: maxBytes, sizeFunc: sizeFunc}
	onEvict := config.OnEvict
	config.OnEvict = func(key, value interface{}) {
		c.currentSize -= sizeFunc(value.(V))
		if onEvict != nil {
			onEvict(key, value)
		}
	}
	c.lru = newLRU[K, V](config)
	return c
}

// NewSourceCache creates a bounded cache of raw score sources keyed by
// hash.
func NewSourceCache(config Config, maxBytes int64) *BoundedCache[string, []byte] {
	return NewBoundedCache[string, []byte](config, maxBytes, func(b []byte) int64 {
		return int64(len(b))
	})
}

func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(key)
}

// Put stores a value, evicting old entries to make room. Values larger
// than the byte limit are not cached.
func (c *BoundedCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.sizeFunc(value)
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	c.lru.Remove(key)
	if c.maxBytes > 0 {
		for c.currentSize+size > c.maxBytes && c.lru.Len() > 0 {
			c.lru.removeOldest()
		}
	}

	c.lru.Put(key, value)
	c.currentSize += size
}

func (c *BoundedCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

func (c *BoundedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
	c.currentSize = 0
}

func (c *BoundedCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns cache statistics including byte size information.
func (c *BoundedCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.lru.Stats()
	stats.TotalBytes = c.currentSize
	return stats
}
