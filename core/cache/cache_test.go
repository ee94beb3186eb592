package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if v, ok := cache.Get(key); !ok || v != want {
			t.Errorf("Get(%s) = %d, %v; want %d, true", key, v, ok, want)
		}
	}
	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false")
	}
	if n := cache.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")
	cache.Put("c", 3) // evicts "b"

	if _, ok := cache.Get("b"); ok {
		t.Error("least recently used entry should be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("recently used entry should survive")
	}
	if s := cache.Stats(); s.Evictions != 1 || s.Size != 2 || s.MaxSize != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRUCache_UpdateAndRemove(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})
	cache.Put("a", 1)
	cache.Put("a", 10)
	if v, _ := cache.Get("a"); v != 10 || cache.Len() != 1 {
		t.Errorf("update: Get(a) = %d, Len() = %d", v, cache.Len())
	}

	cache.Remove("a")
	cache.Remove("missing")
	if cache.Len() != 0 {
		t.Errorf("Len() after Remove = %d", cache.Len())
	}

	cache.Put("x", 1)
	cache.Clear()
	if _, ok := cache.Get("x"); ok || cache.Len() != 0 {
		t.Error("Clear should drop every entry")
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := newLRU[string, int](Config{TTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put("a", 1)
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}

	c.Put("a", 2) // refreshes expiry
	now = now.Add(45 * time.Second)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Fatal("update should refresh expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if s := c.Stats(); s.Misses != 1 || s.Hits != 2 || s.Size != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestLRUCache_OnEvict(t *testing.T) {
	var evicted []string
	cache := NewLRUCache[string, int](Config{
		MaxSize: 1,
		OnEvict: func(key, value interface{}) {
			evicted = append(evicted, fmt.Sprintf("%v=%v", key, value))
		},
	})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Remove("b")

	if len(evicted) != 2 || evicted[0] != "a=1" || evicted[1] != "b=2" {
		t.Errorf("evicted = %v", evicted)
	}
}

func TestLRUCache_UnlimitedAndNegative(t *testing.T) {
	for _, size := range []int{0, -5} {
		cache := NewLRUCache[int, int](Config{MaxSize: size})
		for i := 0; i < 100; i++ {
			cache.Put(i, i)
		}
		if cache.Len() != 100 {
			t.Errorf("MaxSize %d: Len() = %d, want 100", size, cache.Len())
		}
		if cache.Stats().MaxSize != 0 {
			t.Errorf("MaxSize %d should normalize to 0", size)
		}
	}
}

func TestLRUCache_Concurrency(t *testing.T) {
	cache := NewLRUCache[int, int](Config{MaxSize: 50})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				cache.Put(g*1000+i, i)
				cache.Get(g*1000 + i/2)
			}
		}(g)
	}
	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("Len() = %d exceeds MaxSize", cache.Len())
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.MaxSize != 32 || c.TTL != 0 || c.OnEvict != nil {
		t.Errorf("DefaultConfig() = %+v", c)
	}
}

func TestDocumentCache(t *testing.T) {
	c := NewDefaultDocumentCache()
	doc := imo.NewDocument("0.0")

	c.Put("hash1", doc)
	if got, ok := c.Get("hash1"); !ok || got != doc {
		t.Error("Get should return the cached document")
	}
	if c.Len() != 1 || c.Stats().Hits != 1 {
		t.Errorf("Len() = %d, Stats() = %+v", c.Len(), c.Stats())
	}

	c.Remove("hash1")
	if _, ok := c.Get("hash1"); ok {
		t.Error("document should be removed")
	}
	c.Put("hash2", doc)
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestDocumentCache_GetOrLoad(t *testing.T) {
	c := NewDocumentCache(Config{MaxSize: 4})
	loads := 0
	load := func() (*imo.Document, error) {
		loads++
		return imo.NewDocument("0.0"), nil
	}

	first, err := c.GetOrLoad("h", load)
	if err != nil {
		t.Fatalf("GetOrLoad() error = %v", err)
	}
	second, err := c.GetOrLoad("h", load)
	if err != nil || second != first || loads != 1 {
		t.Errorf("second GetOrLoad should hit the cache (loads = %d)", loads)
	}

	boom := errors.New("parse failed")
	_, err = c.GetOrLoad("bad", func() (*imo.Document, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("GetOrLoad() error = %v, want %v", err, boom)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed loads must not be cached")
	}
}

func TestSourceCache_ByteLimit(t *testing.T) {
	c := NewSourceCache(Config{}, 10)

	c.Put("a", []byte("1234"))
	c.Put("b", []byte("5678"))
	if s := c.Stats(); s.TotalBytes != 8 || s.Size != 2 {
		t.Fatalf("Stats() = %+v", s)
	}

	c.Put("c", []byte("abcd")) // evicts "a"
	if _, ok := c.Get("a"); ok {
		t.Error("oldest source should be evicted to make room")
	}
	if s := c.Stats(); s.TotalBytes != 8 || s.Evictions != 1 {
		t.Errorf("Stats() = %+v", s)
	}

	c.Put("huge", make([]byte, 11))
	if _, ok := c.Get("huge"); ok {
		t.Error("values over the byte limit must not be cached")
	}
}

func TestBoundedCache_RemoveClearLen(t *testing.T) {
	var evicted int
	c := NewBoundedCache[string, string](Config{OnEvict: func(_, _ interface{}) { evicted++ }}, 0,
		func(s string) int64 { return int64(len(s)) })

	c.Put("a", "xx")
	c.Put("a", "xxxx")
	if s := c.Stats(); s.TotalBytes != 4 || c.Len() != 1 {
		t.Errorf("replace: Stats() = %+v, Len() = %d", s, c.Len())
	}

	c.Put("b", "yyy")
	c.Remove("a")
	c.Remove("nope")
	if s := c.Stats(); s.TotalBytes != 3 {
		t.Errorf("TotalBytes after Remove = %d, want 3", s.TotalBytes)
	}
	if evicted != 2 {
		t.Errorf("OnEvict calls = %d, want 2", evicted)
	}

	c.Clear()
	if c.Len() != 0 || c.Stats().TotalBytes != 0 {
		t.Error("Clear should reset entries and bytes")
	}
}
