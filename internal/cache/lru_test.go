package cache

import (
	"testing"
	"time"
)

func TestLRUCacheBasic(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	// "b" is now least recently used and must be evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
	c.Set("k2", "v")
	time.Sleep(20 * time.Millisecond)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired = %d, want 1", removed)
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)

	c.Set("user-1:dashboard", 1)
	c.Set("user-1:report", 2)
	c.Set("user-2:dashboard", 3)

	if removed := c.DeletePrefix("user-1:"); removed != 2 {
		t.Errorf("DeletePrefix = %d, want 2", removed)
	}
	if _, ok := c.Get("user-1:dashboard"); ok {
		t.Error("prefixed key survived DeletePrefix")
	}
	if _, ok := c.Get("user-2:dashboard"); !ok {
		t.Error("unrelated key was removed")
	}
}
