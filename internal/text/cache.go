package text

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memoCache is a bounded, concurrency-safe memo table for pure functions of
// immutable string inputs. Misses are harmless (the value is recomputed),
// so no coordination beyond the LRU's own locking is needed.
type memoCache[V any] struct {
	lru *lru.Cache[string, V]
}

func newMemoCache[V any](size int) (*memoCache[V], error) {
	c, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("create memo cache: %w", err)
	}
	return &memoCache[V]{lru: c}, nil
}

func (c *memoCache[V]) get(key string) (V, bool) {
	return c.lru.Get(key)
}

func (c *memoCache[V]) put(key string, value V) {
	c.lru.Add(key, value)
}

// pairKey builds an order-independent cache key for a similarity pair, so
// (a,b) and (b,a) share one entry.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x1f" + b
}
