package search

import (
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"pathgrip/internal/domain"
)

// Cache maps exact trimmed queries to results. Stored slices are never
// modified after Add.
type Cache interface {
	Get(query string) ([]domain.SearchResult, bool)
	Add(query string, results []domain.SearchResult)
	Purge()
	Len() int
}

// LRUCache is a Cache bounded by entry count and, optionally, age
type LRUCache struct {
	lru *expirable.LRU[string, []domain.SearchResult]
}

// NewLRUCache keeps at most size queries, each for at most ttl (0 keeps
// entries until they are evicted).
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size < 1 {
		size = 1
	}
	return &LRUCache{lru: expirable.NewLRU[string, []domain.SearchResult](size, nil, ttl)}
}

func (c *LRUCache) Get(query string) ([]domain.SearchResult, bool) {
	return c.lru.Get(query)
}

func (c *LRUCache) Add(query string, results []domain.SearchResult) {
	c.lru.Add(query, slices.Clone(results))
}

func (c *LRUCache) Purge() {
	c.lru.Purge()
}

func (c *LRUCache) Len() int {
	return c.lru.Len()
}
