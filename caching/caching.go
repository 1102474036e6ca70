// Package caching wraps an in-memory TTL cache shared by the console services.
package caching

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	memoryCache *cache.Cache
}

// NewCache creates a cache whose items expire after ttl and are swept every cleanup.
func NewCache(ttl, cleanup time.Duration) *Cache {
	return &Cache{memoryCache: cache.New(ttl, cleanup)}
}

func (s *Cache) Get(key string) (any, bool) {
	return s.memoryCache.Get(key)
}

// Set stores value under key with the default expiration.
func (s *Cache) Set(key string, value any) {
	s.memoryCache.SetDefault(key, value)
}

func (s *Cache) Delete(key string) {
	s.memoryCache.Delete(key)
}

// Incr increments the counter under key, creating it with ttl when missing,
// and returns the new value.
func (s *Cache) Incr(key string, ttl time.Duration) int {
	if err := s.memoryCache.Add(key, 1, ttl); err == nil {
		return 1
	}
	n, err := s.memoryCache.IncrementInt(key, 1)
	if err != nil {
		// expired between Add and IncrementInt
		s.memoryCache.Set(key, 1, ttl)
		return 1
	}
	return n
}

func (s *Cache) Flush() {
	s.memoryCache.Flush()
}

func (s *Cache) Memory() *cache.Cache {
	return s.memoryCache
}
