// Package cache provides the namespaced read-through store used to memoize
// repository reads.
//
// Each Store is one namespace: a size-bounded LRU whose entries also expire
// after a TTL. Concurrent misses for the same key share a single load.
// Invalidation bumps a generation counter: a load that started before an
// eviction never writes its result back, and later readers never share it.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL  = 5 * time.Minute
	DefaultSize = 1024
)

type Config struct {
	Enabled bool
	TTL     time.Duration
	Size    int
}

// Loader fetches a value on a cache miss. The boolean reports whether the
// value may be stored; absent results are typically not cached.
type Loader[V any] func(ctx context.Context) (V, bool, error)

type Stats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type Store[K comparable, V any] struct {
	name       string
	enabled    bool
	lru        *expirable.LRU[K, V]
	group      singleflight.Group
	generation atomic.Uint64
	hits       atomic.Uint64
	misses     atomic.Uint64
	logger     *slog.Logger
}

func New[K comparable, V any](name string, cfg Config, logger *slog.Logger) *Store[K, V] {
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}

	return &Store[K, V]{
		name:    name,
		enabled: cfg.Enabled,
		lru:     expirable.NewLRU[K, V](size, nil, ttl),
		logger:  logger.With("cache", name),
	}
}

func (s *Store[K, V]) Name() string {
	return s.name
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Loader errors are returned as-is and never cached.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, load Loader[V]) (V, error) {
	if !s.enabled {
		v, _, err := load(ctx)
		return v, err
	}

	if v, ok := s.lru.Get(key); ok {
		s.hits.Add(1)
		return v, nil
	}
	s.misses.Add(1)

	// Readers arriving after an invalidation must not join a load that
	// started before it.
	gen := s.generation.Load()
	res, err, shared := s.group.Do(fmt.Sprintf("%d/%#v", gen, key), func() (interface{}, error) {
		v, cacheable, err := load(ctx)
		if err != nil {
			return v, err
		}
		if cacheable && s.generation.Load() == gen {
			s.lru.Add(key, v)
		}
		return v, nil
	})
	if shared {
		s.logger.Debug("cache load shared", "key", fmt.Sprintf("%v", key))
	}
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Invalidate evicts every entry whose key satisfies match and returns the
// number of evicted entries.
func (s *Store[K, V]) Invalidate(match func(K) bool) int {
	s.generation.Add(1)
	evicted := 0
	for _, k := range s.lru.Keys() {
		if match(k) && s.lru.Remove(k) {
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("cache entries invalidated", "count", evicted)
	}
	return evicted
}

// Purge evicts the whole namespace.
func (s *Store[K, V]) Purge() {
	s.generation.Add(1)
	s.lru.Purge()
	s.logger.Debug("cache namespace purged")
}

func (s *Store[K, V]) Len() int {
	return s.lru.Len()
}

func (s *Store[K, V]) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load()}
}
