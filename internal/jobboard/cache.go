package jobboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/job-search/internal/types"
)

// DefaultCacheTTL is how long a search result stays fresh.
const DefaultCacheTTL = 6 * time.Hour

const cacheKeyPrefix = "jobsearch:search:"

// Cache stores serialized search results.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheKey derives a stable key from the query and the sites searched.
func CacheKey(sites []Site, q Query) string {
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = string(s)
	}
	raw := fmt.Sprintf("%s|%s|%s|%d|%d|%s|%t",
		strings.Join(names, ","),
		strings.ToLower(strings.TrimSpace(q.SearchTerm)),
		strings.ToLower(strings.TrimSpace(q.Location)),
		q.ResultsWanted, q.HoursOld, strings.ToLower(q.CountryIndeed), q.IsRemote)
	sum := sha256.Sum256([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}

// Cached serves repeated queries from a Cache. Cache errors are logged and
// never fail the search.
type Cached struct {
	inner   Scraper
	cache   Cache
	sites   []Site
	ttl     time.Duration
	verbose bool
}

// NewCached wraps inner. sites is folded into the key so different site sets
// never share entries.
func NewCached(inner Scraper, cache Cache, sites []Site, ttl time.Duration, verbose bool) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{inner: inner, cache: cache, sites: sites, ttl: ttl, verbose: verbose}
}

// Search returns cached postings when present, otherwise searches and stores
// the result. Empty results are not cached.
func (c *Cached) Search(ctx context.Context, q Query) ([]types.JobPosting, error) {
	key := CacheKey(c.sites, q)

	data, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		log.Printf("[CACHE] lookup failed: %v", err)
	case ok:
		var jobs []types.JobPosting
		if err := json.Unmarshal(data, &jobs); err == nil {
			if c.verbose {
				log.Printf("[CACHE] hit %s (%d postings)", key, len(jobs))
			}
			return jobs, nil
		}
		log.Printf("[CACHE] discarding unreadable entry %s", key)
	}

	jobs, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return jobs, nil
	}

	data, err = json.Marshal(jobs)
	if err == nil {
		err = c.cache.Set(ctx, key, data, c.ttl)
	}
	if err != nil {
		log.Printf("[CACHE] store failed: %v", err)
	} else if c.verbose {
		log.Printf("[CACHE] stored %s (%d postings, ttl %s)", key, len(jobs), c.ttl)
	}
	return jobs, nil
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set implements Cache.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expires: m.now().Add(ttl)}
	return nil
}

// RedisCache stores entries in Redis with native expiry.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at url and pings it.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

// Get implements Cache.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set implements Cache.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// OpenCache returns a RedisCache when redisURL is set and reachable, and a
// MemoryCache otherwise.
func OpenCache(ctx context.Context, redisURL string) Cache {
	if redisURL == "" {
		return NewMemoryCache()
	}
	rc, err := NewRedisCache(ctx, redisURL)
	if err != nil {
		log.Printf("[CACHE] %v; using in-memory cache", err)
		return NewMemoryCache()
	}
	return rc
}
