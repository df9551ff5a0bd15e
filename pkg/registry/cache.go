package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheFileName is the cache file created in the home directory.
const DefaultCacheFileName = ".turbo-ncu-cache.json"

// DefaultCacheFile returns ~/.turbo-ncu-cache.json, or a file in the current
// directory when no home directory is known.
func DefaultCacheFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, DefaultCacheFileName)
}

type cacheEntry struct {
	Versions  []string `json:"versions"`
	Timestamp int64    `json:"timestamp"`
}

type cacheStore struct {
	Entries map[string]cacheEntry `json:"entries"`
}

// Cache keeps published version lists in a JSON file between runs.
//
// Entries older than the TTL are treated as missing. Cache is safe for
// concurrent use.
type Cache struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	store cacheStore
}

// LoadCache opens the cache at path. A missing or corrupt file starts an
// empty cache.
//
// Parameters:
//   - path: Cache file
//   - ttl: Maximum entry age
//
// Returns:
//   - *Cache: Loaded cache
func LoadCache(path string, ttl time.Duration) *Cache {
	c := &Cache{
		path:  path,
		ttl:   ttl,
		now:   time.Now,
		store: cacheStore{Entries: make(map[string]cacheEntry)},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var store cacheStore
	if err := json.Unmarshal(data, &store); err != nil || store.Entries == nil {
		return c
	}
	c.store = store
	return c
}

func (c *Cache) expired(e cacheEntry) bool {
	age := c.now().Unix() - e.Timestamp
	return time.Duration(age)*time.Second > c.ttl
}

// Get returns the cached versions for name if present and fresh.
func (c *Cache) Get(name string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.Entries[name]
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.Versions, true
}

// Set stores versions for name stamped with the current time.
func (c *Cache) Set(name string, versions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Entries[name] = cacheEntry{Versions: versions, Timestamp: c.now().Unix()}
}

// Prune drops every expired entry.
func (c *Cache) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, e := range c.store.Entries {
		if c.expired(e) {
			delete(c.store.Entries, name)
		}
	}
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store.Entries)
}

// Save writes the cache atomically through a temporary file and rename,
// creating the parent directory if needed.
func (c *Cache) Save() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.store, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Clear empties the cache and deletes its file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.store.Entries = make(map[string]cacheEntry)
	c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
