package watcher

import (
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// ContentCache remembers the last observed content hash per path so spurious
// watcher events, touches and editor save dances that leave the bytes
// unchanged, can be dropped before paying for cache invalidation.
type ContentCache struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewContentCache creates an empty content cache.
func NewContentCache() *ContentCache {
	return &ContentCache{
		hashes: make(map[unique.Handle[string]]uint64),
	}
}

// Changed reports whether the file's content differs from the last
// observation and records the new hash. An unreadable or removed file always
// counts as changed and its entry is forgotten.
func (c *ContentCache) Changed(path string) bool {
	handle := unique.Make(path)

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the watcher
	if err != nil {
		c.mu.Lock()
		delete(c.hashes, handle)
		c.mu.Unlock()
		return true
	}
	sum := xxhash.Sum64(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	previous, seen := c.hashes[handle]
	c.hashes[handle] = sum
	return !seen || previous != sum
}

// Forget drops the recorded hash for a path.
func (c *ContentCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hashes, unique.Make(path))
}
