package decode

import (
	"fmt"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/log"
)

const (
	defaultExpiration      = 10 * time.Minute
	defaultCleanupInterval = 30 * time.Minute
)

// Cache is a read-through decode cache keyed by path plus file identity
// (mtime and size). Hot reloads re-decode only the files that actually
// changed; everything else is served from memory. Cached sets are cloned on
// the way out so callers can own the result.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a decode cache with default expiration.
func NewCache() *Cache {
	return &Cache{cache: gocache.New(defaultExpiration, defaultCleanupInterval)}
}

// Decode parses the file at path, consulting the cache first. Decode errors
// are never cached: a file that fails today is retried on the next reload.
func (c *Cache) Decode(path string, col entities.Collection) (RecordSet, error) {
	if c == nil {
		return DecodeFile(path, col)
	}

	info, err := os.Stat(path)
	if err != nil {
		return RecordSet{}, &ParseError{Path: path, Err: err}
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())

	if value, found := c.cache.Get(key); found {
		set, ok := value.(RecordSet)
		if ok {
			log.Debug(log.CatDecode, "decode cache hit", "path", path)
			return set.Clone(), nil
		}
		log.Error(log.CatDecode, "wrong type in decode cache", "key", key)
	}

	set, err := DecodeFile(path, col)
	if err != nil {
		return RecordSet{}, err
	}

	c.cache.Set(key, set.Clone(), gocache.DefaultExpiration)
	return set, nil
}

// Flush drops all cached entries.
func (c *Cache) Flush() {
	if c != nil {
		c.cache.Flush()
	}
}
