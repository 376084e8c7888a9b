package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/lunamir/aria/internal/storage"
)

// entry is a cached provider response with its write timestamp.
type entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Cache is a TTL cache for provider responses, persisted through the
// key-value store so entries survive restarts. Entries are superseded by
// fresh writes and lazily ignored once expired; nothing deletes them
// explicitly.
type Cache struct {
	store *storage.Store
}

// New creates a cache over the given store.
func New(store *storage.Store) *Cache {
	return &Cache{store: store}
}

// signature is the normalized shape hashed into a cache key.
type signature struct {
	Method string
	URL    string
}

// Key builds a cache key from a provider name and request signature.
func Key(provider, method, url string) string {
	hash, err := hashstructure.Hash(signature{Method: method, URL: url}, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a two-string struct cannot realistically fail; fall
		// back to the raw URL to stay functional if it somehow does.
		return fmt.Sprintf("cache:%s:%s %s", provider, method, url)
	}
	return fmt.Sprintf("cache:%s:%x", provider, hash)
}

// Get returns the cached payload for key if it is younger than ttl.
func (c *Cache) Get(key string, ttl time.Duration) (json.RawMessage, bool) {
	var e entry
	if !c.store.GetJSON(key, &e) {
		return nil, false
	}
	if time.Since(e.Timestamp) >= ttl {
		return nil, false
	}
	return e.Data, true
}

// Put stores a payload under key, overwriting any previous entry.
func (c *Cache) Put(key string, data json.RawMessage) {
	c.store.SetJSON(key, entry{Timestamp: time.Now(), Data: data})
}
