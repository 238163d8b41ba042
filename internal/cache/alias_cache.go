// Package cache provides a small in-process cache used in front of the
// shared Redis resolve cache.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/govindup63/Ghstmail.me/internal/domain"
)

// AliasCache is an in-memory TTL cache of resolved aliases. It absorbs
// the repeated lookups a burst of inbound mail to the same alias
// produces, so Redis and the database only see the first one.
type AliasCache struct {
	data sync.Map
	ttl  time.Duration
	done chan struct{}
	once sync.Once
}

type aliasEntry struct {
	alias     *domain.Alias
	expiresAt time.Time
}

// NewAliasCache creates a cache whose entries live for ttl.
func NewAliasCache(ttl time.Duration) *AliasCache {
	c := &AliasCache{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached alias for address, if present and fresh.
func (c *AliasCache) Get(address string) (*domain.Alias, bool) {
	val, ok := c.data.Load(normalize(address))
	if !ok {
		return nil, false
	}

	entry := val.(*aliasEntry)
	if time.Now().After(entry.expiresAt) {
		c.data.Delete(normalize(address))
		return nil, false
	}
	return entry.alias, true
}

// Put stores a resolved alias.
func (c *AliasCache) Put(alias *domain.Alias) {
	c.data.Store(normalize(alias.AliasAddress), &aliasEntry{
		alias:     alias,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate drops the entry for address, if any.
func (c *AliasCache) Invalidate(address string) {
	c.data.Delete(normalize(address))
}

// Close stops the background cleanup loop.
func (c *AliasCache) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *AliasCache) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.data.Range(func(key, value any) bool {
				if now.After(value.(*aliasEntry).expiresAt) {
					c.data.Delete(key)
				}
				return true
			})
		}
	}
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
