// Package cache keeps per-category package lists for the browse view so
// re-entering a category does not hit the package service again.
package cache

import (
	"sync"
	"time"

	"github.com/hatlabs/cockpit-package-manager/pkg/packagekit"
)

// DefaultTTL bounds how stale a cached category list may get before the next
// browse reloads it from the service.
const DefaultTTL = 5 * time.Minute

// GroupCache holds one package list per category. Entries expire after the
// TTL and the whole cache is invalidated after any install or remove, since
// those change the installed markers in every cached list.
type GroupCache struct {
	mu      sync.Mutex
	entries map[packagekit.Group]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	pkgs   []packagekit.Package
	loaded time.Time
}

// New returns an empty cache with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func New(ttl time.Duration) *GroupCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GroupCache{
		entries: make(map[packagekit.Group]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached list for the category, if present and fresh.
func (c *GroupCache) Get(g packagekit.Group) ([]packagekit.Package, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[g]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.loaded) > c.ttl {
		delete(c.entries, g)
		return nil, false
	}
	return e.pkgs, true
}

// Put stores a freshly loaded category list.
func (c *GroupCache) Put(g packagekit.Group, pkgs []packagekit.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[g] = entry{pkgs: pkgs, loaded: c.now()}
}

// Invalidate drops every cached list.
func (c *GroupCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[packagekit.Group]entry)
}
