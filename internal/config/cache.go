package config

import (
	"os"
	"sync"
	"time"
)

// Cache holds the parsed site for one file. Get loads on first use;
// Reload and Refresh re-read the file.
type Cache struct {
	path string

	mu      sync.RWMutex
	site    *Site
	modTime time.Time
}

// NewCache returns an empty cache for path.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Path is the file the cache reads.
func (c *Cache) Path() string { return c.path }

// Get returns the cached site, loading it if needed.
func (c *Cache) Get() (*Site, error) {
	c.mu.RLock()
	site := c.site
	c.mu.RUnlock()
	if site != nil {
		return site, nil
	}
	return c.Reload()
}

// Reload re-reads the file. On error the previous site is kept.
func (c *Cache) Reload() (*Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reloadLocked()
}

func (c *Cache) reloadLocked() (*Site, error) {
	var modTime time.Time
	if fi, err := os.Stat(c.path); err == nil {
		modTime = fi.ModTime()
	}
	site, err := LoadSite(c.path)
	if err != nil {
		return nil, err
	}
	c.site = site
	c.modTime = modTime
	return site, nil
}

// Refresh reloads only when the file's modification time changed since the
// last load.
func (c *Cache) Refresh() (site *Site, reloaded bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fi, err := os.Stat(c.path)
	if err != nil {
		return c.site, false, err
	}
	if c.site != nil && fi.ModTime().Equal(c.modTime) {
		return c.site, false, nil
	}
	site, err = c.reloadLocked()
	if err != nil {
		return c.site, false, err
	}
	return site, true, nil
}

// Invalidate drops the cached site so the next Get reads the file.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.site = nil
	c.mu.Unlock()
}
