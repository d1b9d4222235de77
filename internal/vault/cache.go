package vault

import "sync"

// Cache mirrors open documents in memory. Tool writes and applied edits
// land here first; persisting unsaved entries to disk is the save
// subsystem's job, not the agent's.
type Cache struct {
	mu      sync.RWMutex
	docs    map[string]string
	unsaved map[string]struct{}
	viewed  string
	active  string
}

// NewCache creates an empty document cache.
func NewCache() *Cache {
	return &Cache{
		docs:    make(map[string]string),
		unsaved: make(map[string]struct{}),
	}
}

// Get returns the cached content for path.
func (c *Cache) Get(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.docs[path]
	return content, ok
}

// Set stores content for path.
func (c *Cache) Set(path, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[path] = content
}

// MarkUnsaved flags path as having cache content newer than disk.
func (c *Cache) MarkUnsaved(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsaved[path] = struct{}{}
}

// ClearUnsaved removes the unsaved flag for path.
func (c *Cache) ClearUnsaved(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unsaved, path)
}

// IsUnsaved reports whether path has unsaved cache content.
func (c *Cache) IsUnsaved(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.unsaved[path]
	return ok
}

// Unsaved returns the paths with unsaved content.
func (c *Cache) Unsaved() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.unsaved))
	for p := range c.unsaved {
		paths = append(paths, p)
	}
	return paths
}

// Forget drops the cache entry for path unless it is unsaved. External
// file changes must not clobber content the user has not persisted yet.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, unsaved := c.unsaved[path]; unsaved {
		return
	}
	delete(c.docs, path)
}

// MarkViewed records path as the most recently viewed document.
func (c *Cache) MarkViewed(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewed = path
}

// MarkActive records path as the document currently open for editing.
func (c *Cache) MarkActive(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = path
}

// ViewedPath returns the most recently viewed document path, or "".
func (c *Cache) ViewedPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewed
}

// ActivePath returns the active document path, or "".
func (c *Cache) ActivePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Snapshot returns a copy of all cached documents for iteration.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]string, len(c.docs))
	for p, content := range c.docs {
		snap[p] = content
	}
	return snap
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
