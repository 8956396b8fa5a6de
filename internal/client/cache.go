package client

import "sync"

// Resource names used as the first half of a cache key.
const (
	ResourceQuestions = "questions"
	ResourceQuizzes   = "quizzes"
)

// Cache holds decoded-ready response bodies keyed by resource and id. The
// empty id stands for the resource's list view.
type Cache interface {
	Get(resource, id string) ([]byte, bool)
	Set(resource, id string, body []byte)
	Invalidate(resource, id string)
	InvalidateResource(resource string)
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]map[string][]byte)}
}

func (c *MemoryCache) Get(resource, id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	body, ok := c.entries[resource][id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), body...), true
}

func (c *MemoryCache) Set(resource, id string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byID, ok := c.entries[resource]
	if !ok {
		byID = make(map[string][]byte)
		c.entries[resource] = byID
	}
	byID[id] = append([]byte(nil), body...)
}

func (c *MemoryCache) Invalidate(resource, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries[resource], id)
}

func (c *MemoryCache) InvalidateResource(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, resource)
}

type nopCache struct{}

func (nopCache) Get(string, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(string, string, []byte) {}
func (nopCache) Invalidate(string, string) {}
func (nopCache) InvalidateResource(string) {}
