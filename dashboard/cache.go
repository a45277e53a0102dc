package dashboard

import "github.com/spektr-org/ridepulse/engine"

// entry is one memoized section computation.
type entry struct {
	view     engine.View
	snapshot *engine.Snapshot
}

// fifoCache keeps the most recent capacity entries, evicting in insertion
// order. Not safe for concurrent use; Section guards it with its mutex.
type fifoCache struct {
	capacity int
	order    []string
	items    map[string]*entry
}

func newFIFOCache(capacity int) *fifoCache {
	if capacity < 1 {
		capacity = 1
	}
	return &fifoCache{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		items:    make(map[string]*entry, capacity),
	}
}

func (c *fifoCache) get(key string) (*entry, bool) {
	e, ok := c.items[key]
	return e, ok
}

func (c *fifoCache) put(key string, e *entry) {
	if _, ok := c.items[key]; ok {
		c.items[key] = e
		return
	}
	if len(c.order) == c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
	c.order = append(c.order, key)
	c.items[key] = e
}

func (c *fifoCache) len() int { return len(c.order) }
