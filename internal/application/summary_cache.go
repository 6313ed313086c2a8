package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/course-scheduler/internal/schedule"
)

// summaryCache stores recently computed schedule summaries to avoid
// re-expanding occurrences for repeated describe queries. Entries expire on
// a TTL, and keys include the course's UpdatedAt so edits invalidate
// naturally.
type summaryCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]summaryCacheEntry
}

type summaryCacheEntry struct {
	summary   schedule.Summary
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration, maxEntries int, now func() time.Time) *summaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &summaryCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]summaryCacheEntry),
	}
}

func (c *summaryCache) Get(key string) (schedule.Summary, bool) {
	if c == nil {
		return schedule.Summary{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return schedule.Summary{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return schedule.Summary{}, false
	}
	return entry.summary, true
}

func (c *summaryCache) Store(key string, summary schedule.Summary) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = summaryCacheEntry{summary: summary, expiresAt: expiry}
}

func (c *summaryCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *summaryCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func summaryCacheKey(course Course) string {
	return fmt.Sprintf("%s|%d", course.ID, course.UpdatedAt.UnixNano())
}
