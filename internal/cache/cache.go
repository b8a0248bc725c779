// Package cache holds the in-memory projections of external state: the
// submission cache rebuilt from the reconciler and the routing-target
// registry. Neither is authoritative; both are rebuildable and start empty.
package cache

import (
	"sort"
	"sync"

	"submithub/internal/model"
)

// SubmissionCache maps file name to canonical submission. Replace swaps the
// whole snapshot at once so concurrent readers never observe a half-built map;
// PutLocal inserts a single record after a successful commit so a submitter's
// own action is visible before the next full rebuild.
type SubmissionCache struct {
	mu   sync.RWMutex
	snap map[string]model.Submission
}

// NewSubmissionCache returns an empty cache.
func NewSubmissionCache() *SubmissionCache {
	return &SubmissionCache{snap: make(map[string]model.Submission)}
}

// Replace installs a new snapshot wholesale. The argument is owned by the
// cache afterwards; callers must not mutate it.
func (c *SubmissionCache) Replace(snap map[string]model.Submission) {
	if snap == nil {
		snap = make(map[string]model.Submission)
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// Get returns the cached submission for a file name.
func (c *SubmissionCache) Get(fileName string) (model.Submission, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sub, ok := c.snap[fileName]
	return sub, ok
}

// PutLocal inserts one record without triggering a rebuild.
func (c *SubmissionCache) PutLocal(sub model.Submission) {
	c.mu.Lock()
	c.snap[sub.FileName] = sub
	c.mu.Unlock()
}

// All returns the cached submissions sorted by file name.
func (c *SubmissionCache) All() []model.Submission {
	c.mu.RLock()
	out := make([]model.Submission, 0, len(c.snap))
	for _, sub := range c.snap {
		out = append(out, sub)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out
}

// Len returns the number of cached records.
func (c *SubmissionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snap)
}
