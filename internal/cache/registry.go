package cache

import (
	"sort"
	"sync"
	"time"

	"submithub/internal/model"
)

// TargetRegistry is the process-wide set of routing targets. Targets are
// registered by admins and live for the process lifetime; re-registering an
// id updates its display name.
type TargetRegistry struct {
	mu      sync.RWMutex
	targets map[string]model.RoutingTarget
}

// NewTargetRegistry returns an empty registry.
func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{targets: make(map[string]model.RoutingTarget)}
}

// Register adds or updates a target. RegisteredAt is preserved on update.
func (r *TargetRegistry) Register(t model.RoutingTarget) model.RoutingTarget {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.targets[t.ID]; ok {
		t.RegisteredAt = existing.RegisteredAt
	} else if t.RegisteredAt.IsZero() {
		t.RegisteredAt = time.Now()
	}
	r.targets[t.ID] = t
	return t
}

// Get returns the target with the given id.
func (r *TargetRegistry) Get(id string) (model.RoutingTarget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.targets[id]
	return t, ok
}

// List returns all targets in registration order.
func (r *TargetRegistry) List() []model.RoutingTarget {
	r.mu.RLock()
	out := make([]model.RoutingTarget, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RegisteredAt.Equal(out[j].RegisteredAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out
}

// Len returns the number of registered targets.
func (r *TargetRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.targets)
}
