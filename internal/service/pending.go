package service

import (
	"sync"
	"time"

	"submithub/internal/model"
)

// pendingSelections tracks submitters who have uploaded a payload but not yet
// chosen a routing target. One entry per submitter, last write wins; entries
// expire after the configured TTL. State transitions:
//
//	NONE -> AWAITING_TARGET   Put (payload arrived, targets exist)
//	AWAITING_TARGET -> NONE   Take (commit attempt), Cancel, or expiry
type pendingSelections struct {
	mu   sync.Mutex
	m    map[string]model.PendingSelection
	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

func newPendingSelections(ttl time.Duration) *pendingSelections {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &pendingSelections{
		m:    make(map[string]model.PendingSelection),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
}

// Put stores the pending selection, overwriting any prior entry for the
// submitter.
func (p *pendingSelections) Put(sel model.PendingSelection) {
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = time.Now()
	}
	p.mu.Lock()
	p.m[sel.SubmitterID] = sel
	p.mu.Unlock()
}

// Take removes and returns the pending selection for a submitter. Expired
// entries are treated as absent.
func (p *pendingSelections) Take(submitterID string) (model.PendingSelection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sel, ok := p.m[submitterID]
	if !ok {
		return model.PendingSelection{}, false
	}
	delete(p.m, submitterID)
	if time.Since(sel.CreatedAt) > p.ttl {
		return model.PendingSelection{}, false
	}
	return sel, true
}

// Cancel removes the pending selection, reporting whether one existed.
func (p *pendingSelections) Cancel(submitterID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.m[submitterID]; !ok {
		return false
	}
	delete(p.m, submitterID)
	return true
}

// Len returns the number of unexpired pending entries.
func (p *pendingSelections) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, sel := range p.m {
		if time.Since(sel.CreatedAt) <= p.ttl {
			n++
		}
	}
	return n
}

// janitor evicts expired entries in the background so abandoned payloads
// don't pin memory until the next Take.
func (p *pendingSelections) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			for id, sel := range p.m {
				if time.Since(sel.CreatedAt) > p.ttl {
					delete(p.m, id)
				}
			}
			p.mu.Unlock()
		}
	}
}

func (p *pendingSelections) close() {
	p.once.Do(func() { close(p.stop) })
}
