package render

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds rendered figures under explicit UUID handles so follow-up
// requests (re-serve, PNG download) can address them. Entries expire after
// a TTL; there is no process-wide "active figure".
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	figures map[string]registryEntry
}

type registryEntry struct {
	fig     *Figure
	expires time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		figures: make(map[string]registryEntry),
	}
}

// Put registers a figure and returns its handle.
func (r *Registry) Put(fig *Figure) string {
	id := uuid.NewString()
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(now)
	r.figures[id] = registryEntry{fig: fig, expires: now.Add(r.ttl)}
	return id
}

// Get looks up a figure and refreshes its TTL.
func (r *Registry) Get(id string) (*Figure, bool) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(now)
	entry, ok := r.figures[id]
	if !ok {
		return nil, false
	}
	entry.expires = now.Add(r.ttl)
	r.figures[id] = entry
	return entry.fig, true
}

// Delete drops a figure eagerly, before its TTL runs out.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.figures, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.figures)
}

func (r *Registry) evictLocked(now time.Time) {
	for id, entry := range r.figures {
		if now.After(entry.expires) {
			delete(r.figures, id)
		}
	}
}
