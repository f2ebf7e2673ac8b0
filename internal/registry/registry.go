// Package registry tracks every outstanding timer, animation run, input
// binding and visual a session owns, so a stop can release all of them.
package registry

import (
	"sort"
	"sync"
)

type Kind int

const (
	Timer Kind = iota
	Animation
	Listener
	Visual
)

func (k Kind) String() string {
	switch k {
	case Timer:
		return "timer"
	case Animation:
		return "animation"
	case Listener:
		return "listener"
	case Visual:
		return "visual"
	}
	return "unknown"
}

// Handle owns one release function. Release runs it at most once.
type Handle struct {
	reg     *Registry
	id      uint64
	Kind    Kind
	Owner   string
	release func()
}

// Release deregisters the handle and runs its release function. Later calls,
// and calls after ReleaseAll, do nothing and return false.
func (h *Handle) Release() bool {
	if h == nil {
		return false
	}
	r := h.reg
	r.mu.Lock()
	_, ok := r.handles[h.id]
	delete(r.handles, h.id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	if h.release != nil {
		h.release()
	}
	return true
}

// Live reports whether the handle is still registered.
func (h *Handle) Live() bool {
	if h == nil {
		return false
	}
	h.reg.mu.Lock()
	defer h.reg.mu.Unlock()
	_, ok := h.reg.handles[h.id]
	return ok
}

type Registry struct {
	mu      sync.Mutex
	handles map[uint64]*Handle
	nextID  uint64
}

func New() *Registry {
	return &Registry{
		handles: make(map[uint64]*Handle),
		nextID:  1,
	}
}

// Track registers release under owner and returns its handle.
func (r *Registry) Track(kind Kind, owner string, release func()) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &Handle{reg: r, id: r.nextID, Kind: kind, Owner: owner, release: release}
	r.nextID++
	r.handles[h.id] = h
	return h
}

// ReleaseAll releases every outstanding handle in registration order and
// returns how many were released. Handles registered by release functions
// while this runs are released too.
func (r *Registry) ReleaseAll() int {
	n := 0
	for {
		r.mu.Lock()
		pending := make([]*Handle, 0, len(r.handles))
		for _, h := range r.handles {
			pending = append(pending, h)
		}
		r.mu.Unlock()
		if len(pending) == 0 {
			return n
		}
		sort.Slice(pending, func(i, j int) bool { return pending[i].id < pending[j].id })
		for _, h := range pending {
			if h.Release() {
				n++
			}
		}
	}
}

// ReleaseOwner releases every handle registered under owner.
func (r *Registry) ReleaseOwner(owner string) int {
	r.mu.Lock()
	var pending []*Handle
	for _, h := range r.handles {
		if h.Owner == owner {
			pending = append(pending, h)
		}
	}
	r.mu.Unlock()
	sort.Slice(pending, func(i, j int) bool { return pending[i].id < pending[j].id })
	n := 0
	for _, h := range pending {
		if h.Release() {
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Count returns the number of outstanding handles of kind.
func (r *Registry) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.handles {
		if h.Kind == kind {
			n++
		}
	}
	return n
}
