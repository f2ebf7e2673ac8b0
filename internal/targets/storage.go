package targets

import (
	"sync"

	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/animator"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/host"
	"github.com/fayzullarakhmatullayev/cosmo-fox-mini/internal/registry"
)

// entry is the side-table record for one live target: its visual, the
// handles it owns and its input flags.
type entry struct {
	target       *Target
	visual       host.Visual
	present      bool
	finished     bool
	touchPending bool
	callbacks    Callbacks

	run      *animator.Run
	flourish *animator.Run

	visualHandle   *registry.Handle
	runHandle      *registry.Handle
	flourishHandle *registry.Handle
	expireHandle   *registry.Handle
	listener       *registry.Handle
}

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

func (s *Store) add(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.target.ID] = e
	s.order = append(s.order, e.target.ID)
}

func (s *Store) get(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id]
}

func (s *Store) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) all() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.entries[id])
	}
	return list
}

func (s *Store) Get(id string) *Target {
	if e := s.get(id); e != nil {
		return e.target
	}
	return nil
}

// GetList returns the tracked targets in spawn order.
func (s *Store) GetList() []*Target {
	entries := s.all()
	list := make([]*Target, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.target)
	}
	return list
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	s.order = nil
}
