package varstore

import (
	"fmt"
	"sync"
)

// Store is the shared variable store for one pipeline run: a mapping from
// variable name to produced value. It is an explicit object passed through
// the run, never ambient state, so unrelated runs stay independent.
//
// Names are single-assignment: a value, once written, is never overwritten
// or removed for the lifetime of the run. The engine only writes at wave
// boundaries and tasks within a wave never read a sibling's output, but the
// store is still guarded by an RWMutex so callers may inspect it
// concurrently with a run (e.g. for progress reporting). The key space is
// small and writes are rare, so a mutex-guarded map beats sync.Map here.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Seed writes the externally pre-satisfied values into the store before
// wave 0. It fails if any name was already assigned.
func (s *Store) Seed(values map[string]any) error {
	for name, value := range values {
		if err := s.Put(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Put assigns a value to a name. Assigning a name twice is an error: the
// planner guarantees unique outputs, so a duplicate write indicates a bug
// or a pre-satisfied name colliding with a step output.
func (s *Store) Put(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.values[name]; exists {
		return fmt.Errorf("variable %q already assigned", name)
	}
	s.values[name] = value
	return nil
}

// Get returns the value assigned to name, if any.
func (s *Store) Get(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[name]
	return value, ok
}

// Has reports whether name has been assigned.
func (s *Store) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Len returns the number of assigned names.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a copy of the current name→value mapping. The values
// themselves are shared, not deep-copied.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}
