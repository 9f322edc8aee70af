package datasource

import (
	"sync"
	"sync/atomic"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// Snapshot is one immutable, consistent view of the active connection:
// the datasource handle, the last introspected schema, and the current
// documentation overlay. A request takes one snapshot and works with it
// throughout, so it can never observe a fresh schema paired with stale
// documentation or vice versa.
type Snapshot struct {
	Source           Source
	ConnectionString string
	Schema           *models.Schema
	Documentation    models.Documentation
}

// Connected reports whether the snapshot has a live datasource.
func (s *Snapshot) Connected() bool {
	return s != nil && s.Source != nil
}

// State holds the current snapshot behind an atomic pointer. Readers load
// the pointer once per request; writers serialize through a mutex and
// install a fresh snapshot, never mutating one in place.
type State struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[Snapshot]
}

// NewState returns a state with an empty (disconnected) snapshot.
func NewState() *State {
	s := &State{}
	s.current.Store(&Snapshot{})
	return s
}

// Current returns the active snapshot. The returned value must be treated
// as read-only.
func (s *State) Current() *Snapshot {
	return s.current.Load()
}

// Update applies mutate to a copy of the current snapshot and atomically
// installs the result. mutate receives the copy by value; modifying and
// returning it never touches the snapshot concurrent readers hold.
func (s *State) Update(mutate func(cur Snapshot) Snapshot) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := mutate(*s.current.Load())
	s.current.Store(&next)
	return &next
}
