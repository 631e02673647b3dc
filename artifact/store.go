package artifact

import "sync"

// Store holds the active bundle for the process. Inference reads it
// without locking the pipeline: Current hands out an immutable *Bundle
// and concurrent calls keep using whichever bundle they picked up, even
// across a Swap.
type Store struct {
	mu      sync.RWMutex
	bundle  *Bundle
	status  Status
	version uint64
}

func NewStore() *Store {
	return &Store{}
}

// Swap installs a freshly loaded bundle and its status. The generation
// counter lets callers (e.g. response caches) detect artifact changes.
func (s *Store) Swap(b *Bundle, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = b
	s.status = st
	s.version++
}

// SetStatus records the outcome of a failed load attempt without
// disturbing the active bundle.
func (s *Store) SetStatus(st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// Current returns the active bundle (nil when nothing is loaded) and the
// generation it belongs to.
func (s *Store) Current() (*Bundle, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle, s.version
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
