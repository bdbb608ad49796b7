package utils

import "sync"

// SeenSet tracks keys already collected within one adapter run, so paginated
// day views that repeat the same session card don't produce duplicates.
type SeenSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSeenSet creates an empty tracker
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Add returns true if the key is new, false if it was already recorded
func (s *SeenSet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Count returns the number of recorded keys
func (s *SeenSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
