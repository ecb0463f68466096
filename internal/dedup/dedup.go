package dedup

import "sync"

// Key identifies a posting within one run.
type Key struct {
	Title    string
	Company  string
	Location string
}

// Set remembers keys for the lifetime of a single run. It is never
// persisted, so the same posting found again tomorrow is kept tomorrow.
type Set struct {
	mu   sync.Mutex
	seen map[Key]struct{}
}

func NewSet() *Set {
	return &Set{seen: make(map[Key]struct{})}
}

// Add records k and reports whether it was new.
func (s *Set) Add(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.seen[k]; exists {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

// KeepFirst returns items whose key has not been seen earlier in the slice,
// preserving order.
func KeepFirst[T any](items []T, key func(T) Key) []T {
	set := NewSet()
	out := make([]T, 0, len(items))
	for _, it := range items {
		if set.Add(key(it)) {
			out = append(out, it)
		}
	}
	return out
}
