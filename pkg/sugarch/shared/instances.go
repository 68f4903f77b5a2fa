package shared

import "sync"

// Instances is a thread-safe store of singleton values indexed by key.
// It uses sync.RWMutex for read-heavy acquisition patterns.
type Instances[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewInstances creates an empty store.
func NewInstances[K comparable, V any]() *Instances[K, V] {
	return &Instances[K, V]{
		entries: make(map[K]V),
	}
}

// Acquire returns the value for a key, creating it with the factory if
// it doesn't exist. The operation is atomic: the factory is called at
// most once per key, even under concurrent access.
func (s *Instances[K, V]) Acquire(key K, factory func() V) V {
	// Fast path: already created
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := s.entries[key]; ok {
		return v
	}

	v = factory()
	s.entries[key] = v
	return v
}

// Peek returns the value for a key without creating it.
func (s *Instances[K, V]) Peek(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Drop removes a key. The next Acquire for that key runs its factory
// again.
func (s *Instances[K, V]) Drop(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Keys returns all keys in the store. The order is not guaranteed.
func (s *Instances[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the store.
func (s *Instances[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
