// Package registry provides a lazy, keyed store for expensive model handles.
// Models are registered as construction recipes and materialized on first use,
// so a process only pays the load cost of the models it actually touches.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered is returned by Get for keys that were never registered.
var ErrNotRegistered = errors.New("model key not registered")

// Factory builds a model handle. It typically performs file I/O and is
// expected to be expensive; the store guarantees it runs at most once on
// success.
type Factory func() (any, error)

type entry struct {
	mu    sync.Mutex
	build Factory
	value any
	ready bool
}

// Store maps keys to lazily constructed model handles. The zero value is not
// usable; create one with New. A Store is safe for concurrent use: each key
// has its own lock, so loading one model does not block access to others.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Register stores a construction recipe under key. Registering the same key
// again replaces the recipe and discards any cached handle.
func (s *Store) Register(key string, build Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{build: build}
}

// Get returns the handle for key, materializing it on first request. The
// handle is cached for the lifetime of the store. A factory error is returned
// to the caller and not cached, so a later Get retries the construction.
func (s *Store) Get(key string) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrNotRegistered)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return e.value, nil
	}
	value, err := e.build()
	if err != nil {
		return nil, fmt.Errorf("loading model %q: %w", key, err)
	}
	e.value = value
	e.ready = true
	return value, nil
}

// Keys returns the registered keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve fetches the handle for key and asserts it to type T.
func Resolve[T any](s *Store, key string) (T, error) {
	var zero T
	value, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("model %q has type %T, want %T", key, value, zero)
	}
	return typed, nil
}
