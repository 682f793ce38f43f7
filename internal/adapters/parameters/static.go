package parameters

import (
	"context"
	"strings"
	"sync"
)

// StaticStore is an in-memory Store keyed by full parameter name
type StaticStore struct {
	mu     sync.RWMutex
	values map[string]string
	calls  int
	failN  int
	err    error
}

// NewStaticStore creates a store holding the given parameters
func NewStaticStore(values map[string]string) *StaticStore {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &StaticStore{values: copied}
}

// FailNext makes the next n reads return err
func (s *StaticStore) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failN = n
	s.err = err
}

// Calls returns how many reads were attempted
func (s *StaticStore) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

// GetByPath implements Store.GetByPath
func (s *StaticStore) GetByPath(ctx context.Context, path string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if s.failN > 0 {
		s.failN--
		return nil, s.err
	}

	prefix := strings.TrimRight(path, "/") + "/"
	values := make(map[string]string)
	for k, v := range s.values {
		if strings.HasPrefix(k, prefix) {
			values[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return values, nil
}
