package memory

import (
	"context"
	"strings"
	"sync"

	"pet-supply-store/internal/ports/storage"
)

// Store es el adapter in-memory del puerto storage.Store.
// Sirve para dev y tests; notifica cambios a los suscriptores
// en la misma goroutine del write (mismo "tab").
type Store struct {
	mu     sync.RWMutex
	values map[string]string

	subMu  sync.Mutex
	subs   map[int]storage.ChangeFunc
	nextID int
}

func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
		subs:   make(map[int]storage.ChangeFunc),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	s.notify(key)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()

	if existed {
		s.notify(key)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	s.values = make(map[string]string)
	s.mu.Unlock()

	for _, k := range keys {
		s.notify(k)
	}
	return nil
}

// ClearPrefix borra solo las claves de un namespace (lo usa storage.Prefixed).
func (s *Store) ClearPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	var cleared []string
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			cleared = append(cleared, k)
			delete(s.values, k)
		}
	}
	s.mu.Unlock()

	for _, k := range cleared {
		s.notify(k)
	}
	return nil
}

func (s *Store) Subscribe(fn storage.ChangeFunc) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(key string) {
	s.subMu.Lock()
	fns := make([]storage.ChangeFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	// Fuera del lock para que un listener pueda releer el store.
	for _, fn := range fns {
		fn(key)
	}
}
