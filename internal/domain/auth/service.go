package auth

import (
	"sync"
	"time"

	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"
)

// maxSessions acota el caché de stores por sesión. Un store desalojado
// no pierde nada: se rehidrata desde el storage persistido al volver.
const maxSessions = 1024

// Sessions resuelve el storage namespaceado de cada sesión.
type Sessions interface {
	Store(sid string) storage.Store
}

// Service mantiene un Store de auth por sesión (lazy). El Store se
// hidrata del storage persistido al crearse, así una sesión que
// vuelve con token sigue logueada.
type Service struct {
	api      UsersAPI
	sessions Sessions
	log      logger.Logger

	mu     sync.Mutex
	stores map[string]*storeEntry
}

type storeEntry struct {
	store    *Store
	lastSeen time.Time
}

func NewService(api UsersAPI, sessions Sessions, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		api:      api,
		sessions: sessions,
		log:      log,
		stores:   make(map[string]*storeEntry),
	}
}

func (s *Service) ForSession(sid string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.stores[sid]; ok {
		e.lastSeen = time.Now()
		return e.store
	}

	if len(s.stores) >= maxSessions {
		s.evictOldest()
	}

	st := NewStore(s.api, s.sessions.Store(sid), s.log.With(map[string]any{"sid": sid}))
	s.stores[sid] = &storeEntry{store: st, lastSeen: time.Now()}
	return st
}

// evictOldest saca la sesión menos recientemente usada. Se llama con
// el lock tomado.
func (s *Service) evictOldest() {
	var oldest string
	var oldestAt time.Time
	for sid, e := range s.stores {
		if oldest == "" || e.lastSeen.Before(oldestAt) {
			oldest = sid
			oldestAt = e.lastSeen
		}
	}
	if oldest != "" {
		delete(s.stores, oldest)
	}
}
