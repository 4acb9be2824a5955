package session

import (
	"context"
	"sync"
	"time"

	"pet-supply-store/internal/domain/cart"
	"pet-supply-store/internal/ports/storage"
)

// maxSessions acota el caché de agregadores. Al superarlo se desaloja
// la sesión menos recientemente usada; su estado vive en el storage,
// así que una sesión desalojada se reconstruye intacta al volver.
const maxSessions = 1024

// Manager reparte el storage raíz en namespaces por sesión y cachea
// el agregador del badge de cada sesión (mantiene viva la
// suscripción a cambios entre requests).
type Manager struct {
	root storage.Store

	mu   sync.Mutex
	aggs map[string]*aggEntry
}

type aggEntry struct {
	agg      *cart.Aggregator
	lastSeen time.Time
}

func NewManager(root storage.Store) *Manager {
	return &Manager{
		root: root,
		aggs: make(map[string]*aggEntry),
	}
}

// Store devuelve el storage namespaceado de la sesión. Las claves
// dentro del namespace son las literales del cliente web
// ("cat_products_cart", "token", ...).
func (m *Manager) Store(sid string) storage.Store {
	return storage.Prefixed(m.root, "sess:"+sid+":")
}

// Aggregator devuelve (creando lazy) el agregador del badge.
func (m *Manager) Aggregator(ctx context.Context, sid string) *cart.Aggregator {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.aggs[sid]; ok {
		e.lastSeen = time.Now()
		return e.agg
	}

	if len(m.aggs) >= maxSessions {
		m.evictOldest()
	}

	a := cart.NewAggregator(ctx, m.Store(sid))
	m.aggs[sid] = &aggEntry{agg: a, lastSeen: time.Now()}
	return a
}

// evictOldest cierra y saca la sesión menos recientemente usada.
// Se llama con el lock tomado.
func (m *Manager) evictOldest() {
	var oldest string
	var oldestAt time.Time
	for sid, e := range m.aggs {
		if oldest == "" || e.lastSeen.Before(oldestAt) {
			oldest = sid
			oldestAt = e.lastSeen
		}
	}
	if oldest != "" {
		m.aggs[oldest].agg.Close()
		delete(m.aggs, oldest)
	}
}

// Close libera las suscripciones de todos los agregadores.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for sid, e := range m.aggs {
		e.agg.Close()
		delete(m.aggs, sid)
	}
}
