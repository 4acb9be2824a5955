package cart

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"

	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/ports/storage"
)

// Aggregator suma los seis contadores por especie en el número del
// badge de navegación. Sin red: solo lecturas del storage de la
// sesión. Si el store notifica cambios (memory), mantiene el valor
// al día; si no (postgres), cada Badge recalcula on-demand.
type Aggregator struct {
	kv      storage.Store
	watched bool
	badge   atomic.Int64
	stop    func()
}

func NewAggregator(ctx context.Context, kv storage.Store) *Aggregator {
	a := &Aggregator{kv: kv}

	if w, ok := kv.(storage.Watcher); ok {
		a.watched = true
		a.stop = w.Subscribe(func(key string) {
			if strings.HasSuffix(key, "_cart_count") {
				a.badge.Store(int64(a.recompute(context.WithoutCancel(ctx))))
			}
		})
	}

	// Lectura inicial (el "mount").
	a.badge.Store(int64(a.recompute(ctx)))
	return a
}

// Badge devuelve el total agregado.
func (a *Aggregator) Badge(ctx context.Context) int {
	if a.watched {
		return int(a.badge.Load())
	}
	return a.recompute(ctx)
}

// Close da de baja la suscripción de cambios.
func (a *Aggregator) Close() {
	if a.stop != nil {
		a.stop()
	}
}

func (a *Aggregator) recompute(ctx context.Context) int {
	total := 0
	for _, species := range catalog.AllSpecies() {
		raw, err := a.kv.Get(ctx, CountKey(species))
		if err != nil {
			continue // sin contador => 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			continue // valor corrupto degrada a 0, nunca crash
		}
		total += n
	}
	return total
}
