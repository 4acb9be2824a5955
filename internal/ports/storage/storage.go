package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indica que la clave no existe en el store.
	ErrNotFound = errors.New("key not found")
)

// Store es el puerto de persistencia clave/valor del storefront.
// Modela el storage de navegador del cliente web: valores string planos,
// lecturas/escrituras síncronas desde el punto de vista del caller.
// Un valor corrupto o ausente degrada a default en el dominio, nunca a crash.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// Clear borra todas las claves del namespace del store.
	Clear(ctx context.Context) error
}

// ChangeFunc recibe la clave modificada (set o delete).
type ChangeFunc func(key string)

// Watcher lo implementan los stores que notifican cambios
// (el análogo del storage event entre tabs). Es best-effort:
// un adapter sin notificaciones sigue siendo un Store válido.
type Watcher interface {
	// Subscribe registra un listener; devuelve una función para
	// darse de baja. Los callbacks llegan después del write.
	Subscribe(fn ChangeFunc) (unsubscribe func())
}

// Prefixed envuelve un Store aplicando un prefijo a cada clave.
// Así el dominio usa las claves literales (ej. "cat_products_cart")
// y el aislamiento por sesión queda fuera de su vista.
// El wrapper es Watcher solo si el store interno lo es: un caller que
// haga type-assert de Watcher ve la capacidad real, no una de mentira.
func Prefixed(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	ps := &prefixStore{inner: s, prefix: prefix}
	if _, ok := s.(Watcher); ok {
		return &watchedPrefixStore{prefixStore: ps}
	}
	return ps
}

type prefixStore struct {
	inner  Store
	prefix string
}

func (p *prefixStore) Get(ctx context.Context, key string) (string, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixStore) Set(ctx context.Context, key, value string) error {
	return p.inner.Set(ctx, p.prefix+key, value)
}

func (p *prefixStore) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

func (p *prefixStore) Clear(ctx context.Context) error {
	// Clear del wrapper limpia solo el namespace prefijado.
	if c, ok := p.inner.(prefixClearer); ok {
		return c.ClearPrefix(ctx, p.prefix)
	}
	return p.inner.Clear(ctx)
}

// watchedPrefixStore agrega Subscribe cuando el store interno notifica.
type watchedPrefixStore struct {
	*prefixStore
}

// Subscribe filtra notificaciones al prefijo y las reexpone sin él.
func (p *watchedPrefixStore) Subscribe(fn ChangeFunc) func() {
	w := p.inner.(Watcher)
	return w.Subscribe(func(key string) {
		if len(key) >= len(p.prefix) && key[:len(p.prefix)] == p.prefix {
			fn(key[len(p.prefix):])
		}
	})
}

// prefixClearer permite a un adapter limpiar solo un namespace.
type prefixClearer interface {
	ClearPrefix(ctx context.Context, prefix string) error
}
