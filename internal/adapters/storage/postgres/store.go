package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pet-supply-store/internal/ports/storage"
)

// Store implementa storage.Store sobre la tabla session_store.
// No emite notificaciones de cambio: el badge del carrito recalcula
// on-demand cuando el backend es Postgres (best-effort, ver aggregator).
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_store WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_store WHERE key = $1
	`, key)
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_store`)
	return err
}

// ClearPrefix borra las claves de un namespace de sesión.
func (s *Store) ClearPrefix(ctx context.Context, prefix string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_store WHERE key LIKE $1 || '%'
	`, prefix)
	return err
}
