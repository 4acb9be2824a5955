package catalogfiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/platform/httpclient"
)

var (
	ErrNoSource = errors.New("catalogfiles: no catalog source configured")
)

// Repo implementa catalog.Repository leyendo un JSON por especie
// desde disco ("<dir>/dog.json"). Si el archivo no existe y hay una
// URL de fallback, intenta traer el documento remoto (el cliente web
// hace lo mismo: bundle local, fetch de /db.json después).
type Repo struct {
	dir      string
	fallback *httpclient.Client
}

type Options struct {
	Dir         string
	FallbackURL string // base del backend que sirve /db.json (opcional)
}

func New(opts Options) (*Repo, error) {
	r := &Repo{dir: strings.TrimSpace(opts.Dir)}

	if u := strings.TrimSpace(opts.FallbackURL); u != "" {
		c, err := httpclient.NewWithBaseURL(u, httpclient.DefaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("catalogfiles: %w", err)
		}
		r.fallback = c
	}

	if r.dir == "" && r.fallback == nil {
		return nil, ErrNoSource
	}
	return r, nil
}

func (r *Repo) LoadRaw(ctx context.Context, species catalog.Species) ([]byte, error) {
	if r.dir != "" {
		raw, err := os.ReadFile(filepath.Join(r.dir, string(species)+".json"))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) || r.fallback == nil {
			return nil, fmt.Errorf("catalogfiles: read %s: %w", species, err)
		}
		// archivo ausente: probamos el remoto
	}

	return r.fetchRemote(ctx, species)
}

// fetchRemote trae /db.json completo y recorta la clave de la especie,
// igual que el fetch de respaldo del cliente web.
func (r *Repo) fetchRemote(ctx context.Context, species catalog.Species) ([]byte, error) {
	if r.fallback == nil {
		return nil, ErrNoSource
	}

	var full map[string]json.RawMessage
	if err := r.fallback.GetJSON(ctx, "/db.json", &full); err != nil {
		return nil, fmt.Errorf("catalogfiles: fetch db.json: %w", err)
	}

	key := catalog.DocumentKey(species)
	inner, ok := full[key]
	if !ok {
		// Documento sin la especie: catálogo vacío, no error.
		inner = json.RawMessage("[]")
	}

	doc := map[string]json.RawMessage{key: inner}
	return json.Marshal(doc)
}
