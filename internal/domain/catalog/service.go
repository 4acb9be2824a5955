package catalog

import (
	"context"
	"errors"

	"pet-supply-store/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("product not found")
	ErrLoadFailed   = errors.New("catalog load failed")
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, log: log}
}

// Products carga y aplana el catálogo de la especie. Una falla de
// load o de forma degrada a lista vacía + error (el handler muestra
// el retry; nada es fatal).
func (s *Service) Products(ctx context.Context, species Species) ([]Product, error) {
	raw, err := s.repo.LoadRaw(ctx, species)
	if err != nil {
		s.log.Warn("catalog load failed", map[string]any{
			"species": species,
			"err":     err.Error(),
		})
		return []Product{}, ErrLoadFailed
	}

	doc, err := ParseDocument(species, raw)
	if err != nil {
		s.log.Warn("catalog document unrecognized", map[string]any{
			"species": species,
			"err":     err.Error(),
		})
		return []Product{}, ErrLoadFailed
	}

	s.log.Debug("catalog loaded", map[string]any{
		"species": species,
		"shape":   doc.Shape.String(),
		"count":   len(doc.Products),
	})
	return doc.Products, nil
}

// Browse aplica filtro+orden sobre el catálogo recién cargado.
// Se deriva fresco en cada request: nunca hay vista cacheada stale.
func (s *Service) Browse(ctx context.Context, species Species, view View) ([]Product, error) {
	products, err := s.Products(ctx, species)
	if err != nil {
		return []Product{}, err
	}
	return view.Apply(products), nil
}

// ProductByID busca un producto puntual (detalle del dialog).
func (s *Service) ProductByID(ctx context.Context, species Species, id int) (Product, error) {
	products, err := s.Products(ctx, species)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}
