package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrLineNotFound = errors.New("cart line not found")
)

// Store es el carrito de una especie sobre un storage ya namespaceado
// por sesión. Cada operación es read-modify-write con write-through:
// el estado persistido y el devuelto al caller siempre coinciden.
type Store struct {
	kv      storage.Store
	species catalog.Species
	log     logger.Logger
}

func NewStore(kv storage.Store, species catalog.Species, log logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{kv: kv, species: species, log: log}
}

func (s *Store) Species() catalog.Species { return s.species }

// Lines devuelve el contenido actual. Valor corrupto o ausente
// degrada a carrito vacío, nunca a error.
func (s *Store) Lines(ctx context.Context) []Line {
	raw, err := s.kv.Get(ctx, CartKey(s.species))
	if err != nil {
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.Warn("corrupt cart payload, degrading to empty", map[string]any{
			"species": s.species,
			"err":     err.Error(),
		})
		return []Line{}
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines
}

// AddOrIncrement agrega el producto con cantidad 1 o incrementa la
// línea existente. Idempotencia de línea: dos adds del mismo id dan
// una línea con quantity 2, no dos líneas.
func (s *Store) AddOrIncrement(ctx context.Context, p catalog.Product) ([]Line, error) {
	if p.ID <= 0 {
		return nil, fmt.Errorf("%w: product id required", ErrInvalidInput)
	}

	lines := s.Lines(ctx)

	found := false
	for i := range lines {
		if lines[i].ID == p.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{Product: p, Quantity: 1})
	}

	if err := s.persist(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove borra la línea completa (no decrementa).
func (s *Store) Remove(ctx context.Context, productID int) ([]Line, error) {
	lines := s.Lines(ctx)

	kept := make([]Line, 0, len(lines))
	removed := false
	for _, l := range lines {
		if l.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return nil, ErrLineNotFound
	}

	if err := s.persist(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Clear vacía carrito y contador (acción explícita del usuario).
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, CartKey(s.species)); err != nil {
		return err
	}
	return s.kv.Delete(ctx, CountKey(s.species))
}

// TotalCount es la suma de cantidades de todas las líneas.
// Invariante: igual al valor persistido bajo CountKey tras cada
// add/increment/remove.
func (s *Store) TotalCount(ctx context.Context) int {
	return totalOf(s.Lines(ctx))
}

// BuyNow reemplaza el slot de compra inmediata con exactamente una
// línea quantity 1. No toca el carrito regular.
func (s *Store) BuyNow(ctx context.Context, p catalog.Product) (Line, error) {
	if p.ID <= 0 {
		return Line{}, fmt.Errorf("%w: product id required", ErrInvalidInput)
	}

	line := Line{Product: p, Quantity: 1}
	b, err := json.Marshal([]Line{line})
	if err != nil {
		return Line{}, err
	}
	if err := s.kv.Set(ctx, BuyNowKey(s.species), string(b)); err != nil {
		return Line{}, err
	}
	return line, nil
}

// BuyNowLine lee el slot; ok=false si está vacío o corrupto.
func (s *Store) BuyNowLine(ctx context.Context) (Line, bool) {
	raw, err := s.kv.Get(ctx, BuyNowKey(s.species))
	if err != nil {
		return Line{}, false
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil || len(lines) == 0 {
		return Line{}, false
	}
	return lines[0], true
}

// ClearBuyNow vacía el slot (después de un submit de checkout).
func (s *Store) ClearBuyNow(ctx context.Context) error {
	return s.kv.Delete(ctx, BuyNowKey(s.species))
}

func (s *Store) persist(ctx context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	// Primero el carrito, después el contador: si el segundo write
	// falla, queda un contador stale sobre un carrito ya persistido
	// (degrada bien); un contador sin carrito no.
	if err := s.kv.Set(ctx, CartKey(s.species), string(b)); err != nil {
		return err
	}
	return s.kv.Set(ctx, CountKey(s.species), strconv.Itoa(totalOf(lines)))
}

func totalOf(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}
