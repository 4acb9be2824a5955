package checkout

import (
	"context"
	"encoding/json"
	"errors"

	"pet-supply-store/internal/domain/cart"
	"pet-supply-store/internal/domain/catalog"
	"pet-supply-store/internal/platform/logger"
	"pet-supply-store/internal/ports/storage"

	"github.com/google/uuid"
)

var (
	ErrNoBuyNow = errors.New("buy-now slot is empty")
	ErrNoFlow   = errors.New("no checkout in progress")
)

// FlowKey es la clave del flujo dentro del namespace de sesión.
const FlowKey = "checkout_flow"

type Service struct {
	log logger.Logger
}

func NewService(log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{log: log}
}

// Start arma el flujo desde el slot buy-now de la especie y lo deja
// en order_summary. Reemplaza cualquier flujo anterior.
func (s *Service) Start(ctx context.Context, kv storage.Store, species catalog.Species) (Flow, error) {
	line, ok := cart.NewStore(kv, species, s.log).BuyNowLine(ctx)
	if !ok {
		return Flow{}, ErrNoBuyNow
	}

	f := NewFlow(species, line)
	if err := s.persist(ctx, kv, f); err != nil {
		return Flow{}, err
	}
	return f, nil
}

// Current lee el flujo vigente. Valor corrupto degrada a "no hay
// checkout", nunca a crash.
func (s *Service) Current(ctx context.Context, kv storage.Store) (Flow, error) {
	raw, err := kv.Get(ctx, FlowKey)
	if err != nil {
		return Flow{}, ErrNoFlow
	}

	var f Flow
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		s.log.Warn("corrupt checkout flow, discarding", map[string]any{"err": err.Error()})
		_ = kv.Delete(ctx, FlowKey)
		return Flow{}, ErrNoFlow
	}
	return f, nil
}

// SetQuantity actualiza la cantidad; el total se recalcula fresco.
func (s *Service) SetQuantity(ctx context.Context, kv storage.Store, q int) (Flow, error) {
	return s.mutate(ctx, kv, func(f *Flow) error { return f.SetQuantity(q) })
}

// Continue avanza al paso de pago.
func (s *Service) Continue(ctx context.Context, kv storage.Store) (Flow, error) {
	return s.mutate(ctx, kv, func(f *Flow) error { return f.Continue() })
}

// SelectPayment fija método + campos del método.
func (s *Service) SelectPayment(ctx context.Context, kv storage.Store, m PaymentMethod, d PaymentDetails) (Flow, error) {
	return s.mutate(ctx, kv, func(f *Flow) error { return f.SelectMethod(m, d) })
}

// Confirmation es el resultado terminal del flujo.
type Confirmation struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
	Totals  Totals `json:"totals"`
}

// Submit cierra el checkout: éxito terminal, limpia flujo y slot
// buy-now. La liquidación real del pago queda fuera de alcance.
func (s *Service) Submit(ctx context.Context, kv storage.Store) (Confirmation, error) {
	f, err := s.Current(ctx, kv)
	if err != nil {
		return Confirmation{}, err
	}
	if err := f.CanSubmit(); err != nil {
		return Confirmation{}, err
	}

	if err := kv.Delete(ctx, FlowKey); err != nil {
		return Confirmation{}, err
	}
	if err := cart.NewStore(kv, f.Species, s.log).ClearBuyNow(ctx); err != nil {
		// La orden ya está confirmada; el slot huérfano solo se reporta.
		s.log.Warn("failed to clear buy-now slot after submit", map[string]any{
			"species": f.Species,
			"err":     err.Error(),
		})
	}

	conf := Confirmation{
		OrderID: uuid.NewString(),
		Message: "Payment successful!",
		Totals:  f.Totals(),
	}
	s.log.Info("checkout submitted", map[string]any{
		"order_id": conf.OrderID,
		"species":  f.Species,
		"method":   f.Method,
		"total":    conf.Totals.Total,
	})
	return conf, nil
}

func (s *Service) mutate(ctx context.Context, kv storage.Store, apply func(*Flow) error) (Flow, error) {
	f, err := s.Current(ctx, kv)
	if err != nil {
		return Flow{}, err
	}
	if err := apply(&f); err != nil {
		return Flow{}, err
	}
	if err := s.persist(ctx, kv, f); err != nil {
		return Flow{}, err
	}
	return f, nil
}

func (s *Service) persist(ctx context.Context, kv storage.Store, f Flow) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return kv.Set(ctx, FlowKey, string(b))
}
