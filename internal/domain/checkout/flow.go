package checkout

import (
	"errors"
	"strings"

	"pet-supply-store/internal/domain/cart"
	"pet-supply-store/internal/domain/catalog"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBadTransition = errors.New("invalid checkout transition")
)

// Step del flujo lineal de dos pasos. No hay transición hacia atrás.
// @Enum order_summary, payment
type Step string

const (
	StepOrderSummary Step = "order_summary"
	StepPayment      Step = "payment"
)

// PaymentMethod es una elección mutuamente excluyente.
// @Enum upi, card, netbanking, cod
type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "upi"
	MethodCard       PaymentMethod = "card"
	MethodNetBanking PaymentMethod = "netbanking"
	MethodCOD        PaymentMethod = "cod"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodUPI, MethodCard, MethodNetBanking, MethodCOD:
		return PaymentMethod(s), true
	}
	return "", false
}

// PaymentDetails son los campos por método. Solo se exige presencia
// de los campos del método elegido; no hay más validación.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	Bank       string `json:"bank,omitempty"`
	UPIID      string `json:"upiId,omitempty"`
}

// Validate chequea presencia de los campos requeridos por el método.
func (d PaymentDetails) Validate(m PaymentMethod) error {
	missing := func(field string) error {
		return errors.New(string(m) + ": " + field + " is required")
	}

	switch m {
	case MethodCard:
		if strings.TrimSpace(d.CardNumber) == "" {
			return missing("cardNumber")
		}
		if strings.TrimSpace(d.ExpiryDate) == "" {
			return missing("expiryDate")
		}
		if strings.TrimSpace(d.CVV) == "" {
			return missing("cvv")
		}
	case MethodNetBanking:
		if strings.TrimSpace(d.Bank) == "" {
			return missing("bank")
		}
	case MethodUPI:
		if strings.TrimSpace(d.UPIID) == "" {
			return missing("upiId")
		}
	case MethodCOD:
		// sin campos
	default:
		return ErrInvalidInput
	}
	return nil
}

// Flow es el estado persistido del checkout de la sesión. Se arma
// desde el slot buy-now de una especie; el carrito regular no
// participa (son dos slots independientes, nunca reconciliados).
type Flow struct {
	Species catalog.Species `json:"species"`
	Line    cart.Line       `json:"line"`
	Step    Step            `json:"step"`
	Method  PaymentMethod   `json:"method,omitempty"`
}

func NewFlow(species catalog.Species, line cart.Line) Flow {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	return Flow{Species: species, Line: line, Step: StepOrderSummary}
}

// Totals del flujo con la cantidad vigente.
func (f Flow) Totals() Totals {
	return ComputeTotals(f.Line.Price, f.Line.Quantity, f.Line.Discount)
}

// SetQuantity: la cantidad tiene piso 1 (el "-" del cliente no baja
// de ahí). Solo editable en el resumen de orden.
func (f *Flow) SetQuantity(q int) error {
	if f.Step != StepOrderSummary {
		return ErrBadTransition
	}
	if q < 1 {
		return errors.New("quantity must be at least 1")
	}
	f.Line.Quantity = q
	return nil
}

// Continue avanza order_summary → payment. Única transición válida.
func (f *Flow) Continue() error {
	if f.Step != StepOrderSummary {
		return ErrBadTransition
	}
	f.Step = StepPayment
	return nil
}

// SelectMethod fija el método de pago (paso payment).
func (f *Flow) SelectMethod(m PaymentMethod, d PaymentDetails) error {
	if f.Step != StepPayment {
		return ErrBadTransition
	}
	if err := d.Validate(m); err != nil {
		return err
	}
	f.Method = m
	return nil
}

// CanSubmit: terminal success solo desde payment con método elegido.
func (f Flow) CanSubmit() error {
	if f.Step != StepPayment {
		return ErrBadTransition
	}
	if f.Method == "" {
		return errors.New("payment method not selected")
	}
	return nil
}
