package checkout

import (
	"math"
	"testing"

	"pet-supply-store/internal/domain/cart"
	"pet-supply-store/internal/domain/catalog"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testLine(price, discount float64, qty int) cart.Line {
	return cart.Line{
		Product:  catalog.Product{ID: 1, Name: "Terrarium", Price: price, Discount: discount},
		Quantity: qty,
	}
}

func TestComputeTotals_Fixture(t *testing.T) {
	// price=54.99, qty=2, discount=0, platformFee=5, delivery=0 => 114.98
	got := ComputeTotals(54.99, 2, 0)

	if !almostEqual(got.Subtotal, 109.98) {
		t.Fatalf("expected subtotal 109.98, got %v", got.Subtotal)
	}
	if !almostEqual(got.DeliveryCharge, 0) {
		t.Fatalf("expected free delivery above threshold, got %v", got.DeliveryCharge)
	}
	if !almostEqual(got.Total, 114.98) {
		t.Fatalf("expected total 114.98, got %v", got.Total)
	}
}

func TestComputeTotals_FlatDeliveryBelowThreshold(t *testing.T) {
	got := ComputeTotals(54.99, 1, 0)

	if !almostEqual(got.DeliveryCharge, DeliveryFlatFee) {
		t.Fatalf("expected flat delivery fee, got %v", got.DeliveryCharge)
	}
	if !almostEqual(got.Total, 54.99+PlatformFee+DeliveryFlatFee) {
		t.Fatalf("unexpected total %v", got.Total)
	}
}

func TestComputeTotals_MonotonicInQuantity(t *testing.T) {
	prev := 0.0
	for qty := 1; qty <= 10; qty++ {
		total := ComputeTotals(54.99, qty, 0).Total
		if total < prev {
			t.Fatalf("total decreased at qty=%d: %v < %v", qty, total, prev)
		}
		prev = total
	}
}

func TestFlow_Transitions(t *testing.T) {
	f := NewFlow(catalog.SpeciesReptile, testLine(120, 0, 1))

	if f.Step != StepOrderSummary {
		t.Fatalf("expected initial step order_summary, got %s", f.Step)
	}

	// Pagar sin continuar: inválido.
	if err := f.SelectMethod(MethodCOD, PaymentDetails{}); err != ErrBadTransition {
		t.Fatalf("expected ErrBadTransition before continue, got %v", err)
	}

	if err := f.Continue(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if f.Step != StepPayment {
		t.Fatalf("expected step payment, got %s", f.Step)
	}

	// No hay vuelta atrás ni doble continue.
	if err := f.Continue(); err != ErrBadTransition {
		t.Fatalf("expected ErrBadTransition on second continue, got %v", err)
	}

	// La cantidad solo se edita en el resumen.
	if err := f.SetQuantity(3); err != ErrBadTransition {
		t.Fatalf("expected ErrBadTransition setting quantity in payment, got %v", err)
	}
}

func TestFlow_QuantityFloor(t *testing.T) {
	f := NewFlow(catalog.SpeciesDog, testLine(10, 0, 1))

	if err := f.SetQuantity(0); err == nil {
		t.Fatal("expected error for quantity below 1")
	}
	if err := f.SetQuantity(4); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if f.Line.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", f.Line.Quantity)
	}
}

func TestPaymentDetails_RequiredFields(t *testing.T) {
	cases := []struct {
		method PaymentMethod
		ok     PaymentDetails
		bad    PaymentDetails
	}{
		{MethodCard, PaymentDetails{CardNumber: "4111", ExpiryDate: "12/27", CVV: "123"}, PaymentDetails{CardNumber: "4111"}},
		{MethodNetBanking, PaymentDetails{Bank: "hdfc"}, PaymentDetails{}},
		{MethodUPI, PaymentDetails{UPIID: "user@upi"}, PaymentDetails{}},
	}

	for _, tc := range cases {
		if err := tc.ok.Validate(tc.method); err != nil {
			t.Fatalf("%s: valid details rejected: %v", tc.method, err)
		}
		if err := tc.bad.Validate(tc.method); err == nil {
			t.Fatalf("%s: missing fields accepted", tc.method)
		}
	}

	// COD no exige campos.
	if err := (PaymentDetails{}).Validate(MethodCOD); err != nil {
		t.Fatalf("cod must not require fields: %v", err)
	}
}

func TestFlow_SubmitRequiresMethod(t *testing.T) {
	f := NewFlow(catalog.SpeciesCat, testLine(55, 0, 2))
	_ = f.Continue()

	if err := f.CanSubmit(); err == nil {
		t.Fatal("expected error submitting without method")
	}

	if err := f.SelectMethod(MethodUPI, PaymentDetails{UPIID: "cat@upi"}); err != nil {
		t.Fatalf("select method: %v", err)
	}
	if err := f.CanSubmit(); err != nil {
		t.Fatalf("expected submit allowed, got %v", err)
	}
}
