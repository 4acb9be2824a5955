package checkout

import "math"

// Cargos fijos del storefront. El envío es gratis a partir del
// umbral de subtotal; debajo se cobra tarifa plana.
const (
	PlatformFee           = 5.0
	DeliveryFlatFee       = 40.0
	FreeDeliveryThreshold = 100.0
)

// Totals es el desglose mostrado en el resumen de orden.
// total = price*qty - discount + platformFee + deliveryCharge
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	PlatformFee    float64 `json:"platformFee"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	Total          float64 `json:"total"`
}

// ComputeTotals se evalúa fresco en cada cambio de cantidad;
// nunca se cachea un total stale.
func ComputeTotals(price float64, quantity int, discount float64) Totals {
	subtotal := round2(price * float64(quantity))

	delivery := DeliveryFlatFee
	if subtotal >= FreeDeliveryThreshold {
		delivery = 0
	}

	return Totals{
		Subtotal:       subtotal,
		Discount:       discount,
		PlatformFee:    PlatformFee,
		DeliveryCharge: delivery,
		Total:          round2(subtotal - discount + PlatformFee + delivery),
	}
}

// round2 corta el ruido de float a centavos.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
