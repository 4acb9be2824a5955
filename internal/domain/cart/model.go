package cart

import "pet-supply-store/internal/domain/catalog"

// Line es un producto dentro del carrito con su cantidad.
// La cantidad nunca baja de 1 por add/increment; remover una línea
// es una operación explícita que la borra entera.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Claves de persistencia por especie. Son las claves literales del
// storage del cliente web; el aislamiento por sesión lo aporta
// el wrapper storage.Prefixed, no estas constantes.
func keyPrefix(s catalog.Species) string { return string(s) + "_products" }

// CartKey: JSON array de líneas.
func CartKey(s catalog.Species) string { return keyPrefix(s) + "_cart" }

// CountKey: entero stringificado, consumido por el badge de navegación
// sin deserializar el carrito completo.
func CountKey(s catalog.Species) string { return keyPrefix(s) + "_cart_count" }

// BuyNowKey: slot de compra inmediata, una sola línea. Independiente
// del carrito regular; nunca se reconcilian.
func BuyNowKey(s catalog.Species) string { return keyPrefix(s) + "_bynow" }
