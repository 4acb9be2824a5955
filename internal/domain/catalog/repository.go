package catalog

import "context"

// Repository entrega el documento JSON crudo por especie.
// El parseo/aplanado es responsabilidad del dominio, no del adapter.
type Repository interface {
	LoadRaw(ctx context.Context, species Species) ([]byte, error)
}
