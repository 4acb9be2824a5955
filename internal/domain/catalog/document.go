package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedShape: el documento no tiene ninguna de las dos
	// formas soportadas. El caller muestra el error y lista vacía.
	ErrUnrecognizedShape = errors.New("catalog document has no recognized shape")
)

// Shape es el tag de la unión flat | nested, decidido una sola vez
// al parsear (no se re-infiere en cada call site).
type Shape int

const (
	ShapeFlat Shape = iota
	ShapeNested
)

func (s Shape) String() string {
	if s == ShapeNested {
		return "nested"
	}
	return "flat"
}

// Document es el resultado del load: la lista ya aplanada más el
// tag de la forma original del JSON.
type Document struct {
	Species  Species
	Shape    Shape
	Products []Product
}

// DocumentKey es la clave raíz del JSON por especie ("dog_products").
func DocumentKey(s Species) string {
	return string(s) + "_products"
}

// ParseDocument acepta las dos formas del catálogo:
//
//	{"<species>_products": [Product...]}                      (flat)
//	{"<species>_products": {"<category>": [Product...], ...}} (nested)
//
// En la forma nested cada producto recibe category = su clave
// contenedora, aplanando en el orden declarado por el documento.
// Sub-arrays null/ausentes cuentan como vacíos, no como error.
func ParseDocument(species Species, raw []byte) (Document, error) {
	doc := Document{Species: species, Products: []Product{}}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
	}

	inner, ok := root[DocumentKey(species)]
	if !ok {
		return doc, ErrUnrecognizedShape
	}

	switch firstByte(inner) {
	case '[':
		var products []Product
		if err := json.Unmarshal(inner, &products); err != nil {
			return doc, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
		}
		doc.Shape = ShapeFlat
		if products != nil {
			doc.Products = products
		}
		return doc, nil

	case '{':
		doc.Shape = ShapeNested
		products, err := flattenNested(inner)
		if err != nil {
			return doc, fmt.Errorf("%w: %v", ErrUnrecognizedShape, err)
		}
		doc.Products = products
		return doc, nil

	default:
		return doc, ErrUnrecognizedShape
	}
}

// flattenNested recorre el objeto con el token stream de json.Decoder
// para respetar el orden de claves declarado en el documento
// (un map de Go lo perdería).
func flattenNested(raw json.RawMessage) ([]Product, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected object")
	}

	out := []Product{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		category, ok := keyTok.(string)
		if !ok {
			return nil, errors.New("expected object key")
		}

		// null o [] => categoría vacía, seguimos.
		var items []Product
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}
		for _, p := range items {
			p.Category = category
			out = append(out, p)
		}
	}

	// Consumir el '}' de cierre.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
