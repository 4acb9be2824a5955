package catalog

// Species define las especies con catálogo propio.
// @Enum dog, cat, bird, fish, reptile, small_animal
type Species string

const (
	SpeciesDog         Species = "dog"
	SpeciesCat         Species = "cat"
	SpeciesBird        Species = "bird"
	SpeciesFish        Species = "fish"
	SpeciesReptile     Species = "reptile"
	SpeciesSmallAnimal Species = "small_animal"
)

// AllSpecies en orden estable (menús, agregación del badge).
func AllSpecies() []Species {
	return []Species{
		SpeciesDog,
		SpeciesCat,
		SpeciesBird,
		SpeciesFish,
		SpeciesReptile,
		SpeciesSmallAnimal,
	}
}

func ParseSpecies(s string) (Species, bool) {
	switch Species(s) {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesFish, SpeciesReptile, SpeciesSmallAnimal:
		return Species(s), true
	}
	return "", false
}

// DisplayName para títulos ("Dog Products", "Small Animal Habitat").
func (s Species) DisplayName() string {
	switch s {
	case SpeciesDog:
		return "Dog"
	case SpeciesCat:
		return "Cat"
	case SpeciesBird:
		return "Bird"
	case SpeciesFish:
		return "Fish"
	case SpeciesReptile:
		return "Reptile"
	case SpeciesSmallAnimal:
		return "Small Animal"
	default:
		return string(s)
	}
}

// Product es un artículo del catálogo. Inmutable después del load:
// la sesión de browsing solo lo lee.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"` // 0–5 en pasos de 0.5
	InStock     bool    `json:"inStock"`

	ReviewCount    int               `json:"reviewCount,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`

	// Discount por producto en moneda (lo usa el checkout; 0 si no hay).
	Discount float64 `json:"discount,omitempty"`
}

// Category es un par label/value para los botones de filtro.
// No se persiste; es puro dato de presentación.
type Category struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Categories devuelve el set de categorías de la especie,
// siempre con "All" primero (igual que las páginas del storefront).
func Categories(s Species) []Category {
	all := Category{Name: "All", Value: "all"}

	switch s {
	case SpeciesDog:
		return []Category{all,
			{Name: "Food", Value: "food"},
			{Name: "Collars", Value: "collars"},
			{Name: "Toys", Value: "toys"},
			{Name: "Beds", Value: "beds"},
		}
	case SpeciesCat:
		return []Category{all,
			{Name: "Poles", Value: "poles"},
			{Name: "Tools", Value: "tools"},
			{Name: "Toys", Value: "toys"},
			{Name: "Food", Value: "food"},
			{Name: "Litter & Accessories", Value: "litter"},
			{Name: "Beds", Value: "beds"},
		}
	case SpeciesBird:
		return []Category{all,
			{Name: "Food", Value: "food"},
			{Name: "House", Value: "house"},
			{Name: "Toys", Value: "toys"},
		}
	case SpeciesFish:
		return []Category{all,
			{Name: "Aquariums", Value: "aquariums"},
			{Name: "Cleaning", Value: "cleaning"},
			{Name: "Decoration", Value: "decoration"},
			{Name: "Food", Value: "food"},
			{Name: "Filters", Value: "filters"},
		}
	case SpeciesReptile:
		return []Category{all,
			{Name: "Habitats", Value: "habitats"},
			{Name: "Heating", Value: "heating"},
			{Name: "Accessories", Value: "accessories"},
		}
	case SpeciesSmallAnimal:
		return []Category{all,
			{Name: "Food", Value: "food"},
			{Name: "Habitat", Value: "habitat"},
			{Name: "Accessories", Value: "accessories"},
		}
	default:
		return []Category{all}
	}
}

// Title calcula el encabezado de la vista según la categoría activa
// ("Reptile Habitats", "Cat Products" cuando es "all" o desconocida).
func Title(s Species, categoryValue string) string {
	if categoryValue != "all" {
		for _, c := range Categories(s) {
			if c.Value == categoryValue {
				return s.DisplayName() + " " + c.Name
			}
		}
	}
	return s.DisplayName() + " Products"
}
