package catalog

import "sort"

// SortOption define los órdenes soportados por la vista.
// @Enum featured, price-low, price-high, rating
type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortPriceLow  SortOption = "price-low"
	SortPriceHigh SortOption = "price-high"
	SortRating    SortOption = "rating"
)

func ParseSortOption(s string) (SortOption, bool) {
	switch SortOption(s) {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating:
		return SortOption(s), true
	case "":
		return SortFeatured, true
	}
	return "", false
}

// View es el estado de navegación del catálogo: categoría activa y
// orden. La lista derivada se recalcula en cada Apply, nunca se cachea.
type View struct {
	SelectedCategory string
	Sort             SortOption
}

func NewView() View {
	return View{SelectedCategory: "all", Sort: SortFeatured}
}

// Apply deriva la lista visible: filtro por categoría exacta
// (case-sensitive, salvo "all") y después el orden elegido.
// "featured" preserva el orden fuente. Nunca muta el slice de entrada.
func (v View) Apply(products []Product) []Product {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if v.SelectedCategory != "all" && p.Category != v.SelectedCategory {
			continue
		}
		filtered = append(filtered, p)
	}

	switch v.Sort {
	case SortPriceLow:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Price < filtered[j].Price
		})
	case SortPriceHigh:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Price > filtered[j].Price
		})
	case SortRating:
		sort.Slice(filtered, func(i, j int) bool {
			return filtered[i].Rating > filtered[j].Rating
		})
	default:
		// featured: orden fuente tal cual
	}

	return filtered
}
