package models

// FilterCategory identifica uma classe de filtro reconhecida na query
type FilterCategory string

const (
	CategoryPrice        FilterCategory = "price"
	CategoryPropertyType FilterCategory = "property_type"
	CategoryTransaction  FilterCategory = "transaction_type"
	CategoryPriceGuard   FilterCategory = "price_guard"
	CategoryLocation     FilterCategory = "location"
	CategoryBedrooms     FilterCategory = "bedrooms"
)

// Label retorna o rótulo da categoria exibido nos chips da interface
func (c FilterCategory) Label() string {
	switch c {
	case CategoryPrice:
		return "Preço"
	case CategoryPropertyType:
		return "Tipo"
	case CategoryTransaction:
		return "Negócio"
	case CategoryLocation:
		return "Local"
	case CategoryBedrooms:
		return "Quartos"
	}
	return string(c)
}

// ActiveFilterPill representa um filtro ativo e a query sem ele
type ActiveFilterPill struct {
	Category     FilterCategory `json:"category"`
	DisplayValue string         `json:"display_value"`
	Label        string         `json:"label"`
	// RemoveQuery é a query sem o filtro. Vazio quando não há o que remover.
	RemoveQuery string `json:"remove_query"`
}

// Suggestion representa um filtro complementar proposto ao usuário
type Suggestion struct {
	Category   FilterCategory `json:"category"`
	Value      string         `json:"value"`
	Label      string         `json:"label"`
	MatchCount int            `json:"match_count"`
	AddQuery   string         `json:"add_query"`
}
