package models

// SortMode define a ordenação dos resultados
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortRecent    SortMode = "recent"
)

// IsValid verifica se a ordenação é conhecida
func (m SortMode) IsValid() bool {
	switch m {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortRecent:
		return true
	}
	return false
}

// OrDefault retorna a própria ordenação ou SortRecent quando desconhecida
func (m SortMode) OrDefault() SortMode {
	if m.IsValid() {
		return m
	}
	return SortRecent
}
