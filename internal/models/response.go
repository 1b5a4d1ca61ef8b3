package models

// SearchResponse representa a página de resultados da busca
type SearchResponse struct {
	Results       []PropertyView     `json:"results"`
	Pagination    Pagination         `json:"pagination"`
	Query         QueryMeta          `json:"query"`
	ActiveFilters []ActiveFilterPill `json:"active_filters"`
	Suggestions   []Suggestion       `json:"suggestions"`
	Timing        TimingMeta         `json:"timing"`
}

// PropertyView é o imóvel pronto para exibição
type PropertyView struct {
	Property
	Slug           string `json:"slug"`
	URL            string `json:"url"`
	FormattedPrice string `json:"formatted_price,omitempty"`
	Excerpt        string `json:"excerpt,omitempty"`
}

// Pagination contém informações de paginação
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// QueryMeta contém metadados sobre a query interpretada
type QueryMeta struct {
	Original       string `json:"original"`
	Expanded       string `json:"expanded,omitempty"`
	Sort           string `json:"sort"`
	PriceFound     bool   `json:"price_found"`
	PriceDirection string `json:"price_direction"`
	Degraded       bool   `json:"degraded,omitempty"`
}

// TimingMeta contém métricas de tempo
type TimingMeta struct {
	TotalMs      float64 `json:"total_ms"`
	ParsingMs    float64 `json:"parsing_ms"`
	SearchMs     float64 `json:"search_ms"`
	SuggestionMs float64 `json:"suggestion_ms,omitempty"`
}

// NewPagination cria uma estrutura de paginação
func NewPagination(page, perPage, total int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = total / perPage
		if total%perPage > 0 {
			totalPages++
		}
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
