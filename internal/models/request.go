package models

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxQueryLength limita o tamanho da query em caracteres
	MaxQueryLength = 200
	// DefaultPerPage é o tamanho padrão da página de resultados
	DefaultPerPage = 12
)

// SearchRequest representa uma requisição de busca de imóveis
// @Description Parâmetros da busca em linguagem natural.
type SearchRequest struct {
	// Texto livre digitado pelo usuário
	Query string `form:"q" binding:"omitempty,max=200,searchtext" example:"apto 2 quartos até 250k no centro"`
	// Página de resultados (começa em 1)
	Page int `form:"page" binding:"omitempty,min=1" example:"1" minimum:"1"`
	// Ordenação: relevance, price_asc, price_desc, recent
	Sort SortMode `form:"sort" example:"relevance" enums:"relevance,price_asc,price_desc,recent"`
	// Desabilita o cálculo de sugestões
	NoSuggestions bool `form:"no_suggestions" example:"false"`
}

// Validate valida e aplica defaults à requisição
func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if utf8.RuneCountInString(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}

	if r.Page == 0 {
		r.Page = 1
	}
	if r.Page < 1 {
		return ErrInvalidPage
	}

	if r.Sort == "" {
		r.Sort = SortRelevance
	}
	return nil
}

// TextRequest é a query dos endpoints auxiliares (filtros, sugestões e interpretação)
type TextRequest struct {
	Query string `form:"q" binding:"omitempty,max=200,searchtext" example:"casa 3 quartos batel"`
}

// Validate exige uma query não vazia
func (r *TextRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return ErrQueryRequired
	}
	if utf8.RuneCountInString(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}
