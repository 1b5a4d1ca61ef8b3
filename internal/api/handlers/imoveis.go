package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search"
	"github.com/reativa/portal-busca/internal/search/query"
	"go.uber.org/zap"
)

// SearchService é o que os handlers de busca usam do motor
type SearchService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error)
	Interpret(text string) *query.ParsedQuery
	Pills(text string) []models.ActiveFilterPill
	Suggestions(ctx context.Context, text string) []models.Suggestion
	ResolveSlug(ctx context.Context, slug string) (*search.SlugResolution, error)
}

// ImoveisHandler atende a página de busca de imóveis
type ImoveisHandler struct {
	engine SearchService
	logger *zap.Logger
}

// NewImoveisHandler cria o handler de busca
func NewImoveisHandler(engine SearchService, logger *zap.Logger) *ImoveisHandler {
	return &ImoveisHandler{
		engine: engine,
		logger: logger,
	}
}

// PillsResponse lista os filtros ativos da query
type PillsResponse struct {
	Query   string                    `json:"query"`
	Filters []models.ActiveFilterPill `json:"filters"`
}

// SuggestionsResponse lista as sugestões de refinamento
type SuggestionsResponse struct {
	Query       string              `json:"query"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

// Buscar godoc
// @Summary Busca de imóveis em linguagem natural
// @Description Interpreta o texto livre, aplica os filtros e devolve a página de resultados com filtros ativos e sugestões
// @Tags imoveis
// @Produce json
// @Param q query string false "Texto da busca" maxlength(200)
// @Param page query int false "Página" default(1)
// @Param sort query string false "Ordenação" Enums(relevance, price_asc, price_desc, recent)
// @Param no_suggestions query bool false "Desabilita sugestões"
// @Success 200 {object} models.SearchResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/imoveis/busca [get]
func (h *ImoveisHandler) Buscar(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return
	}

	response, err := h.engine.Search(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrQueryTooLong) || errors.Is(err, models.ErrInvalidPage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("falha na busca", zap.String("query", req.Query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno na busca"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Pills godoc
// @Summary Filtros ativos da busca
// @Description Lista os filtros reconhecidos no texto, prontos para exibição
// @Tags imoveis
// @Produce json
// @Param q query string true "Texto da busca" maxlength(200)
// @Success 200 {object} PillsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/imoveis/pills [get]
func (h *ImoveisHandler) Pills(c *gin.Context) {
	text, ok := h.bindText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, PillsResponse{
		Query:   text,
		Filters: h.engine.Pills(text),
	})
}

// Sugestoes godoc
// @Summary Sugestões de refinamento
// @Description Propõe até 5 filtros complementares com a contagem de imóveis de cada um
// @Tags imoveis
// @Produce json
// @Param q query string true "Texto da busca" maxlength(200)
// @Success 200 {object} SuggestionsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/imoveis/sugestoes [get]
func (h *ImoveisHandler) Sugestoes(c *gin.Context) {
	text, ok := h.bindText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, SuggestionsResponse{
		Query:       text,
		Suggestions: h.engine.Suggestions(c.Request.Context(), text),
	})
}

// Interpretar godoc
// @Summary Interpretação da busca
// @Description Mostra o texto expandido, os predicados e os metadados extraídos (depuração)
// @Tags imoveis
// @Produce json
// @Param q query string true "Texto da busca" maxlength(200)
// @Success 200 {object} query.ParsedQuery
// @Failure 400 {object} map[string]string
// @Router /api/v1/imoveis/interpretar [get]
func (h *ImoveisHandler) Interpretar(c *gin.Context) {
	text, ok := h.bindText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.engine.Interpret(text))
}

// bindText valida o parâmetro q; em caso de erro a resposta já foi escrita
func (h *ImoveisHandler) bindText(c *gin.Context) (string, bool) {
	var req models.TextRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return "", false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return req.Query, true
}
