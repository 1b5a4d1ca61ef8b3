package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search"
	"github.com/reativa/portal-busca/internal/utils"
	"go.uber.org/zap"
)

// Imovel godoc
// @Summary Detalhe do imóvel
// @Description Busca o imóvel pelo id no fim do slug. Slugs desatualizados recebem 301 para o slug canônico
// @Tags imoveis
// @Produce json
// @Param slug path string true "Slug do imóvel" example(apartamento-curitiba-centro-2-quartos-42)
// @Success 200 {object} models.PropertyView
// @Success 301 "Redireciona para o slug canônico"
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /imovel/{slug} [get]
func (h *ImoveisHandler) Imovel(c *gin.Context) {
	slug := c.Param("slug")

	resolution, err := h.engine.ResolveSlug(c.Request.Context(), slug)
	switch {
	case errors.Is(err, models.ErrInvalidSlug), errors.Is(err, search.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Imóvel não encontrado"})
		return
	case err != nil:
		h.logger.Error("falha ao resolver slug", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catálogo temporariamente indisponível"})
		return
	}

	if resolution.Redirect {
		c.Redirect(http.StatusMovedPermanently, utils.PropertyURL("", resolution.Canonical))
		return
	}
	c.JSON(http.StatusOK, resolution.Property)
}
