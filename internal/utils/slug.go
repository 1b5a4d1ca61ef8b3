package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reativa/portal-busca/internal/models"
)

const (
	MaxSlugBaseLength = 80
	FallbackSlugBase  = "imovel"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// SlugID é o resultado da leitura do identificador no fim de um slug
type SlugID struct {
	ID      int64
	Matched bool
}

// PropertySlug cria o slug canônico do imóvel.
// Formato: {tipo}-{cidade}-{bairro}-{titulo}-{id}, omitindo partes vazias.
// Exemplo: Apartamento em Curitiba, Centro, id 42 -> "apartamento-curitiba-centro-2-quartos-42"
// Sem nenhuma parte descritiva o resultado é "imovel-{id}".
func PropertySlug(p *models.Property) string {
	title := p.Title
	if strings.TrimSpace(title) == "" {
		title = derivedTitle(p)
	}

	parts := make([]string, 0, 4)
	for _, part := range []string{string(p.Type), p.City, p.Neighborhood, title} {
		if s := normalizeToSlug(part); s != "" {
			parts = append(parts, s)
		}
	}

	id := strconv.FormatInt(p.ID, 10)
	if len(parts) == 0 {
		return FallbackSlugBase + "-" + id
	}
	return truncateSlug(strings.Join(parts, "-")) + "-" + id
}

// derivedTitle descreve o imóvel quando não há título
func derivedTitle(p *models.Property) string {
	switch {
	case p.Bedrooms == 1:
		return "1 quarto"
	case p.Bedrooms > 1:
		return strconv.Itoa(p.Bedrooms) + " quartos"
	case p.Area > 0:
		return strconv.FormatFloat(p.Area, 'f', -1, 64) + "m2"
	}
	return ""
}

// ParseSlugID lê o identificador numérico no fim do slug.
// O texto antes dele é apenas descritivo.
func ParseSlugID(slug string) SlugID {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	last := slug
	if i := strings.LastIndex(slug, "-"); i >= 0 {
		last = slug[i+1:]
	}
	id, err := strconv.ParseInt(last, 10, 64)
	if err != nil || id <= 0 {
		return SlugID{}
	}
	return SlugID{ID: id, Matched: true}
}

// normalizeToSlug converte texto para formato slug kebab-case
func normalizeToSlug(text string) string {
	normalized := strings.ToLower(RemoveAccents(text))
	slug := nonSlugChars.ReplaceAllString(normalized, "-")
	return strings.Trim(slug, "-")
}

func truncateSlug(slug string) string {
	if len(slug) <= MaxSlugBaseLength {
		return slug
	}
	slug = slug[:MaxSlugBaseLength]
	if lastHyphen := strings.LastIndex(slug, "-"); lastHyphen > 0 {
		slug = slug[:lastHyphen]
	}
	return strings.Trim(slug, "-")
}
