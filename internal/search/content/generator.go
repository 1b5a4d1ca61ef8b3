package content

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/utils"
)

// GeneratorConfig define como gerar o search_content
type GeneratorConfig struct {
	IncludeAddress      bool // incluir endereço
	IncludeFeatures     bool // incluir características
	IncludeDescription  bool // incluir descrição sem markdown
	MaxDescription      int  // tamanho máximo da descrição (default: 2000)
	MaxLength           int  // tamanho máximo (default: 8000)
	UseStructuredFormat bool // usar formato com labels
	Fold                bool // minúsculas e sem acento
}

// DefaultConfig retorna configuração padrão
func DefaultConfig() *GeneratorConfig {
	return &GeneratorConfig{
		IncludeAddress:     true,
		IncludeFeatures:    true,
		IncludeDescription: true,
		MaxDescription:     2000,
		MaxLength:          8000,
		Fold:               true,
	}
}

// Generator gera o texto indexado de cada imóvel
type Generator struct {
	config *GeneratorConfig
}

// NewGenerator cria um novo gerador
func NewGenerator(config *GeneratorConfig) *Generator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Generator{config: config}
}

// Generate gera o search_content do imóvel
func (g *Generator) Generate(p *models.Property) string {
	var content string
	if g.config.UseStructuredFormat {
		content = g.generateStructured(p)
	} else {
		content = g.generateSimple(p)
	}
	if g.config.Fold {
		content = utils.RemoveAccents(utils.FoldCase(content))
	}
	return truncate(content, g.config.MaxLength)
}

// generateStructured gera conteúdo com formato estruturado
func (g *Generator) generateStructured(p *models.Property) string {
	var parts []string

	if p.Title != "" {
		parts = append(parts, "TÍTULO: "+p.Title)
	}

	if p.Type != "" {
		parts = append(parts, "TIPO: "+string(p.Type))
	}

	if p.TransactionType != "" {
		parts = append(parts, "NEGÓCIO: "+p.TransactionType.Label())
	}

	if location := g.location(p); location != "" {
		parts = append(parts, "LOCALIZAÇÃO: "+location)
	}

	if p.Bedrooms > 0 {
		parts = append(parts, "QUARTOS: "+strconv.Itoa(p.Bedrooms))
	}

	if g.config.IncludeFeatures && len(p.Features) > 0 {
		parts = append(parts, "CARACTERÍSTICAS: "+strings.Join(p.Features, ", "))
	}

	if desc := g.description(p); desc != "" {
		parts = append(parts, "DESCRIÇÃO: "+desc)
	}

	return strings.Join(parts, "\n\n")
}

// generateSimple gera conteúdo simples (concatenação)
func (g *Generator) generateSimple(p *models.Property) string {
	var content []string

	if p.Title != "" {
		content = append(content, p.Title)
	}
	if p.Type != "" {
		content = append(content, string(p.Type))
	}
	if location := g.location(p); location != "" {
		content = append(content, location)
	}
	if g.config.IncludeFeatures {
		content = append(content, p.Features...)
	}
	if desc := g.description(p); desc != "" {
		content = append(content, desc)
	}

	return strings.Join(content, " ")
}

func (g *Generator) location(p *models.Property) string {
	var parts []string
	if g.config.IncludeAddress && p.Address != "" {
		parts = append(parts, p.Address)
	}
	for _, s := range []string{p.Neighborhood, p.City} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) description(p *models.Property) string {
	if !g.config.IncludeDescription || p.Description == "" {
		return ""
	}
	desc := utils.StripMarkdown(p.Description)
	if g.config.MaxDescription > 0 && utf8.RuneCountInString(desc) > g.config.MaxDescription {
		desc = truncate(desc, g.config.MaxDescription) + "..."
	}
	return desc
}

// truncate corta em max runas sem quebrar caracteres multibyte
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
