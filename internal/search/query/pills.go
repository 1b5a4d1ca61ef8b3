package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/utils"
)

var commaRun = regexp.MustCompile(`\s*,(?:\s*,)*`)

// PillExtractor deriva os filtros ativos de uma query, cada um com a query
// que resulta de removê-lo
type PillExtractor struct {
	recognizer *Recognizer
}

// NewPillExtractor cria um novo extrator de filtros ativos
func NewPillExtractor(recognizer *Recognizer) *PillExtractor {
	if recognizer == nil {
		recognizer = NewRecognizer(nil)
	}
	return &PillExtractor{recognizer: recognizer}
}

// Extract devolve um chip por categoria reconhecida e um por local citado.
// A venda implícita e a guarda de preço não geram chips.
func (e *PillExtractor) Extract(raw string) []models.ActiveFilterPill {
	expanded := e.recognizer.Expand(raw)
	rec := e.recognizer.Recognize(expanded)
	base := tidyQuery(expanded)

	pills := make([]models.ActiveFilterPill, 0, 4)
	add := func(category models.FilterCategory, display string, spans []Span) {
		pills = append(pills, models.ActiveFilterPill{
			Category:     category,
			DisplayValue: display,
			Label:        category.Label(),
			RemoveQuery:  removeSpans(expanded, spans, base),
		})
	}

	if rec.Price != nil {
		add(models.CategoryPrice, priceDisplay(rec.Price), rec.PriceSpans)
	}
	if rec.Type != nil {
		add(models.CategoryPropertyType, string(rec.Type.Type), rec.TypeSpans)
	}
	if rec.Transaction != nil {
		add(models.CategoryTransaction, rec.Transaction.Type.Label(), rec.TransactionSpans)
	}
	for _, loc := range rec.Locations {
		add(models.CategoryLocation, utils.PlaceName(loc.Term.Term), loc.Spans)
	}
	if rec.Bedrooms != nil {
		add(models.CategoryBedrooms, bedroomsDisplay(rec.Bedrooms.Count), rec.BedroomsSpans)
	}

	return pills
}

// removeSpans apaga os trechos do texto e normaliza espaços e vírgulas.
// Se nada mudou em relação a base, devolve vazio.
func removeSpans(text string, spans []Span, base string) string {
	if len(spans) == 0 {
		return ""
	}
	sorted := mergeSpans(spans)

	var b strings.Builder
	pos := 0
	for _, s := range sorted {
		if s.Start < pos || s.End > len(text) {
			continue
		}
		b.WriteString(text[pos:s.Start])
		b.WriteByte(' ')
		pos = s.End
	}
	b.WriteString(text[pos:])

	result := tidyQuery(b.String())
	if result == base {
		return ""
	}
	return result
}

func tidyQuery(s string) string {
	s = normalizeCommas(s)
	s = utils.CollapseSpaces(s)
	return strings.Trim(s, " ,")
}

// normalizeCommas troca sequências de vírgulas por ", ", exceto a vírgula
// decimal entre dois dígitos ("1,5 milhão")
func normalizeCommas(s string) string {
	matches := commaRun.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	pos := 0
	for _, m := range matches {
		b.WriteString(s[pos:m[0]])
		if isDecimalComma(s, m[0], m[1]) {
			b.WriteByte(',')
		} else {
			b.WriteString(", ")
		}
		pos = m[1]
	}
	b.WriteString(s[pos:])
	return b.String()
}

func isDecimalComma(s string, start, end int) bool {
	return end-start == 1 && start > 0 && end < len(s) &&
		isDigit(s[start-1]) && isDigit(s[end])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func priceDisplay(p *PriceMatch) string {
	formatted := utils.FormatPriceShort(p.Value)
	if p.Direction == PriceDirectionMin {
		return "a partir de " + formatted
	}
	return "até " + formatted
}

func bedroomsDisplay(n int) string {
	if n == 1 {
		return "1+ quarto"
	}
	return fmt.Sprintf("%d+ quartos", n)
}
