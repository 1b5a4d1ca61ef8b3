package query

import (
	"strings"
	"testing"

	"github.com/reativa/portal-busca/internal/models"
)

func TestExtractPills(t *testing.T) {
	extractor := NewPillExtractor(nil)

	tests := []struct {
		name  string
		input string
		want  []models.ActiveFilterPill
	}{
		{
			name:  "preço e tipo",
			input: "apartamento até 300k",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPrice, DisplayValue: "até R$ 300k", Label: "Preço", RemoveQuery: "apartamento"},
				{Category: models.CategoryPropertyType, DisplayValue: "Apartamento", Label: "Tipo", RemoveQuery: "até 300k"},
			},
		},
		{
			name:  "abreviação expandida na query de remoção",
			input: "apto a partir de 1,5 mi",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPrice, DisplayValue: "a partir de R$ 1,5M", Label: "Preço", RemoveQuery: "apartamento"},
				{Category: models.CategoryPropertyType, DisplayValue: "Apartamento", Label: "Tipo", RemoveQuery: "a partir de 1,5 milhões"},
			},
		},
		{
			name:  "negócio explícito",
			input: "casa à venda",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPropertyType, DisplayValue: "Casa", Label: "Tipo", RemoveQuery: "à venda"},
				{Category: models.CategoryTransaction, DisplayValue: "Venda", Label: "Negócio", RemoveQuery: "casa"},
			},
		},
		{
			name:  "um chip por local",
			input: "no centro e no batel",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryLocation, DisplayValue: "Centro", Label: "Local", RemoveQuery: "e no batel"},
				{Category: models.CategoryLocation, DisplayValue: "Batel", Label: "Local", RemoveQuery: "no centro e"},
			},
		},
		{
			name:  "local composto",
			input: "casa no centro de ponta grossa",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPropertyType, DisplayValue: "Casa", Label: "Tipo", RemoveQuery: "no centro de ponta grossa"},
				{Category: models.CategoryLocation, DisplayValue: "Centro de Ponta Grossa", Label: "Local", RemoveQuery: "casa"},
			},
		},
		{
			name:  "quartos",
			input: "2 quartos no centro",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryLocation, DisplayValue: "Centro", Label: "Local", RemoveQuery: "2 quartos"},
				{Category: models.CategoryBedrooms, DisplayValue: "2+ quartos", Label: "Quartos", RemoveQuery: "no centro"},
			},
		},
		{
			name:  "um quarto no singular",
			input: "kitnet 1 quarto",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPropertyType, DisplayValue: "Kitnet", Label: "Tipo", RemoveQuery: "1 quarto"},
				{Category: models.CategoryBedrooms, DisplayValue: "1+ quarto", Label: "Quartos", RemoveQuery: "kitnet"},
			},
		},
		{
			name:  "vírgulas são normalizadas",
			input: "casa, até 300k, no centro",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPrice, DisplayValue: "até R$ 300k", Label: "Preço", RemoveQuery: "casa, no centro"},
				{Category: models.CategoryPropertyType, DisplayValue: "Casa", Label: "Tipo", RemoveQuery: "até 300k, no centro"},
				{Category: models.CategoryLocation, DisplayValue: "Centro", Label: "Local", RemoveQuery: "casa, até 300k"},
			},
		},
		{
			name:  "filtro único deixa a query vazia",
			input: "até 300k",
			want: []models.ActiveFilterPill{
				{Category: models.CategoryPrice, DisplayValue: "até R$ 300k", Label: "Preço", RemoveQuery: ""},
			},
		},
		{
			name:  "sem filtros",
			input: "bonito e arejado",
			want:  []models.ActiveFilterPill{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Extract(%q) = %d chips %+v, want %d", tt.input, len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chip %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractPillsRemovesFilter(t *testing.T) {
	extractor := NewPillExtractor(nil)
	interpreter := NewInterpreter(nil)

	queries := []string{
		"apartamento até 300k",
		"apto 2 quartos até 250k no centro",
		"casa para alugar no batel, 3 quartos",
		"casa à venda até 500 mil no centro de ponta grossa",
		"terreno acima de 100k em curitiba",
		"sobrado até 400k até 500 mil",
	}

	for _, q := range queries {
		for _, pill := range extractor.Extract(q) {
			reparsed := interpreter.Parse(pill.RemoveQuery)
			switch pill.Category {
			case models.CategoryLocation:
				p, ok := reparsed.Find(models.CategoryLocation)
				if !ok {
					continue
				}
				for _, term := range p.Locations {
					if strings.ToLower(pill.DisplayValue) == term.Term {
						t.Errorf("%q: remover %q ainda deixa o local em %q", q, pill.DisplayValue, pill.RemoveQuery)
					}
				}
			case models.CategoryTransaction:
				if p, ok := reparsed.Find(models.CategoryTransaction); ok && !p.Inferred {
					t.Errorf("%q: remover negócio ainda deixa %v em %q", q, p.Value, pill.RemoveQuery)
				}
			default:
				if reparsed.Has(pill.Category) {
					t.Errorf("%q: remover %s ainda deixa o filtro em %q", q, pill.Category, pill.RemoveQuery)
				}
			}
		}
	}
}

func TestRemoveSpans(t *testing.T) {
	text := "casa até 300k no centro"
	base := tidyQuery(text)

	tests := []struct {
		name  string
		spans []Span
		want  string
	}{
		{"sem trechos", nil, ""},
		{"início", []Span{{0, 4}}, "até 300k no centro"},
		{"trechos sobrepostos", []Span{{5, 14}, {10, 17}}, "casa centro"},
		{"tudo", []Span{{0, len(text)}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeSpans(text, tt.spans, base); got != tt.want {
				t.Errorf("removeSpans() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPillsKeepsOtherFilters(t *testing.T) {
	extractor := NewPillExtractor(nil)
	interpreter := NewInterpreter(nil)

	queries := []string{
		"casa até 1,5 milhão no centro",
		"apto até 2,5 mil para alugar",
		"apartamento acima de 1,2 milhões no batel, 3 quartos",
		"casa até 450,5k em curitiba",
	}

	for _, q := range queries {
		pills := extractor.Extract(q)
		if len(pills) < 2 {
			t.Fatalf("%q: esperava ao menos dois chips, got %+v", q, pills)
		}
		for _, removed := range pills {
			reparsed := interpreter.Parse(removed.RemoveQuery)
			for _, other := range pills {
				if other.Category == removed.Category {
					continue
				}
				p, ok := reparsed.Find(other.Category)
				if !ok || p.Inferred {
					t.Errorf("%q: remover %s perde %s em %q", q, removed.Category, other.Category, removed.RemoveQuery)
				}
			}
		}
	}
}

func TestTidyQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"casa  até 1,5 milhão", "casa até 1,5 milhão"},
		{"batel ,, 3 quartos", "batel, 3 quartos"},
		{"batel,3 quartos", "batel, 3 quartos"},
		{"2 , 5 mil", "2, 5 mil"},
		{", casa ,", "casa"},
	}
	for _, tt := range tests {
		if got := tidyQuery(tt.in); got != tt.want {
			t.Errorf("tidyQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
