package suggest

import (
	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/utils"
)

const (
	maxNeighborhoods = 3
	neighborhoodRows = 10
)

// candidate é um filtro que pode ser acrescentado à query
type candidate struct {
	category models.FilterCategory
	value    string
	// token é o texto acrescentado à query, na forma que o interpretador reconhece
	token string
}

type priceBand struct {
	token string
	value string
}

var saleBands = []priceBand{
	{"até 200k", "até " + utils.FormatPriceShort(200_000)},
	{"até 300k", "até " + utils.FormatPriceShort(300_000)},
	{"até 500k", "até " + utils.FormatPriceShort(500_000)},
	{"até 1 milhão", "até " + utils.FormatPriceShort(1_000_000)},
	{"acima de 1 milhão", "a partir de " + utils.FormatPriceShort(1_000_000)},
}

var rentBands = []priceBand{
	{"até 1 mil", "até " + utils.FormatPriceShort(1_000)},
	{"até 2 mil", "até " + utils.FormatPriceShort(2_000)},
	{"até 3 mil", "até " + utils.FormatPriceShort(3_000)},
	{"até 5 mil", "até " + utils.FormatPriceShort(5_000)},
	{"acima de 5 mil", "a partir de " + utils.FormatPriceShort(5_000)},
}

var typeCandidates = []struct {
	token string
	value models.PropertyType
}{
	{"apartamento", models.PropertyTypeApartment},
	{"casa", models.PropertyTypeHouse},
	{"terreno", models.PropertyTypeLand},
}

var bedroomCandidates = []struct {
	token string
	value string
}{
	{"1 quarto", "1+ quarto"},
	{"2 quartos", "2+ quartos"},
	{"3 quartos", "3+ quartos"},
}

func priceCandidates(rent bool) []candidate {
	bands := saleBands
	if rent {
		bands = rentBands
	}
	out := make([]candidate, len(bands))
	for i, b := range bands {
		out[i] = candidate{category: models.CategoryPrice, value: b.value, token: b.token}
	}
	return out
}

func propertyTypeCandidates() []candidate {
	out := make([]candidate, len(typeCandidates))
	for i, t := range typeCandidates {
		out[i] = candidate{category: models.CategoryPropertyType, value: string(t.value), token: t.token}
	}
	return out
}

func bedroomsCandidates() []candidate {
	out := make([]candidate, len(bedroomCandidates))
	for i, b := range bedroomCandidates {
		out[i] = candidate{category: models.CategoryBedrooms, value: b.value, token: b.token}
	}
	return out
}

// neighborhoodCandidates devolve os bairros mais frequentes nas primeiras
// linhas da página. Empates mantêm a ordem em que o bairro apareceu.
func neighborhoodCandidates(page []models.Property) []candidate {
	if len(page) > neighborhoodRows {
		page = page[:neighborhoodRows]
	}

	counts := make(map[string]int)
	names := make(map[string]string)
	var order []string
	for _, p := range page {
		name := utils.CollapseSpaces(p.Neighborhood)
		if name == "" {
			continue
		}
		key := utils.FoldCase(name)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			names[key] = name
		}
		counts[key]++
	}

	// ordenação estável por frequência, preservando a primeira aparição
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	if len(order) > maxNeighborhoods {
		order = order[:maxNeighborhoods]
	}

	out := make([]candidate, len(order))
	for i, key := range order {
		name := names[key]
		out[i] = candidate{
			category: models.CategoryLocation,
			value:    utils.PlaceName(name),
			token:    "no " + utils.FoldCase(name),
		}
	}
	return out
}
