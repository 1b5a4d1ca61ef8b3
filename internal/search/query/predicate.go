package query

import (
	"strings"

	"github.com/reativa/portal-busca/internal/models"
)

// Field é uma coluna do catálogo que pode aparecer em um predicado.
// Somente as constantes abaixo são emitidas nas cláusulas.
type Field string

const (
	FieldPrice        Field = "price"
	FieldType         Field = "type"
	FieldTransaction  Field = "transaction_type"
	FieldBedrooms     Field = "bedrooms"
	FieldNeighborhood Field = "neighborhood"
	FieldCity         Field = "city"
	FieldAddress      Field = "address"
)

// Comparator é o operador de comparação de um predicado
type Comparator string

const (
	OpLTE Comparator = "<="
	OpGTE Comparator = ">="
	OpEQ  Comparator = "="
	OpGT  Comparator = ">"
	// OpAnyLocation agrega termos de local com OR
	OpAnyLocation Comparator = "any_location"
)

// LocationTerm é um local citado na busca. Termos compostos ("centro de
// ponta grossa") também carregam bairro e cidade separados.
type LocationTerm struct {
	Term         string `json:"term"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
}

// IsCompound indica se o termo veio de um trecho "X de Y"
func (t LocationTerm) IsCompound() bool {
	return t.Neighborhood != "" && t.City != ""
}

// Predicate é uma condição de filtro com seus valores
type Predicate struct {
	Category  models.FilterCategory `json:"category"`
	Field     Field                 `json:"field,omitempty"`
	Op        Comparator            `json:"op"`
	Value     any                   `json:"value,omitempty"`
	Locations []LocationTerm        `json:"locations,omitempty"`
	// Inferred marca predicados que não vieram de texto explícito
	Inferred bool `json:"inferred,omitempty"`
}

// Clause gera o trecho SQL do predicado com placeholders "?" e os valores na ordem
func (p Predicate) Clause() (string, []any) {
	if p.Op == OpAnyLocation {
		return locationClause(p.Locations)
	}
	return string(p.Field) + " " + string(p.Op) + " ?", []any{p.Value}
}

func locationClause(terms []LocationTerm) (string, []any) {
	groups := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms)*9)

	for _, t := range terms {
		term := escapeLike(t.Term)
		conds := []string{
			"LOWER(neighborhood) = ?",
			"LOWER(city) = ?",
			"LOWER(neighborhood) LIKE ?",
			"LOWER(city) LIKE ?",
			"LOWER(neighborhood) LIKE ?",
			"LOWER(city) LIKE ?",
			"LOWER(address) LIKE ?",
		}
		args = append(args,
			t.Term, t.Term,
			term+"%", term+"%",
			"%"+term+"%", "%"+term+"%", "%"+term+"%",
		)
		if t.IsCompound() {
			conds = append(conds, "(LOWER(neighborhood) LIKE ? AND LOWER(city) LIKE ?)")
			args = append(args, "%"+escapeLike(t.Neighborhood)+"%", "%"+escapeLike(t.City)+"%")
		}
		groups = append(groups, "("+strings.Join(conds, " OR ")+")")
	}

	return "(" + strings.Join(groups, " OR ") + ")", args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
