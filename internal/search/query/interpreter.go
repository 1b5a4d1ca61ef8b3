package query

import (
	"strings"

	"github.com/reativa/portal-busca/internal/models"
)

// Metadata descreve o que a interpretação encontrou
type Metadata struct {
	PriceFound     bool           `json:"price_found"`
	PriceDirection PriceDirection `json:"price_direction"`
}

// ParsedQuery é o resultado da interpretação: predicados em ordem estável,
// combinados com AND
type ParsedQuery struct {
	Original   string      `json:"original"`
	Expanded   string      `json:"expanded"`
	Predicates []Predicate `json:"predicates"`
	Metadata   Metadata    `json:"metadata"`
}

// Interpreter traduz texto livre em predicados sobre o catálogo
type Interpreter struct {
	recognizer *Recognizer
}

// NewInterpreter cria um novo interpretador
func NewInterpreter(recognizer *Recognizer) *Interpreter {
	if recognizer == nil {
		recognizer = NewRecognizer(nil)
	}
	return &Interpreter{recognizer: recognizer}
}

// Parse interpreta a query. Texto sem nenhum filtro reconhecido gera uma
// lista vazia de predicados; nunca há erro.
func (i *Interpreter) Parse(text string) *ParsedQuery {
	expanded := i.recognizer.Expand(text)
	rec := i.recognizer.Recognize(expanded)

	parsed := &ParsedQuery{
		Original:   text,
		Expanded:   expanded,
		Predicates: make([]Predicate, 0, 6),
		Metadata:   Metadata{PriceDirection: PriceDirectionNone},
	}

	// 1. Preço
	if rec.Price != nil {
		op := OpLTE
		if rec.Price.Direction == PriceDirectionMin {
			op = OpGTE
		}
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryPrice,
			Field:    FieldPrice,
			Op:       op,
			Value:    rec.Price.Value,
		})
		parsed.Metadata.PriceFound = true
		parsed.Metadata.PriceDirection = rec.Price.Direction
	}

	// 2. Tipo de imóvel
	if rec.Type != nil {
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryPropertyType,
			Field:    FieldType,
			Op:       OpEQ,
			Value:    string(rec.Type.Type),
		})
	}

	// 3. Negócio, com venda implícita quando há preço
	switch {
	case rec.Transaction != nil:
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryTransaction,
			Field:    FieldTransaction,
			Op:       OpEQ,
			Value:    string(rec.Transaction.Type),
		})
	case rec.Price != nil:
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryTransaction,
			Field:    FieldTransaction,
			Op:       OpEQ,
			Value:    string(models.TransactionSale),
			Inferred: true,
		})
	}

	// 4. Imóveis sem preço ficam fora de buscas por preço
	if rec.Price != nil {
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryPriceGuard,
			Field:    FieldPrice,
			Op:       OpGT,
			Value:    0.0,
			Inferred: true,
		})
	}

	// 5. Local
	if len(rec.Locations) > 0 {
		terms := make([]LocationTerm, len(rec.Locations))
		for k, loc := range rec.Locations {
			terms[k] = loc.Term
		}
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category:  models.CategoryLocation,
			Op:        OpAnyLocation,
			Locations: terms,
		})
	}

	// 6. Quartos
	if rec.Bedrooms != nil {
		parsed.Predicates = append(parsed.Predicates, Predicate{
			Category: models.CategoryBedrooms,
			Field:    FieldBedrooms,
			Op:       OpGTE,
			Value:    rec.Bedrooms.Count,
		})
	}

	return parsed
}

// Where monta a cláusula com todos os predicados unidos por AND.
// Retorna string vazia quando não há predicados.
func (q *ParsedQuery) Where() (string, []any) {
	return Where(q.Predicates)
}

// Params devolve os valores ligados aos placeholders, na ordem da cláusula
func (q *ParsedQuery) Params() []any {
	_, args := q.Where()
	return args
}

// Has indica se a categoria tem um predicado explícito ou inferido
func (q *ParsedQuery) Has(category models.FilterCategory) bool {
	_, ok := q.Find(category)
	return ok
}

// Find devolve o predicado da categoria
func (q *ParsedQuery) Find(category models.FilterCategory) (Predicate, bool) {
	for _, p := range q.Predicates {
		if p.Category == category {
			return p, true
		}
	}
	return Predicate{}, false
}

// Where une as cláusulas dos predicados com AND
func Where(predicates []Predicate) (string, []any) {
	if len(predicates) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(predicates))
	var args []any
	for _, p := range predicates {
		clause, values := p.Clause()
		clauses = append(clauses, clause)
		args = append(args, values...)
	}
	return strings.Join(clauses, " AND "), args
}
