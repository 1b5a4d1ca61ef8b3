// Package store implementa o acesso ao catálogo de imóveis. Os predicados
// vêm sempre do interpretador de busca; valores nunca são interpolados nas
// consultas.
package store

import (
	"context"
	"errors"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
)

var (
	ErrNotFound    = errors.New("imóvel não encontrado")
	ErrUnavailable = errors.New("catálogo indisponível")
)

// Order é uma ordenação já resolvida, aceita pelas implementações de Store
type Order string

const (
	OrderPriceAsc  Order = "price_asc"
	OrderPriceDesc Order = "price_desc"
	OrderRecent    Order = "recent"
)

// Counter conta imóveis ativos que satisfazem os predicados
type Counter interface {
	Count(ctx context.Context, predicates []query.Predicate) (int, error)
}

// Store é o catálogo de imóveis
type Store interface {
	Counter
	Fetch(ctx context.Context, predicates []query.Predicate, order Order, limit, offset int) ([]models.Property, error)
	Get(ctx context.Context, id int64) (*models.Property, error)
	Ping(ctx context.Context) error
}

// ResolveSort converte o modo pedido pelo usuário em uma ordenação concreta.
// Relevância usa o preço quando há limite de preço: teto ordena do mais caro
// para o mais barato, piso do mais barato para o mais caro. Sem preço, ou
// para modos desconhecidos, vale a mais recente.
func ResolveSort(mode models.SortMode, direction query.PriceDirection) Order {
	switch mode.OrDefault() {
	case models.SortPriceAsc:
		return OrderPriceAsc
	case models.SortPriceDesc:
		return OrderPriceDesc
	case models.SortRelevance:
		switch direction {
		case query.PriceDirectionMax:
			return OrderPriceDesc
		case query.PriceDirectionMin:
			return OrderPriceAsc
		}
	}
	return OrderRecent
}
