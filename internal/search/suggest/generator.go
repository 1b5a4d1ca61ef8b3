// Package suggest propõe filtros complementares para a busca atual, cada um
// com o número de imóveis que passaria a corresponder à query.
package suggest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/reativa/portal-busca/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxSuggestions é o número máximo de sugestões devolvidas
	MaxSuggestions = 5

	DefaultTimeout     = 800 * time.Millisecond
	DefaultConcurrency = 4
)

// Observer recebe o resultado de cada contagem de candidato
type Observer interface {
	SuggestionCount(ok bool)
}

// Generator calcula sugestões consultando um contador para cada candidato
type Generator struct {
	interpreter *query.Interpreter
	counter     store.Counter
	logger      *zap.Logger
	observer    Observer
	timeout     time.Duration
	concurrency int
}

// Option altera a configuração do gerador
type Option func(*Generator)

// WithTimeout limita o tempo total das contagens
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithConcurrency limita quantas contagens rodam ao mesmo tempo
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithObserver registra o observador das contagens
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// NewGenerator cria um novo gerador de sugestões
func NewGenerator(interpreter *query.Interpreter, counter store.Counter, logger *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		interpreter: interpreter,
		counter:     counter,
		logger:      logger.With(zap.String("component", "suggest")),
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Suggest devolve até MaxSuggestions filtros ainda não ativos, em ordem
// decrescente de contagem. parsed é a interpretação de raw; quando nil, a
// query é interpretada aqui. Falhas de contagem apenas omitem o candidato.
func (g *Generator) Suggest(ctx context.Context, raw string, parsed *query.ParsedQuery, page []models.Property, total int) []models.Suggestion {
	raw = strings.TrimSpace(raw)
	if raw == "" || total <= 0 {
		return []models.Suggestion{}
	}
	if parsed == nil {
		parsed = g.interpreter.Parse(raw)
	}

	candidates := g.candidates(parsed, page)
	if len(candidates) == 0 {
		return []models.Suggestion{}
	}

	ctx, span := otel.Tracer("portal-busca/suggest").Start(ctx, "suggest.count")
	span.SetAttributes(attribute.Int("suggest.candidates", len(candidates)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var (
		mu          sync.Mutex
		suggestions = make([]models.Suggestion, 0, len(candidates))
		positions   = make(map[string]int, len(candidates))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, c := range candidates {
		addQuery := strings.TrimSpace(raw + " " + c.token)
		hypothetical := g.interpreter.Parse(addQuery)
		if !hypothetical.Has(c.category) {
			g.logger.Debug("candidato não reconhecido pelo interpretador",
				zap.String("token", c.token))
			continue
		}
		if c.category == models.CategoryLocation && !singleLocation(hypothetical) {
			g.logger.Debug("bairro dividido em mais de um local",
				zap.String("token", c.token))
			continue
		}
		positions[addQuery] = i

		eg.Go(func() error {
			count, err := g.counter.Count(egCtx, hypothetical.Predicates)
			if g.observer != nil {
				g.observer.SuggestionCount(err == nil)
			}
			if err != nil {
				g.logger.Warn("falha ao contar sugestão",
					zap.String("category", string(c.category)),
					zap.String("value", c.value),
					zap.Error(err))
				return nil
			}
			if count <= 0 {
				return nil
			}

			mu.Lock()
			suggestions = append(suggestions, models.Suggestion{
				Category:   c.category,
				Value:      c.value,
				Label:      c.category.Label(),
				MatchCount: count,
				AddQuery:   addQuery,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	// a ordem de chegada é arbitrária; empates seguem a ordem dos candidatos
	sort.SliceStable(suggestions, func(a, b int) bool {
		if suggestions[a].MatchCount != suggestions[b].MatchCount {
			return suggestions[a].MatchCount > suggestions[b].MatchCount
		}
		return positions[suggestions[a].AddQuery] < positions[suggestions[b].AddQuery]
	})
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	span.SetAttributes(attribute.Int("suggest.returned", len(suggestions)))
	return suggestions
}

// singleLocation informa se o bairro sugerido virou um único termo de local;
// nomes como "Cidade Industrial de Curitiba" podem ser lidos como dois locais
func singleLocation(parsed *query.ParsedQuery) bool {
	p, ok := parsed.Find(models.CategoryLocation)
	return ok && len(p.Locations) == 1
}

// candidates lista os candidatos das categorias ainda não filtradas
func (g *Generator) candidates(parsed *query.ParsedQuery, page []models.Property) []candidate {
	var out []candidate

	if !parsed.Has(models.CategoryPrice) {
		rent := false
		if p, ok := parsed.Find(models.CategoryTransaction); ok && !p.Inferred {
			rent = p.Value == string(models.TransactionRent)
		}
		out = append(out, priceCandidates(rent)...)
	}
	if !parsed.Has(models.CategoryPropertyType) {
		out = append(out, propertyTypeCandidates()...)
	}
	if !parsed.Has(models.CategoryBedrooms) {
		out = append(out, bedroomsCandidates()...)
	}
	if !parsed.Has(models.CategoryLocation) {
		out = append(out, neighborhoodCandidates(page)...)
	}
	return out
}
