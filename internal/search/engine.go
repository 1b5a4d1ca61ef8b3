// Package search orquestra a busca de imóveis: interpreta a query, consulta
// o catálogo e monta a página com filtros ativos e sugestões.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reativa/portal-busca/internal/analytics"
	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/observability"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/reativa/portal-busca/internal/search/suggest"
	"github.com/reativa/portal-busca/internal/store"
	"github.com/reativa/portal-busca/internal/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const responseCacheName = "response"

// Recorder recebe as métricas da busca
type Recorder interface {
	ObserveSearch(outcome string, total int, elapsed time.Duration)
	StoreError(operation string)
	CacheLookup(cache string, hit bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSearch(string, int, time.Duration) {}
func (noopRecorder) StoreError(string)                        {}
func (noopRecorder) CacheLookup(string, bool)                 {}

// Options contém os parâmetros do motor
type Options struct {
	PerPage      int
	StoreTimeout time.Duration
	CacheTTL     time.Duration
	CacheMaxSize int
	// DisableCache desliga o cache de respostas
	DisableCache bool
	// BaseURL prefixa as URLs dos imóveis
	BaseURL string
}

// Dependencies são os colaboradores do motor. Counter é opcional; sem ele as
// contagens vão direto ao Store.
type Dependencies struct {
	Store       store.Store
	Counter     store.Counter
	Interpreter *query.Interpreter
	Pills       *query.PillExtractor
	Suggester   *suggest.Generator
	Tracker     analytics.Tracker
	Metrics     Recorder
	Logger      *zap.Logger
}

// Engine é o motor de busca de imóveis
type Engine struct {
	store       store.Store
	counter     store.Counter
	interpreter *query.Interpreter
	pills       *query.PillExtractor
	suggester   *suggest.Generator
	tracker     analytics.Tracker
	metrics     Recorder
	cache       *PageCache
	logger      *zap.Logger
	tracer      trace.Tracer

	perPage      int
	storeTimeout time.Duration
	baseURL      string
}

// NewEngine cria um novo motor de busca
func NewEngine(deps Dependencies, opts Options) *Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Interpreter == nil {
		deps.Interpreter = query.NewInterpreter(nil)
	}
	if deps.Pills == nil {
		deps.Pills = query.NewPillExtractor(nil)
	}
	if deps.Counter == nil {
		deps.Counter = deps.Store
	}
	if deps.Suggester == nil {
		deps.Suggester = suggest.NewGenerator(deps.Interpreter, deps.Counter, deps.Logger)
	}
	if deps.Tracker == nil {
		deps.Tracker = analytics.Noop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = noopRecorder{}
	}
	if opts.PerPage <= 0 {
		opts.PerPage = models.DefaultPerPage
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 3 * time.Second
	}

	e := &Engine{
		store:        deps.Store,
		counter:      deps.Counter,
		interpreter:  deps.Interpreter,
		pills:        deps.Pills,
		suggester:    deps.Suggester,
		tracker:      deps.Tracker,
		metrics:      deps.Metrics,
		logger:       deps.Logger.With(zap.String("component", "search-engine")),
		tracer:       otel.Tracer("portal-busca/search"),
		perPage:      opts.PerPage,
		storeTimeout: opts.StoreTimeout,
		baseURL:      opts.BaseURL,
	}
	if !opts.DisableCache {
		e.cache = NewPageCache(opts.CacheTTL, opts.CacheMaxSize)
	}
	return e
}

// Search executa a busca baseada na requisição. Falhas do catálogo não são
// erros: a resposta vem vazia e marcada como degradada.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	startTime := time.Now()
	timing := &models.TimingMeta{}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "search.Search", trace.WithAttributes(
		attribute.String("search.query", req.Query),
		attribute.Int("search.page", req.Page),
		attribute.String("search.sort", string(req.Sort)),
	))
	defer span.End()

	var cacheKey string
	if e.cache != nil {
		cacheKey = PageKey(req)
		cached := e.cache.Get(cacheKey)
		e.metrics.CacheLookup(responseCacheName, cached != nil)
		if cached != nil {
			span.SetAttributes(attribute.Bool("search.cached", true))
			e.metrics.ObserveSearch(observability.OutcomeCached, cached.Pagination.Total, time.Since(startTime))
			return cached, nil
		}
	}

	// 1. Interpretação
	parseStart := time.Now()
	parsed := e.interpreter.Parse(req.Query)
	timing.ParsingMs = elapsedMs(parseStart)
	span.SetAttributes(attribute.Int("search.predicates", len(parsed.Predicates)))

	// 2. Contagem e página em paralelo
	searchStart := time.Now()
	sortMode := req.Sort.OrDefault()
	order := store.ResolveSort(sortMode, parsed.Metadata.PriceDirection)
	offset := (req.Page - 1) * e.perPage

	properties, total, err := e.countAndFetch(ctx, parsed.Predicates, order, offset)
	degraded := err != nil
	if degraded {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catálogo indisponível")
		e.logger.Error("busca degradada: falha no catálogo",
			zap.String("query", req.Query),
			zap.Int("page", req.Page),
			zap.Error(err))
		properties, total = nil, 0
	}
	timing.SearchMs = elapsedMs(searchStart)

	// 3. Filtros ativos e sugestões
	pills := e.pills.Extract(req.Query)
	suggestions := []models.Suggestion{}
	if !req.NoSuggestions && !degraded {
		suggestStart := time.Now()
		suggestions = e.suggester.Suggest(ctx, req.Query, parsed, properties, total)
		timing.SuggestionMs = elapsedMs(suggestStart)
	}

	timing.TotalMs = elapsedMs(startTime)

	response := &models.SearchResponse{
		Results:       e.views(properties),
		Pagination:    models.NewPagination(req.Page, e.perPage, total),
		Query:         queryMeta(parsed, sortMode, degraded),
		ActiveFilters: pills,
		Suggestions:   suggestions,
		Timing:        *timing,
	}

	if cacheKey != "" && !degraded {
		e.cache.Put(cacheKey, response)
	}

	outcome := observability.OutcomeOK
	switch {
	case degraded:
		outcome = observability.OutcomeDegraded
	case total == 0:
		outcome = observability.OutcomeZeroResult
	}
	e.metrics.ObserveSearch(outcome, total, time.Since(startTime))
	e.tracker.Track(analytics.SearchEvent{
		Query:      req.Query,
		Expanded:   parsed.Expanded,
		Categories: categories(parsed),
		Total:      total,
		Page:       req.Page,
		Sort:       string(sortMode),
		Degraded:   degraded,
	})

	span.SetAttributes(
		attribute.Int("search.total", total),
		attribute.Bool("search.degraded", degraded),
	)
	return response, nil
}

// countAndFetch consulta total e página ao mesmo tempo
func (e *Engine) countAndFetch(ctx context.Context, predicates []query.Predicate, order store.Order, offset int) ([]models.Property, int, error) {
	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	var (
		total      int
		properties []models.Property
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, span := e.tracer.Start(gctx, "store.Count")
		defer span.End()
		n, err := e.counter.Count(ctx, predicates)
		if err != nil {
			e.metrics.StoreError("count")
			return fmt.Errorf("contagem: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		ctx, span := e.tracer.Start(gctx, "store.Fetch")
		defer span.End()
		rows, err := e.store.Fetch(ctx, predicates, order, e.perPage, offset)
		if err != nil {
			e.metrics.StoreError("fetch")
			return fmt.Errorf("página: %w", err)
		}
		properties = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

// Interpret devolve a interpretação da query sem consultar o catálogo
func (e *Engine) Interpret(text string) *query.ParsedQuery {
	return e.interpreter.Parse(text)
}

// Pills devolve os filtros ativos da query
func (e *Engine) Pills(text string) []models.ActiveFilterPill {
	return e.pills.Extract(text)
}

// Suggestions calcula as sugestões para a primeira página da query
func (e *Engine) Suggestions(ctx context.Context, text string) []models.Suggestion {
	parsed := e.interpreter.Parse(text)
	order := store.ResolveSort(models.SortRelevance, parsed.Metadata.PriceDirection)

	properties, total, err := e.countAndFetch(ctx, parsed.Predicates, order, 0)
	if err != nil {
		e.logger.Warn("sugestões indisponíveis: falha no catálogo",
			zap.String("query", text), zap.Error(err))
		return []models.Suggestion{}
	}
	return e.suggester.Suggest(ctx, text, parsed, properties, total)
}

// SlugResolution é o imóvel encontrado pelo slug e o slug canônico.
// Redirect indica que o slug pedido difere do canônico.
type SlugResolution struct {
	Property  models.PropertyView `json:"property"`
	Canonical string              `json:"canonical"`
	Redirect  bool                `json:"redirect"`
}

// ResolveSlug encontra o imóvel pelo id no fim do slug. O restante do slug é
// apenas descritivo e não precisa coincidir.
func (e *Engine) ResolveSlug(ctx context.Context, slug string) (*SlugResolution, error) {
	parsed := utils.ParseSlugID(slug)
	if !parsed.Matched {
		return nil, models.ErrInvalidSlug
	}

	ctx, span := e.tracer.Start(ctx, "search.ResolveSlug", trace.WithAttributes(
		attribute.Int64("property.id", parsed.ID),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	p, err := e.store.Get(ctx, parsed.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		e.metrics.StoreError("get")
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogFailed, err)
	}
	if !p.IsActive() {
		return nil, ErrPropertyNotFound
	}

	view := e.view(*p)
	return &SlugResolution{
		Property:  view,
		Canonical: view.Slug,
		Redirect:  view.Slug != slug,
	}, nil
}

// Ping verifica o catálogo
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// ClearCache descarta as respostas em cache
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) views(properties []models.Property) []models.PropertyView {
	views := make([]models.PropertyView, 0, len(properties))
	for _, p := range properties {
		views = append(views, e.view(p))
	}
	return views
}

func (e *Engine) view(p models.Property) models.PropertyView {
	slug := utils.PropertySlug(&p)
	view := models.PropertyView{
		Property: p,
		Slug:     slug,
		URL:      utils.PropertyURL(e.baseURL, slug),
		Excerpt:  utils.Excerpt(p.Description, utils.DefaultExcerptLength),
	}
	if p.Price > 0 {
		view.FormattedPrice = utils.FormatPriceFull(p.Price)
	}
	return view
}

func queryMeta(parsed *query.ParsedQuery, sort models.SortMode, degraded bool) models.QueryMeta {
	meta := models.QueryMeta{
		Original:       parsed.Original,
		Sort:           string(sort),
		PriceFound:     parsed.Metadata.PriceFound,
		PriceDirection: string(parsed.Metadata.PriceDirection),
		Degraded:       degraded,
	}
	if parsed.Expanded != parsed.Original {
		meta.Expanded = parsed.Expanded
	}
	return meta
}

// categories lista as categorias explícitas da query
func categories(parsed *query.ParsedQuery) []string {
	out := make([]string, 0, len(parsed.Predicates))
	for _, p := range parsed.Predicates {
		if p.Inferred {
			continue
		}
		out = append(out, string(p.Category))
	}
	return out
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
