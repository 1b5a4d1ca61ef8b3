package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Desfechos de uma busca
const (
	OutcomeOK         = "ok"
	OutcomeZeroResult = "zero_result"
	OutcomeDegraded   = "degraded"
	OutcomeCached     = "cached"
)

// Metrics reúne os coletores Prometheus do serviço
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchRequestsTotal  *prometheus.CounterVec
	SearchLatency        *prometheus.HistogramVec
	SearchResultsCount   prometheus.Histogram
	StoreErrorsTotal     *prometheus.CounterVec
	SuggestionCounts     *prometheus.CounterVec
	CacheLookupsTotal    *prometheus.CounterVec
}

// NewMetrics cria os coletores em um registry próprio
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total de requisições HTTP por método, rota e status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latência das requisições HTTP em segundos.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Requisições HTTP em andamento.",
			},
		),
		SearchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busca_requests_total",
				Help: "Total de buscas por desfecho (ok, zero_result, degraded, cached).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "busca_latency_seconds",
				Help:    "Latência da busca em segundos.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"outcome"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "busca_results_total_count",
				Help:    "Total de imóveis encontrados por busca.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
			},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busca_store_errors_total",
				Help: "Falhas do catálogo por operação.",
			},
			[]string{"operation"},
		),
		SuggestionCounts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busca_suggestion_counts_total",
				Help: "Contagens de sugestões por status.",
			},
			[]string{"status"},
		),
		CacheLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "busca_cache_lookups_total",
				Help: "Consultas aos caches por cache e resultado (hit, miss).",
			},
			[]string{"cache", "result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchRequestsTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.StoreErrorsTotal,
		m.SuggestionCounts,
		m.CacheLookupsTotal,
	)

	return m
}

// Handler expõe as métricas para o scrape
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry devolve o registry dos coletores
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP registra uma requisição HTTP concluída
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveSearch registra uma busca concluída
func (m *Metrics) ObserveSearch(outcome string, total int, elapsed time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(outcome).Inc()
	m.SearchLatency.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if outcome != OutcomeCached {
		m.SearchResultsCount.Observe(float64(total))
	}
}

// StoreError registra uma falha do catálogo
func (m *Metrics) StoreError(operation string) {
	m.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// SuggestionCount registra o resultado de uma contagem de sugestão
func (m *Metrics) SuggestionCount(ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	m.SuggestionCounts.WithLabelValues(status).Inc()
}

// CacheLookup registra uma consulta a um dos caches
func (m *Metrics) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
