package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StatusUp       = "up"
	StatusDown     = "down"
	StatusDegraded = "degraded"
)

// Probe verifica uma dependência; nil significa disponível
type Probe func(ctx context.Context) error

type healthCheck struct {
	name     string
	probe    Probe
	required bool
}

// HealthHandler gerencia os endpoints de health check
type HealthHandler struct {
	mu      sync.RWMutex
	checks  []healthCheck
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler cria um novo handler de health check
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		timeout: 3 * time.Second,
		logger:  logger,
	}
}

// Register adiciona uma dependência verificada pela readiness. A falha de uma
// dependência obrigatória tira a instância do balanceamento; a de uma
// opcional apenas degrada o status.
func (h *HealthHandler) Register(name string, required bool, probe Probe) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, healthCheck{name: name, probe: probe, required: required})
}

// ComponentHealth é o resultado da verificação de uma dependência
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Timestamp  int64                      `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe endpoint
// @Description Verifica se a aplicação está viva (sem checagem de dependências externas)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe endpoint
// @Description Verifica as dependências em paralelo (catálogo, cache de contagens, Typesense)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	response := h.Run(ctx)

	statusCode := http.StatusOK
	if response.Status == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// Run executa todas as verificações em paralelo. O status geral é o pior
// entre os componentes.
func (h *HealthHandler) Run(ctx context.Context) HealthResponse {
	h.mu.RLock()
	checks := make([]healthCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	response := HealthResponse{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(checks)),
		Timestamp:  time.Now().Unix(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, check := range checks {
		wg.Add(1)
		go func(check healthCheck) {
			defer wg.Done()
			start := time.Now()
			err := check.probe(ctx)

			result := ComponentHealth{
				Status:  StatusUp,
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				result.Status = StatusDegraded
				if check.required {
					result.Status = StatusDown
				}
				result.Message = "indisponível"
				h.logger.Warn("health check falhou",
					zap.String("component", check.name), zap.Error(err))
			}

			mu.Lock()
			response.Components[check.name] = result
			mu.Unlock()
		}(check)
	}
	wg.Wait()

	for _, comp := range response.Components {
		switch comp.Status {
		case StatusDown:
			response.Status = StatusDown
			return response
		case StatusDegraded:
			response.Status = StatusDegraded
		}
	}
	return response
}
