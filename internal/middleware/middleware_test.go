package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type observation struct {
	method string
	route  string
	status int
}

type recorder struct {
	mu  sync.Mutex
	got []observation
}

func (r *recorder) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, observation{method, route, status})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = RequestIDFrom(c)
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if len(generated) != 36 || generated != seen {
		t.Errorf("id gerado = %q, visto = %q", generated, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("id recebido = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 100))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("id longo deveria ser substituído, got %q", got)
	}
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &recorder{}
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_in_flight"})

	r := gin.New()
	r.Use(Metrics(rec, inFlight))
	r.GET("/imovel/:slug", func(c *gin.Context) {
		if v := testutil.ToFloat64(inFlight); v != 1 {
			t.Errorf("in flight = %v", v)
		}
		c.Status(http.StatusOK)
	})

	for _, target := range []string{"/imovel/casa-1", "/imovel/casa-2", "/nada"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	want := []observation{
		{"GET", "/imovel/:slug", 200},
		{"GET", "/imovel/:slug", 200},
		{"GET", "unmatched", 404},
	}
	if len(rec.got) != len(want) {
		t.Fatalf("observações = %v", rec.got)
	}
	for i := range want {
		if rec.got[i] != want[i] {
			t.Errorf("observação %d = %+v, want %+v", i, rec.got[i], want[i])
		}
	}
	if v := testutil.ToFloat64(inFlight); v != 0 {
		t.Errorf("in flight ao final = %v", v)
	}
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/falha", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/falha", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entradas = %d", len(entries))
	}
	if entries[0].Level != zap.InfoLevel || entries[1].Level != zap.ErrorLevel {
		t.Errorf("níveis = %v, %v", entries[0].Level, entries[1].Level)
	}
	if id, _ := entries[1].ContextMap()["request_id"].(string); id == "" {
		t.Error("request_id ausente")
	}
}

func TestRequestTiming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTiming())
	r.GET("/x", func(c *gin.Context) {
		if c.Request.Context() == nil {
			t.Error("contexto nulo")
		}
		c.Status(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}
