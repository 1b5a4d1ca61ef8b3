package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "github.com/reativa/portal-busca/docs"
	"github.com/reativa/portal-busca/internal/analytics"
	"github.com/reativa/portal-busca/internal/api/handlers"
	"github.com/reativa/portal-busca/internal/api/routes"
	"github.com/reativa/portal-busca/internal/config"
	"github.com/reativa/portal-busca/internal/logger"
	"github.com/reativa/portal-busca/internal/observability"
	"github.com/reativa/portal-busca/internal/search"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/reativa/portal-busca/internal/search/suggest"
	"github.com/reativa/portal-busca/internal/search/vocabulary"
	"github.com/reativa/portal-busca/internal/store"
	"github.com/reativa/portal-busca/internal/typesense"
	"go.uber.org/zap"
)

// @title           Portal de Busca de Imóveis API
// @version         1.0
// @description     Busca de imóveis em linguagem natural: interpretação da query, filtros ativos e sugestões com contagem

// @contact.name   Reativa Imóveis

// @BasePath  /

func main() {
	cfg := config.LoadConfig()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("configuração inválida", zap.Error(err))
	}

	observability.InitTracer(cfg, log)
	defer observability.ShutdownTracer(log)

	metrics := observability.NewMetrics()
	health := handlers.NewHealthHandler(log)

	// Vocabulário
	vocab := vocabulary.Default()
	if cfg.Search.VocabularyFile != "" {
		loaded, err := vocabulary.Load(cfg.Search.VocabularyFile)
		if err != nil {
			log.Fatal("erro ao carregar vocabulário", zap.Error(err))
		}
		vocab = loaded
		log.Info("vocabulário carregado", zap.String("file", cfg.Search.VocabularyFile))
	}

	// Catálogo
	var (
		catalog store.Store
		db      *sql.DB
	)
	switch cfg.StoreBackend {
	case config.BackendTypesense:
		tsClient := typesense.NewClient(cfg.Typesense)
		tsStore := store.NewTypesenseStore(tsClient.GetClient(), cfg.Typesense.Collection, log)
		catalog = tsStore
		health.Register("typesense", true, tsClient.Health)

		if cfg.Typesense.LoadSynonyms {
			syncSynonyms(tsClient, vocab, log)
		}
	default:
		var err error
		db, err = store.OpenPostgres(store.PostgresConfig{
			DSN:             cfg.Postgres.URL,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			log.Fatal("erro ao conectar no catálogo", zap.Error(err))
		}
		catalog = store.NewPostgresStore(db, log)
		health.Register("postgres", true, catalog.Ping)
	}

	// Cache de contagens
	var counter store.Counter = catalog
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		counter = store.NewCountCache(catalog, rdb, cfg.CountCacheTTL, log).WithObserver(metrics)
		health.Register("redis", false, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// Eventos de busca
	var tracker analytics.Tracker = analytics.Noop{}
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	var collector *analytics.Collector
	if len(cfg.KafkaBrokers) > 0 {
		collector = analytics.NewCollector(
			analytics.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaSearchTopic), 0, log)
		collector.Start(collectorCtx)
		tracker = collector
	}

	recognizer := query.NewRecognizer(vocab)
	interpreter := query.NewInterpreter(recognizer)
	engine := search.NewEngine(search.Dependencies{
		Store:       catalog,
		Counter:     counter,
		Interpreter: interpreter,
		Pills:       query.NewPillExtractor(recognizer),
		Suggester: suggest.NewGenerator(interpreter, counter, log,
			suggest.WithTimeout(cfg.Search.SuggestionTimeout),
			suggest.WithConcurrency(cfg.Search.SuggestionConcurrency),
			suggest.WithObserver(metrics),
		),
		Tracker: tracker,
		Metrics: metrics,
		Logger:  log,
	}, search.Options{
		PerPage:      cfg.Search.PerPage,
		StoreTimeout: cfg.Search.StoreTimeout,
		CacheTTL:     cfg.Search.CacheTTL,
		CacheMaxSize: cfg.Search.CacheMaxSize,
		BaseURL:      cfg.SiteBaseURL,
	})

	r := routes.SetupRouter(routes.Dependencies{
		Engine:  engine,
		Health:  health,
		Metrics: metrics,
		Logger:  log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("servidor iniciado",
			zap.String("port", cfg.ServerPort),
			zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("erro ao iniciar servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("encerrando servidor", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("erro no encerramento do servidor", zap.Error(err))
	}

	stopCollector()
	if collector != nil {
		if err := collector.Close(); err != nil {
			log.Error("erro ao fechar o writer do kafka", zap.Error(err))
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	log.Info("servidor encerrado")
}

// syncSynonyms publica as abreviações no Typesense; falhas não impedem a subida
func syncSynonyms(client *typesense.Client, vocab *vocabulary.Vocabulary, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	service := vocabulary.NewSynonymService(client.GetClient(), client.Collection(), vocab, log)
	if _, err := service.Sync(ctx); err != nil {
		log.Warn("sinônimos não sincronizados", zap.Error(err))
	}
}
