package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reativa/portal-busca/internal/config"
	"github.com/reativa/portal-busca/internal/logger"
	"github.com/reativa/portal-busca/internal/search/vocabulary"
	"github.com/reativa/portal-busca/internal/store"
	"github.com/reativa/portal-busca/internal/typesense"
	"go.uber.org/zap"
)

func main() {
	batchSize := flag.Int("batch", 200, "Imóveis por lote")
	workers := flag.Int("workers", 4, "Workers paralelos")
	dryRun := flag.Bool("dry-run", false, "Simular sem alterar")
	propertyID := flag.Int64("id", 0, "Reindexar um imóvel específico")
	synonyms := flag.Bool("synonyms", true, "Sincronizar sinônimos ao final")

	flag.Parse()

	cfg := config.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if cfg.Postgres.URL == "" {
		log.Fatal("DATABASE_URL é obrigatório para reindexar")
	}
	if cfg.Typesense.APIKey == "" {
		log.Fatal("TYPESENSE_API_KEY é obrigatório para reindexar")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.OpenPostgres(store.PostgresConfig{
		DSN:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("erro ao conectar no catálogo", zap.Error(err))
	}
	defer db.Close()

	tsClient := typesense.NewClient(cfg.Typesense)
	index := store.NewTypesenseStore(tsClient.GetClient(), cfg.Typesense.Collection, log)

	if !*dryRun {
		created, err := index.EnsureCollection(ctx)
		if err != nil {
			log.Fatal("erro ao preparar collection", zap.Error(err))
		}
		if created {
			log.Info("collection criada", zap.String("collection", cfg.Typesense.Collection))
		}
	}

	reindexer := NewReindexer(&ReindexConfig{
		BatchSize:  *batchSize,
		Workers:    *workers,
		DryRun:     *dryRun,
		PropertyID: *propertyID,
	}, store.NewPostgresStore(db, log), index, log)

	if err := reindexer.Run(ctx); err != nil {
		log.Fatal("erro na reindexação", zap.Error(err))
	}

	if *synonyms && !*dryRun {
		vocab := vocabulary.Default()
		if cfg.Search.VocabularyFile != "" {
			if vocab, err = vocabulary.Load(cfg.Search.VocabularyFile); err != nil {
				log.Fatal("erro ao carregar vocabulário", zap.Error(err))
			}
		}
		syncCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		service := vocabulary.NewSynonymService(tsClient.GetClient(), tsClient.Collection(), vocab, log)
		if _, err := service.Sync(syncCtx); err != nil {
			log.Error("erro ao sincronizar sinônimos", zap.Error(err))
		}
	}
}
