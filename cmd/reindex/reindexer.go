package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/content"
	"github.com/reativa/portal-busca/internal/store"
	"go.uber.org/zap"
)

// Source percorre os imóveis ativos do catálogo
type Source interface {
	ListActive(ctx context.Context, afterID int64, limit int) ([]models.Property, error)
	Get(ctx context.Context, id int64) (*models.Property, error)
}

// Sink grava os documentos no índice
type Sink interface {
	Upsert(ctx context.Context, doc store.PropertyDocument) error
}

type ReindexConfig struct {
	BatchSize  int
	Workers    int
	DryRun     bool
	PropertyID int64
}

type ReindexStats struct {
	Total     int64
	Processed int64
	Errors    int64
	StartTime time.Time
}

type Reindexer struct {
	config     *ReindexConfig
	source     Source
	sink       Sink
	contentGen *content.Generator
	logger     *zap.Logger
	stats      *ReindexStats
}

func NewReindexer(cfg *ReindexConfig, source Source, sink Sink, logger *zap.Logger) *Reindexer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Reindexer{
		config:     cfg,
		source:     source,
		sink:       sink,
		contentGen: content.NewGenerator(content.DefaultConfig()),
		logger:     logger,
		stats:      &ReindexStats{StartTime: time.Now()},
	}
}

func (r *Reindexer) Run(ctx context.Context) error {
	r.logger.Info("iniciando reindexação",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("workers", r.config.Workers),
		zap.Bool("dry_run", r.config.DryRun))

	if r.config.PropertyID != 0 {
		return r.reindexProperty(ctx, r.config.PropertyID)
	}
	return r.reindexAll(ctx)
}

func (r *Reindexer) reindexProperty(ctx context.Context, id int64) error {
	p, err := r.source.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("erro ao buscar imóvel %d: %w", id, err)
	}
	atomic.StoreInt64(&r.stats.Total, 1)
	if err := r.processProperty(ctx, p); err != nil {
		atomic.AddInt64(&r.stats.Errors, 1)
		return err
	}
	return nil
}

func (r *Reindexer) reindexAll(ctx context.Context) error {
	var wg sync.WaitGroup
	propertyChan := make(chan models.Property, r.config.Workers*2)

	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for p := range propertyChan {
				if err := r.processProperty(ctx, &p); err != nil {
					r.logger.Warn("erro ao indexar imóvel",
						zap.Int("worker", workerID), zap.Int64("id", p.ID), zap.Error(err))
					atomic.AddInt64(&r.stats.Errors, 1)
				}
			}
		}(i)
	}

	var (
		afterID int64
		listErr error
	)
	for {
		batch, err := r.source.ListActive(ctx, afterID, r.config.BatchSize)
		if err != nil {
			listErr = fmt.Errorf("erro ao listar imóveis: %w", err)
			break
		}
		if len(batch) == 0 {
			break
		}

		atomic.AddInt64(&r.stats.Total, int64(len(batch)))
		for _, p := range batch {
			propertyChan <- p
		}
		afterID = batch[len(batch)-1].ID

		r.logger.Info("progresso",
			zap.Int64("listados", atomic.LoadInt64(&r.stats.Total)),
			zap.Int64("processados", atomic.LoadInt64(&r.stats.Processed)),
			zap.Int64("erros", atomic.LoadInt64(&r.stats.Errors)))

		if len(batch) < r.config.BatchSize {
			break
		}
	}

	close(propertyChan)
	wg.Wait()

	r.logStats()
	return listErr
}

func (r *Reindexer) processProperty(ctx context.Context, p *models.Property) error {
	doc := store.NewPropertyDocument(p)
	doc.SearchContent = r.contentGen.Generate(p)

	if r.config.DryRun {
		r.logger.Debug("[DRY-RUN] imóvel seria indexado", zap.Int64("id", p.ID))
		atomic.AddInt64(&r.stats.Processed, 1)
		return nil
	}

	if err := r.sink.Upsert(ctx, doc); err != nil {
		return err
	}
	atomic.AddInt64(&r.stats.Processed, 1)
	return nil
}

func (r *Reindexer) logStats() {
	duration := time.Since(r.stats.StartTime)
	fields := []zap.Field{
		zap.Int64("total", atomic.LoadInt64(&r.stats.Total)),
		zap.Int64("processados", atomic.LoadInt64(&r.stats.Processed)),
		zap.Int64("erros", atomic.LoadInt64(&r.stats.Errors)),
		zap.Duration("duracao", duration),
	}
	if processed := atomic.LoadInt64(&r.stats.Processed); processed > 0 {
		fields = append(fields, zap.Duration("media_por_imovel", duration/time.Duration(processed)))
	}
	r.logger.Info("reindexação concluída", fields...)

	if r.config.DryRun {
		r.logger.Warn("modo DRY-RUN: nenhuma alteração foi feita")
	}
}
