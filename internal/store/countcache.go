package store

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reativa/portal-busca/internal/search/query"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	countKeyPrefix = "busca:count:"
	// sharedCountTimeout limita a contagem compartilhada entre chamadores
	sharedCountTimeout = 5 * time.Second
)

// CacheObserver recebe o resultado de cada consulta ao cache
type CacheObserver interface {
	CacheLookup(cache string, hit bool)
}

// CountCache guarda contagens no Redis pela impressão digital dos predicados.
// Consultas simultâneas pela mesma chave são agrupadas. Falhas do Redis não
// impedem a contagem: o valor é buscado direto no catálogo.
type CountCache struct {
	next     Counter
	rdb      *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	logger   *zap.Logger
	observer CacheObserver
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewCountCache cria um cache de contagens na frente de next
func NewCountCache(next Counter, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CountCache {
	return &CountCache{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "count-cache")),
	}
}

// WithObserver registra quem acompanha acertos e falhas do cache
func (c *CountCache) WithObserver(o CacheObserver) *CountCache {
	c.observer = o
	return c
}

// Count devolve a contagem em cache ou consulta o catálogo
func (c *CountCache) Count(ctx context.Context, predicates []query.Predicate) (int, error) {
	key, err := CountKey(predicates)
	if err != nil {
		return c.next.Count(ctx, predicates)
	}

	if n, ok := c.get(ctx, key); ok {
		return n, nil
	}

	// a contagem compartilhada não herda o prazo de quem chegou primeiro;
	// cada chamador espera só até o próprio prazo
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(shared, sharedCountTimeout)
		defer cancel()
		if n, ok := c.lookup(ctx, key); ok {
			return n, nil
		}
		n, err := c.next.Count(ctx, predicates)
		if err != nil {
			return 0, err
		}
		c.set(ctx, key, n)
		return n, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Stats retorna acertos e falhas desde o início
func (c *CountCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *CountCache) get(ctx context.Context, key string) (int, bool) {
	n, ok := c.lookup(ctx, key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	if c.observer != nil {
		c.observer.CacheLookup("count", ok)
	}
	return n, ok
}

func (c *CountCache) lookup(ctx context.Context, key string) (int, bool) {
	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("erro ao ler contagem do cache", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}
	n, err := strconv.Atoi(data)
	if err != nil {
		c.logger.Warn("contagem inválida no cache", zap.String("key", key), zap.String("value", data))
		return 0, false
	}
	return n, true
}

func (c *CountCache) set(ctx context.Context, key string, n int) {
	if err := c.rdb.Set(ctx, key, strconv.Itoa(n), c.ttl).Err(); err != nil {
		c.logger.Warn("erro ao gravar contagem no cache", zap.String("key", key), zap.Error(err))
	}
}

// CountKey gera a chave do cache para um conjunto de predicados
func CountKey(predicates []query.Predicate) (string, error) {
	raw, err := json.Marshal(predicates)
	if err != nil {
		return "", fmt.Errorf("erro ao serializar predicados: %w", err)
	}
	hash := sha256.Sum256(raw)
	return fmt.Sprintf("%s%x", countKeyPrefix, hash[:16]), nil
}
