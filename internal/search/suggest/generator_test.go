package suggest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type counterFunc func(ctx context.Context, preds []query.Predicate) (int, error)

func (f counterFunc) Count(ctx context.Context, preds []query.Predicate) (int, error) {
	return f(ctx, preds)
}

type countingObserver struct {
	ok, failed atomic.Int64
}

func (o *countingObserver) SuggestionCount(ok bool) {
	if ok {
		o.ok.Add(1)
		return
	}
	o.failed.Add(1)
}

// scoreCounter dá a cada candidato uma contagem previsível
func scoreCounter(ctx context.Context, preds []query.Predicate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for _, p := range preds {
		switch p.Category {
		case models.CategoryPrice:
			if p.Op == query.OpGTE {
				return 1, nil
			}
			return int(p.Value.(float64) / 100_000), nil
		case models.CategoryBedrooms:
			return 10 - 3*p.Value.(int), nil
		case models.CategoryLocation:
			return 6, nil
		}
	}
	return 0, nil
}

func page(neighborhoods ...string) []models.Property {
	out := make([]models.Property, len(neighborhoods))
	for i, n := range neighborhoods {
		out[i] = models.Property{ID: int64(i + 1), Neighborhood: n, Status: models.StatusActive}
	}
	return out
}

func newGenerator(t *testing.T, counter counterFunc, opts ...Option) *Generator {
	t.Helper()
	return NewGenerator(query.NewInterpreter(nil), counter, zaptest.NewLogger(t), opts...)
}

func TestSuggest(t *testing.T) {
	g := newGenerator(t, scoreCounter)

	got := g.Suggest(context.Background(), "apartamento", nil, page("Centro", "Batel", "Centro", "Batel"), 40)

	want := []models.Suggestion{
		{Category: models.CategoryPrice, Value: "até R$ 1M", Label: "Preço", MatchCount: 10, AddQuery: "apartamento até 1 milhão"},
		{Category: models.CategoryBedrooms, Value: "1+ quarto", Label: "Quartos", MatchCount: 7, AddQuery: "apartamento 1 quarto"},
		{Category: models.CategoryLocation, Value: "Centro", Label: "Local", MatchCount: 6, AddQuery: "apartamento no centro"},
		{Category: models.CategoryLocation, Value: "Batel", Label: "Local", MatchCount: 6, AddQuery: "apartamento no batel"},
		{Category: models.CategoryPrice, Value: "até R$ 500k", Label: "Preço", MatchCount: 5, AddQuery: "apartamento até 500k"},
	}
	assert.Equal(t, want, got)

	for _, s := range got {
		assert.NotEqual(t, models.CategoryPropertyType, s.Category, "tipo já está filtrado")
	}
}

func TestSuggestEmpty(t *testing.T) {
	var calls atomic.Int64
	g := newGenerator(t, func(ctx context.Context, preds []query.Predicate) (int, error) {
		calls.Add(1)
		return 1, nil
	})
	ctx := context.Background()

	tests := []struct {
		name  string
		raw   string
		total int
	}{
		{"query vazia", "", 10},
		{"só espaços", "   ", 10},
		{"sem resultados", "casa", 0},
		{"todas as categorias ativas", "apartamento 2 quartos no centro até 300k", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Suggest(ctx, tt.raw, nil, page("Batel"), tt.total)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
	assert.Zero(t, calls.Load())
}

func TestSuggestNeverRepeatsActiveCategory(t *testing.T) {
	g := newGenerator(t, func(ctx context.Context, preds []query.Predicate) (int, error) {
		return 3, nil
	})

	for _, raw := range []string{"2 quartos", "casa 3 dormitórios", "apto 1 quarto no batel"} {
		got := g.Suggest(context.Background(), raw, nil, page("Centro"), 5)
		require.NotEmpty(t, got, raw)
		for _, s := range got {
			assert.NotEqual(t, models.CategoryBedrooms, s.Category, raw)
		}
	}
}

func TestSuggestRentBands(t *testing.T) {
	g := newGenerator(t, func(ctx context.Context, preds []query.Predicate) (int, error) {
		for _, p := range preds {
			if p.Category == models.CategoryPrice {
				return 1, nil
			}
		}
		return 0, nil
	})

	got := g.Suggest(context.Background(), "casa para alugar", nil, nil, 8)
	require.Len(t, got, 5)
	assert.Equal(t, "casa para alugar até 1 mil", got[0].AddQuery)
	assert.Equal(t, "a partir de R$ 5k", got[4].Value)
}

func TestSuggestCountFailure(t *testing.T) {
	observer := &countingObserver{}
	g := newGenerator(t, func(ctx context.Context, preds []query.Predicate) (int, error) {
		for _, p := range preds {
			if p.Category == models.CategoryBedrooms {
				return 0, errors.New("store indisponível")
			}
		}
		return scoreCounter(ctx, preds)
	}, WithObserver(observer))

	got := g.Suggest(context.Background(), "casa", nil, nil, 20)
	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Equal(t, models.CategoryPrice, s.Category)
	}
	assert.Equal(t, int64(3), observer.failed.Load())
	assert.Equal(t, int64(5), observer.ok.Load())
}

func TestSuggestCanceled(t *testing.T) {
	g := newGenerator(t, func(ctx context.Context, preds []query.Predicate) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return 1, nil
		}
	}, WithTimeout(20*time.Millisecond), WithConcurrency(16))

	start := time.Now()
	got := g.Suggest(context.Background(), "casa", nil, nil, 20)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSuggestUsesParsedQuery(t *testing.T) {
	interpreter := query.NewInterpreter(nil)
	g := NewGenerator(interpreter, counterFunc(scoreCounter), zaptest.NewLogger(t))

	parsed := interpreter.Parse("casa 2 quartos")
	got := g.Suggest(context.Background(), "casa 2 quartos", parsed, nil, 3)
	for _, s := range got {
		assert.Equal(t, models.CategoryPrice, s.Category)
	}
}

func TestNeighborhoodCandidates(t *testing.T) {
	rows := page("Centro", "batel", "Água Verde", "Batel", "  ", "Mercês", "Água  Verde",
		"Mercês", "Mercês", "Centro", "Portão", "Portão", "Portão")

	got := neighborhoodCandidates(rows)
	require.Len(t, got, 3)
	assert.Equal(t, "Mercês", got[0].value)
	assert.Equal(t, "no mercês", got[0].token)
	assert.Equal(t, "Centro", got[1].value)
	assert.Equal(t, "Batel", got[2].value)

	assert.Empty(t, neighborhoodCandidates(nil))
}

func TestSuggestSkipsSplitNeighborhood(t *testing.T) {
	g := newGenerator(t, scoreCounter)

	got := g.Suggest(context.Background(), "apartamento", nil,
		page("Cidade Industrial de Curitiba", "Cidade Industrial de Curitiba", "Batel"), 40)

	var locations []string
	for _, s := range got {
		if s.Category == models.CategoryLocation {
			locations = append(locations, s.Value)
		}
	}
	assert.Equal(t, []string{"Batel"}, locations)
}

func TestSingleLocation(t *testing.T) {
	interpreter := query.NewInterpreter(nil)

	assert.True(t, singleLocation(interpreter.Parse("apartamento no batel")))
	assert.False(t, singleLocation(interpreter.Parse("apartamento no cidade industrial de curitiba")))
	assert.False(t, singleLocation(interpreter.Parse("apartamento")))
}
