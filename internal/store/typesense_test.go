package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v3/typesense"
	"go.uber.org/zap"
)

func TestBuildFilterBy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sem predicados",
			input: "",
			want:  "status:=active",
		},
		{
			name:  "preço, tipo e negócio",
			input: "apartamento até 300k",
			want:  "status:=active && price:<=300000 && type:=`Apartamento` && transaction_type:=`sale` && price:>0",
		},
		{
			name:  "quartos",
			input: "2 quartos",
			want:  "status:=active && bedrooms:>=2",
		},
		{
			name:  "local simples",
			input: "no batel",
			want:  "status:=active && ((neighborhood:`batel` || city:`batel` || address:`batel`))",
		},
		{
			name:  "local composto",
			input: "no centro de ponta grossa",
			want: "status:=active && ((neighborhood:`centro de ponta grossa` || city:`centro de ponta grossa` || " +
				"address:`centro de ponta grossa` || (neighborhood:`centro` && city:`ponta grossa`)))",
		},
	}

	interpreter := query.NewInterpreter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilterBy(interpreter.Parse(tt.input).Predicates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteFilterValue(t *testing.T) {
	assert.Equal(t, "`a b`", quoteFilterValue("a b"))
	assert.Equal(t, "`centro`", quoteFilterValue("cen`tro"))
}

func TestPropertyDocumentRoundTrip(t *testing.T) {
	p := models.Property{
		ID: 42, Type: models.PropertyTypeHouse, TransactionType: models.TransactionRent,
		Price: 2500, Bedrooms: 3, City: "Curitiba", Neighborhood: "Batel",
		Status: models.StatusActive, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	doc := NewPropertyDocument(&p)
	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, []string{}, doc.Images)

	back, err := doc.Property()
	require.NoError(t, err)
	assert.Equal(t, p.ID, back.ID)
	assert.Equal(t, p.CreatedAt, back.CreatedAt)
	assert.Equal(t, p.Neighborhood, back.Neighborhood)

	_, err = PropertyDocument{ID: "abc"}.Property()
	assert.Error(t, err)
}

func newTypesenseTestStore(t *testing.T, handler http.HandlerFunc) *TypesenseStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := typesense.NewClient(
		typesense.WithServer(server.URL),
		typesense.WithAPIKey("test"),
		typesense.WithNumRetries(0),
	)
	return NewTypesenseStore(client, "imoveis", zap.NewNop())
}

func TestTypesenseStore_Search(t *testing.T) {
	var lastQuery map[string]string
	store := newTypesenseTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/imoveis/documents/search", r.URL.Path)
		lastQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			lastQuery[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"found": 2,
			"page":  1,
			"hits": []map[string]any{
				{"document": map[string]any{"id": "1", "type": "Casa", "price": 100000, "status": "active", "created_at": 1700000000}},
				{"document": map[string]any{"id": "x", "type": "Casa"}},
			},
		})
	})
	ctx := context.Background()
	preds := query.NewInterpreter(nil).Parse("casa até 300k").Predicates

	total, err := store.Count(ctx, preds)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "0", lastQuery["per_page"])
	assert.True(t, strings.HasPrefix(lastQuery["filter_by"], "status:=active && "))

	got, err := store.Fetch(ctx, preds, OrderPriceDesc, 12, 24)
	require.NoError(t, err)
	require.Len(t, got, 1, "documento com id inválido é ignorado")
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "3", lastQuery["page"])
	assert.Equal(t, "price:desc,created_at:desc", lastQuery["sort_by"])
}

func TestTypesenseStore_Get(t *testing.T) {
	store := newTypesenseTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections/imoveis/documents/5":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "5", "type": "Terreno", "status": "active"})
		case "/collections/imoveis/documents/6":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Could not find a document with id: 6"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"erro"}`))
		}
	})
	ctx := context.Background()

	p, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.PropertyTypeLand, p.Type)

	_, err = store.Get(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTypesenseStore_SearchFailure(t *testing.T) {
	store := newTypesenseTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"indisponível"}`))
	})

	_, err := store.Count(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTypesenseStore_EnsureCollection(t *testing.T) {
	var created bool
	store := newTypesenseTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/imoveis":
			if !created {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"name":"imoveis","fields":[],"num_documents":0,"created_at":1}`))
		case r.Method == http.MethodPost && r.URL.Path == "/collections":
			var schema map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&schema))
			assert.Equal(t, "imoveis", schema["name"])
			created = true
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"name":"imoveis","fields":[],"num_documents":0,"created_at":1}`))
		default:
			t.Errorf("requisição inesperada %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	ctx := context.Background()

	ok, err := store.EnsureCollection(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "primeira chamada cria a collection")

	ok, err = store.EnsureCollection(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypesenseStore_Upsert(t *testing.T) {
	var got PropertyDocument
	store := newTypesenseTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/imoveis/documents", r.URL.Path)
		assert.Equal(t, "upsert", r.URL.Query().Get("action"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(got)
	})

	doc := NewPropertyDocument(&models.Property{
		ID:        9,
		Type:      models.PropertyTypeHouse,
		City:      "Curitiba",
		Status:    models.StatusActive,
		CreatedAt: time.Unix(1700000000, 0),
	})
	doc.SearchContent = "casa curitiba"

	require.NoError(t, store.Upsert(context.Background(), doc))
	assert.Equal(t, "9", got.ID)
	assert.Equal(t, "casa curitiba", got.SearchContent)
	assert.Equal(t, []string{}, got.Images)
}
