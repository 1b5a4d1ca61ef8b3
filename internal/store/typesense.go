package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"
	"go.uber.org/zap"
)

// typesenseSortBy é a única fonte de sort_by aceita
var typesenseSortBy = map[Order]string{
	OrderPriceAsc:  "price:asc,created_at:desc",
	OrderPriceDesc: "price:desc,created_at:desc",
	OrderRecent:    "created_at:desc",
}

// PropertyDocument é o imóvel como documento da collection
type PropertyDocument struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	TransactionType string   `json:"transaction_type"`
	Price           float64  `json:"price"`
	Bedrooms        int      `json:"bedrooms"`
	Area            float64  `json:"area"`
	City            string   `json:"city"`
	Neighborhood    string   `json:"neighborhood"`
	Address         string   `json:"address"`
	Title           string   `json:"title"`
	Images          []string `json:"images"`
	Features        []string `json:"features"`
	Description     string   `json:"description"`
	Status          string   `json:"status"`
	CreatedAt       int64    `json:"created_at"`
	// SearchContent é o texto normalizado usado pela busca textual
	SearchContent string `json:"search_content,omitempty"`
}

// NewPropertyDocument converte um imóvel em documento
func NewPropertyDocument(p *models.Property) PropertyDocument {
	return PropertyDocument{
		ID:              strconv.FormatInt(p.ID, 10),
		Type:            string(p.Type),
		TransactionType: string(p.TransactionType),
		Price:           p.Price,
		Bedrooms:        p.Bedrooms,
		Area:            p.Area,
		City:            p.City,
		Neighborhood:    p.Neighborhood,
		Address:         p.Address,
		Title:           p.Title,
		Images:          nonNil(p.Images),
		Features:        nonNil(p.Features),
		Description:     p.Description,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt.Unix(),
	}
}

// Property converte o documento de volta em imóvel
func (d PropertyDocument) Property() (models.Property, error) {
	id, err := strconv.ParseInt(d.ID, 10, 64)
	if err != nil {
		return models.Property{}, fmt.Errorf("id inválido %q: %w", d.ID, err)
	}
	return models.Property{
		ID:              id,
		Type:            models.PropertyType(d.Type),
		TransactionType: models.TransactionType(d.TransactionType),
		Price:           d.Price,
		Bedrooms:        d.Bedrooms,
		Area:            d.Area,
		City:            d.City,
		Neighborhood:    d.Neighborhood,
		Address:         d.Address,
		Title:           d.Title,
		Images:          nonNil(d.Images),
		Features:        nonNil(d.Features),
		Description:     d.Description,
		Status:          models.PropertyStatus(d.Status),
		CreatedAt:       time.Unix(d.CreatedAt, 0).UTC(),
	}, nil
}

// CollectionSchema descreve a collection de imóveis
func CollectionSchema(name string) *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: name,
		Fields: []api.Field{
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "transaction_type", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Sort: pointer.True()},
			{Name: "bedrooms", Type: "int32", Facet: pointer.True()},
			{Name: "area", Type: "float", Optional: pointer.True()},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "neighborhood", Type: "string", Facet: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "title", Type: "string", Optional: pointer.True()},
			{Name: "images", Type: "string[]", Optional: pointer.True(), Index: pointer.False()},
			{Name: "features", Type: "string[]", Optional: pointer.True()},
			{Name: "description", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "created_at", Type: "int64", Sort: pointer.True()},
			{Name: "search_content", Type: "string", Optional: pointer.True()},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

// TypesenseStore lê imóveis de uma collection do Typesense. Os predicados
// são traduzidos para filter_by; o texto livre não é usado na busca.
type TypesenseStore struct {
	client     *typesense.Client
	collection string
	logger     *zap.Logger
}

// NewTypesenseStore cria um novo store sobre a collection
func NewTypesenseStore(client *typesense.Client, collection string, logger *zap.Logger) *TypesenseStore {
	return &TypesenseStore{
		client:     client,
		collection: collection,
		logger:     logger.With(zap.String("component", "typesense-store"), zap.String("collection", collection)),
	}
}

// Count conta os imóveis ativos que satisfazem os predicados
func (s *TypesenseStore) Count(ctx context.Context, predicates []query.Predicate) (int, error) {
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		FilterBy: pointer.String(BuildFilterBy(predicates)),
		PerPage:  pointer.Int(0),
	}

	result, err := s.client.Collection(s.collection).Documents().Search(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("%w: contagem: %w", ErrUnavailable, err)
	}
	if result.Found == nil {
		return 0, nil
	}
	return *result.Found, nil
}

// Fetch retorna uma página de imóveis ativos
func (s *TypesenseStore) Fetch(ctx context.Context, predicates []query.Predicate, order Order, limit, offset int) ([]models.Property, error) {
	sortBy, ok := typesenseSortBy[order]
	if !ok {
		sortBy = typesenseSortBy[OrderRecent]
	}
	if limit <= 0 {
		return []models.Property{}, nil
	}

	// offset é sempre múltiplo de limit nas páginas da busca
	page := offset/limit + 1
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		FilterBy: pointer.String(BuildFilterBy(predicates)),
		SortBy:   pointer.String(sortBy),
		Page:     pointer.Int(page),
		PerPage:  pointer.Int(limit),
	}

	result, err := s.client.Collection(s.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: busca: %w", ErrUnavailable, err)
	}

	properties := make([]models.Property, 0, limit)
	if result.Hits == nil {
		return properties, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		p, err := decodeDocument(*hit.Document)
		if err != nil {
			s.logger.Warn("documento inválido na collection", zap.Error(err))
			continue
		}
		properties = append(properties, p)
	}
	return properties, nil
}

// Get retorna o imóvel pelo id, em qualquer status
func (s *TypesenseStore) Get(ctx context.Context, id int64) (*models.Property, error) {
	doc, err := s.client.Collection(s.collection).Document(strconv.FormatInt(id, 10)).Retrieve(ctx)
	if err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: imóvel %d: %w", ErrUnavailable, id, err)
	}
	p, err := decodeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &p, nil
}

// Ping verifica a saúde do servidor
func (s *TypesenseStore) Ping(ctx context.Context) error {
	healthy, err := s.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !healthy {
		return errors.New("typesense não está saudável")
	}
	return nil
}

// EnsureCollection cria a collection se ela ainda não existe
func (s *TypesenseStore) EnsureCollection(ctx context.Context) (bool, error) {
	_, err := s.client.Collection(s.collection).Retrieve(ctx)
	if err == nil {
		return false, nil
	}
	var httpErr *typesense.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound {
		return false, fmt.Errorf("erro ao consultar collection %s: %w", s.collection, err)
	}

	if _, err := s.client.Collections().Create(ctx, CollectionSchema(s.collection)); err != nil {
		return false, fmt.Errorf("erro ao criar collection %s: %w", s.collection, err)
	}
	s.logger.Info("collection criada")
	return true, nil
}

// Upsert grava o documento na collection
func (s *TypesenseStore) Upsert(ctx context.Context, doc PropertyDocument) error {
	if _, err := s.client.Collection(s.collection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("erro ao gravar imóvel %s: %w", doc.ID, err)
	}
	return nil
}

func decodeDocument(raw map[string]interface{}) (models.Property, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return models.Property{}, err
	}
	var doc PropertyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Property{}, fmt.Errorf("erro ao decodificar documento: %w", err)
	}
	return doc.Property()
}

// BuildFilterBy traduz os predicados para a sintaxe filter_by do Typesense.
// Os valores de texto vão entre crases; crases no valor são removidas.
func BuildFilterBy(predicates []query.Predicate) string {
	parts := []string{"status:=active"}
	for _, p := range predicates {
		if clause := filterClause(p); clause != "" {
			parts = append(parts, clause)
		}
	}
	return strings.Join(parts, " && ")
}

func filterClause(p query.Predicate) string {
	if p.Op == query.OpAnyLocation {
		groups := make([]string, 0, len(p.Locations))
		for _, t := range p.Locations {
			term := quoteFilterValue(t.Term)
			alternatives := []string{
				"neighborhood:" + term,
				"city:" + term,
				"address:" + term,
			}
			if t.IsCompound() {
				alternatives = append(alternatives, fmt.Sprintf("(neighborhood:%s && city:%s)",
					quoteFilterValue(t.Neighborhood), quoteFilterValue(t.City)))
			}
			groups = append(groups, "("+strings.Join(alternatives, " || ")+")")
		}
		if len(groups) == 0 {
			return ""
		}
		return "(" + strings.Join(groups, " || ") + ")"
	}

	op, ok := filterOperators[p.Op]
	if !ok {
		return ""
	}
	switch v := p.Value.(type) {
	case string:
		return fmt.Sprintf("%s:%s%s", p.Field, op, quoteFilterValue(v))
	case int:
		return fmt.Sprintf("%s:%s%d", p.Field, op, v)
	case float64:
		return fmt.Sprintf("%s:%s%s", p.Field, op, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return ""
}

var filterOperators = map[query.Comparator]string{
	query.OpEQ:  "=",
	query.OpLTE: "<=",
	query.OpGTE: ">=",
	query.OpGT:  ">",
}

func quoteFilterValue(v string) string {
	return "`" + strings.ReplaceAll(v, "`", "") + "`"
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
