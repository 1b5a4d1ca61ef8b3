package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/reativa/portal-busca/internal/models"
	"github.com/reativa/portal-busca/internal/search/query"
	"go.uber.org/zap"
)

// PostgresConfig contém os parâmetros de conexão
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenPostgres abre o pool de conexões e verifica a conexão
func OpenPostgres(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar no postgres: %w", err)
	}
	return db, nil
}

const propertyColumns = "id, type, transaction_type, price, bedrooms, area, city, neighborhood, " +
	"address, title, images, features, description, status, created_at"

// activeOnly é a condição fixa de toda busca
const activeOnly = "status = 'active'"

// orderClauses é a única fonte de ORDER BY aceita
var orderClauses = map[Order]string{
	OrderPriceAsc:  "price ASC, created_at DESC, id DESC",
	OrderPriceDesc: "price DESC, created_at DESC, id DESC",
	OrderRecent:    "created_at DESC, id DESC",
}

// PostgresStore lê a tabela properties
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore cria um novo store sobre um pool já aberto
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.With(zap.String("component", "postgres-store")),
	}
}

// Count conta os imóveis ativos que satisfazem os predicados
func (s *PostgresStore) Count(ctx context.Context, predicates []query.Predicate) (int, error) {
	where, args := whereActive(predicates)
	stmt := rebind("SELECT COUNT(*) FROM properties WHERE " + where)

	var total int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: contagem: %w", ErrUnavailable, err)
	}
	return total, nil
}

// Fetch retorna uma página de imóveis ativos
func (s *PostgresStore) Fetch(ctx context.Context, predicates []query.Predicate, order Order, limit, offset int) ([]models.Property, error) {
	orderBy, ok := orderClauses[order]
	if !ok {
		orderBy = orderClauses[OrderRecent]
	}
	where, args := whereActive(predicates)
	stmt := rebind("SELECT " + propertyColumns + " FROM properties WHERE " + where +
		" ORDER BY " + orderBy + " LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: busca: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	properties := make([]models.Property, 0, limit)
	for rows.Next() {
		p, err := s.scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: leitura: %w", ErrUnavailable, err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: leitura: %w", ErrUnavailable, err)
	}
	return properties, nil
}

// Get retorna o imóvel pelo id, em qualquer status
func (s *PostgresStore) Get(ctx context.Context, id int64) (*models.Property, error) {
	stmt := "SELECT " + propertyColumns + " FROM properties WHERE id = $1"
	p, err := s.scanProperty(s.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: imóvel %d: %w", ErrUnavailable, id, err)
	}
	return p, nil
}

// Ping verifica a conexão
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListActive percorre os imóveis ativos em ordem de id, a partir de afterID
func (s *PostgresStore) ListActive(ctx context.Context, afterID int64, limit int) ([]models.Property, error) {
	stmt := "SELECT " + propertyColumns + " FROM properties WHERE " + activeOnly +
		" AND id > $1 ORDER BY id LIMIT $2"

	rows, err := s.db.QueryContext(ctx, stmt, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listagem: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := s.scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanProperty(row rowScanner) (*models.Property, error) {
	var (
		p                                  models.Property
		propertyType, transaction, status  sql.NullString
		city, neighborhood, address, title sql.NullString
		images, features, description      sql.NullString
		price, area                        sql.NullFloat64
		bedrooms                           sql.NullInt64
		createdAt                          sql.NullTime
	)

	err := row.Scan(&p.ID, &propertyType, &transaction, &price, &bedrooms, &area,
		&city, &neighborhood, &address, &title, &images, &features, &description,
		&status, &createdAt)
	if err != nil {
		return nil, err
	}

	p.Type = models.PropertyType(propertyType.String)
	p.TransactionType = models.TransactionType(transaction.String)
	p.Price = price.Float64
	p.Bedrooms = int(bedrooms.Int64)
	p.Area = area.Float64
	p.City = city.String
	p.Neighborhood = neighborhood.String
	p.Address = address.String
	p.Title = title.String
	p.Description = description.String
	p.Status = models.PropertyStatus(status.String)
	p.CreatedAt = createdAt.Time
	p.Images = s.decodeList(p.ID, "images", images)
	p.Features = s.decodeList(p.ID, "features", features)

	return &p, nil
}

// decodeList lê uma coluna com lista JSON; conteúdo inválido vira lista vazia
func (s *PostgresStore) decodeList(id int64, column string, raw sql.NullString) []string {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		s.logger.Debug("lista inválida no catálogo",
			zap.Int64("id", id), zap.String("column", column), zap.Error(err))
		return []string{}
	}
	return list
}

// whereActive une a condição fixa de status aos predicados
func whereActive(predicates []query.Predicate) (string, []any) {
	where, args := query.Where(predicates)
	if where == "" {
		return activeOnly, nil
	}
	return activeOnly + " AND " + where, args
}

// rebind troca os placeholders "?" pelos posicionais do postgres
func rebind(stmt string) string {
	var b strings.Builder
	b.Grow(len(stmt) + 16)
	n := 0
	for i := 0; i < len(stmt); i++ {
		if stmt[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(stmt[i])
	}
	return b.String()
}
