// Package config gerencia configurações da aplicação via variáveis de ambiente.
//
// # Variáveis de Ambiente
//
// ## Servidor
//   - SERVER_PORT: Porta HTTP (default: 8080)
//   - SITE_BASE_URL: Prefixo das URLs públicas dos imóveis (default: vazio, URLs relativas)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json ou console (default: json)
//
// ## Catálogo
//   - STORE_BACKEND: postgres ou typesense (default: postgres)
//   - DATABASE_URL: DSN do postgres (obrigatório com STORE_BACKEND=postgres)
//   - DB_MAX_OPEN_CONNS: Conexões abertas no pool (default: 20)
//   - DB_MAX_IDLE_CONNS: Conexões ociosas no pool (default: 5)
//   - DB_CONN_MAX_LIFETIME: Tempo de vida de uma conexão (default: 30m)
//
// ## Typesense
//   - TYPESENSE_HOST: Host do servidor Typesense (default: localhost)
//   - TYPESENSE_PORT: Porta do servidor (default: 8108)
//   - TYPESENSE_API_KEY: Chave de API do Typesense
//   - TYPESENSE_PROTOCOL: Protocolo http/https (default: http)
//   - TYPESENSE_COLLECTION: Collection de imóveis (default: imoveis)
//   - TYPESENSE_LOAD_SYNONYMS: Envia as abreviações como sinônimos na inicialização (default: true)
//
// ## Cache de contagens
//   - REDIS_ADDR: Endereço do Redis; vazio desabilita o cache compartilhado
//   - REDIS_PASSWORD: Senha do Redis
//   - REDIS_DB: Banco do Redis (default: 0)
//   - COUNT_CACHE_TTL: Validade das contagens em cache (default: 5m)
//
// ## Eventos de busca
//   - KAFKA_BROKERS: Lista de brokers separada por vírgula; vazio desabilita os eventos
//   - KAFKA_SEARCH_TOPIC: Tópico dos eventos (default: busca.eventos)
//
// ## Tracing
//   - TRACING_ENABLED: Habilita OpenTelemetry (default: false)
//   - TRACING_ENDPOINT: Endpoint OTLP gRPC (default: localhost:4317)
//
// ## Busca
//   - VOCABULARY_FILE: Arquivo YAML com abreviações e termos adicionais
//   - SEARCH_PER_PAGE: Imóveis por página (default: 12)
//   - SEARCH_CACHE_TTL: Validade das respostas em cache (default: 2m)
//   - SEARCH_CACHE_MAX_SIZE: Número máximo de respostas em cache (default: 500)
//   - SEARCH_STORE_TIMEOUT: Tempo máximo da contagem e da busca no catálogo (default: 3s)
//   - SUGGESTION_TIMEOUT: Tempo máximo para contar as sugestões (default: 800ms)
//   - SUGGESTION_CONCURRENCY: Contagens simultâneas por busca (default: 4)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres  = "postgres"
	BackendTypesense = "typesense"
)

var (
	ErrUnknownBackend = errors.New("STORE_BACKEND desconhecido")
	ErrMissingSetting = errors.New("configuração obrigatória ausente")
	ErrInvalidSetting = errors.New("configuração inválida")
)

type Config struct {
	ServerPort  string
	SiteBaseURL string
	LogLevel    string
	LogFormat   string

	StoreBackend string
	Postgres     PostgresConfig
	Typesense    TypesenseConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CountCacheTTL time.Duration

	KafkaBrokers     []string
	KafkaSearchTopic string

	// Tracing configuration
	TracingEnabled  bool
	TracingEndpoint string

	Search SearchConfig
}

// PostgresConfig contém o acesso ao catálogo relacional
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// TypesenseConfig contém o acesso ao Typesense
type TypesenseConfig struct {
	Host         string
	Port         string
	APIKey       string
	Protocol     string
	Collection   string
	LoadSynonyms bool
}

// ServerURL monta a URL do servidor Typesense
func (c TypesenseConfig) ServerURL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// SearchConfig contém os parâmetros da busca
type SearchConfig struct {
	VocabularyFile        string
	PerPage               int
	CacheTTL              time.Duration
	CacheMaxSize          int
	StoreTimeout          time.Duration
	SuggestionTimeout     time.Duration
	SuggestionConcurrency int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		SiteBaseURL: strings.TrimRight(getEnv("SITE_BASE_URL", ""), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Typesense: TypesenseConfig{
			Host:         getEnv("TYPESENSE_HOST", "localhost"),
			Port:         getEnv("TYPESENSE_PORT", "8108"),
			APIKey:       getEnv("TYPESENSE_API_KEY", ""),
			Protocol:     getEnv("TYPESENSE_PROTOCOL", "http"),
			Collection:   getEnv("TYPESENSE_COLLECTION", "imoveis"),
			LoadSynonyms: getEnvBool("TYPESENSE_LOAD_SYNONYMS", true),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CountCacheTTL: getEnvDuration("COUNT_CACHE_TTL", 5*time.Minute),

		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaSearchTopic: getEnv("KAFKA_SEARCH_TOPIC", "busca.eventos"),

		// Tracing configuration
		TracingEnabled:  getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4317"),

		Search: SearchConfig{
			VocabularyFile:        getEnv("VOCABULARY_FILE", ""),
			PerPage:               getEnvInt("SEARCH_PER_PAGE", 12),
			CacheTTL:              getEnvDuration("SEARCH_CACHE_TTL", 2*time.Minute),
			CacheMaxSize:          getEnvInt("SEARCH_CACHE_MAX_SIZE", 500),
			StoreTimeout:          getEnvDuration("SEARCH_STORE_TIMEOUT", 3*time.Second),
			SuggestionTimeout:     getEnvDuration("SUGGESTION_TIMEOUT", 800*time.Millisecond),
			SuggestionConcurrency: getEnvInt("SUGGESTION_CONCURRENCY", 4),
		},
	}
}

// Validate verifica combinações inconsistentes de configuração
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
		}
	case BackendTypesense:
		if c.Typesense.APIKey == "" {
			return fmt.Errorf("%w: TYPESENSE_API_KEY", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.StoreBackend)
	}

	if c.Search.PerPage < 1 || c.Search.PerPage > 100 {
		return fmt.Errorf("%w: SEARCH_PER_PAGE deve estar entre 1 e 100", ErrInvalidSetting)
	}
	if c.Search.SuggestionConcurrency < 1 {
		return fmt.Errorf("%w: SUGGESTION_CONCURRENCY deve ser positivo", ErrInvalidSetting)
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaSearchTopic == "" {
		return fmt.Errorf("%w: KAFKA_SEARCH_TOPIC", ErrMissingSetting)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(csv string) []string {
	var out []string
	for _, item := range strings.Split(csv, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
