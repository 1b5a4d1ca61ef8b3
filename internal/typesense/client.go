package typesense

import (
	"context"
	"errors"
	"time"

	"github.com/reativa/portal-busca/internal/config"
	"github.com/typesense/typesense-go/v3/typesense"
)

const healthTimeout = 2 * time.Second

var ErrUnhealthy = errors.New("typesense não está saudável")

// Client agrupa o cliente Typesense e a collection de imóveis
type Client struct {
	client     *typesense.Client
	collection string
}

func NewClient(cfg config.TypesenseConfig) *Client {
	typesenseClient := typesense.NewClient(
		typesense.WithServer(cfg.ServerURL()),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	return &Client{
		client:     typesenseClient,
		collection: cfg.Collection,
	}
}

// GetClient retorna o cliente Typesense subjacente
func (c *Client) GetClient() *typesense.Client {
	return c.client
}

// Collection retorna o nome da collection de imóveis
func (c *Client) Collection() string {
	return c.collection
}

// Health verifica a saúde do servidor
func (c *Client) Health(ctx context.Context) error {
	healthy, err := c.client.Health(ctx, healthTimeout)
	if err != nil {
		return err
	}
	if !healthy {
		return ErrUnhealthy
	}
	return nil
}
