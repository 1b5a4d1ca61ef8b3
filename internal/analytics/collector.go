// Package analytics publica os eventos de busca no Kafka, fora do caminho da
// requisição.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultBufferSize = 10000
	maxBatch          = 100
	flushTimeout      = 5 * time.Second
)

// SearchEvent descreve uma busca executada
type SearchEvent struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Expanded   string    `json:"expanded"`
	Categories []string  `json:"categories"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Sort       string    `json:"sort"`
	Degraded   bool      `json:"degraded"`
	Timestamp  time.Time `json:"timestamp"`
}

// Tracker recebe eventos de busca
type Tracker interface {
	Track(event SearchEvent)
}

// Writer é a parte do kafka.Writer usada pelo coletor
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter cria o writer do tópico de eventos
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    maxBatch,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}
}

// Collector enfileira eventos e os grava em lotes. Eventos são descartados
// quando o buffer está cheio.
type Collector struct {
	writer  Writer
	eventCh chan SearchEvent
	logger  *zap.Logger
	done    chan struct{}
}

// NewCollector cria um coletor sobre o writer
func NewCollector(writer Writer, bufferSize int, logger *zap.Logger) *Collector {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Collector{
		writer:  writer,
		eventCh: make(chan SearchEvent, bufferSize),
		logger:  logger.With(zap.String("component", "analytics-collector")),
		done:    make(chan struct{}),
	}
}

// Start inicia o laço de envio; ele termina quando ctx é cancelado, depois
// de enviar o que restou no buffer
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.eventCh:
				c.publish(ctx, c.collect(event))
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("coletor de eventos iniciado", zap.Int("buffer_size", cap(c.eventCh)))
}

// Track enfileira o evento sem bloquear
func (c *Collector) Track(event SearchEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("evento de busca descartado (buffer cheio)")
	}
}

// Close espera o fim do laço de envio e fecha o writer
func (c *Collector) Close() error {
	<-c.done
	return c.writer.Close()
}

// collect junta ao primeiro evento os que já estão no buffer
func (c *Collector) collect(first SearchEvent) []SearchEvent {
	batch := []SearchEvent{first}
	for len(batch) < maxBatch {
		select {
		case event := <-c.eventCh:
			batch = append(batch, event)
		default:
			return batch
		}
	}
	return batch
}

func (c *Collector) drainRemaining() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	for {
		select {
		case event := <-c.eventCh:
			c.publish(ctx, c.collect(event))
		default:
			return
		}
	}
}

func (c *Collector) publish(ctx context.Context, events []SearchEvent) {
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			c.logger.Error("falha ao serializar evento", zap.Error(err))
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.ID),
			Value: value,
		})
	}
	if len(messages) == 0 {
		return
	}

	if err := c.writer.WriteMessages(ctx, messages...); err != nil {
		c.logger.Error("falha ao publicar eventos de busca",
			zap.Int("count", len(messages)), zap.Error(err))
		return
	}
	c.logger.Debug("eventos de busca publicados", zap.Int("count", len(messages)))
}

// Noop descarta os eventos
type Noop struct{}

// Track não faz nada
func (Noop) Track(SearchEvent) {}
