// Package kafka publica los movimientos confirmados del ledger como eventos.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// EventMovementRecorded tipo del evento emitido tras cada ajuste confirmado.
const EventMovementRecorded = "stock.movement.recorded"

var _ inventory.MovementPublisher = (*Producer)(nil)

// MovementRecordedEvent cuerpo JSON del evento. La clave del mensaje es el product_id,
// así los eventos de un producto caen en la misma partición y conservan su orden.
type MovementRecordedEvent struct {
	Type          string    `json:"type"`
	MovementID    string    `json:"movement_id"`
	ProductID     string    `json:"product_id"`
	SKU           string    `json:"sku"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Sequence      int64     `json:"sequence"`
	Reason        string    `json:"reason"`
	Reference     string    `json:"reference,omitempty"`
	LowStock      bool      `json:"low_stock"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer escribe eventos en un tópico.
type Producer struct {
	writer messageWriter
}

// NewProducer construye el productor sobre un kafka.Writer.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{writer: writer}
}

// NewMovementRecordedEvent arma el evento desde el movimiento y el estado posterior del producto.
func NewMovementRecordedEvent(m *entity.Movement, p *entity.Product) MovementRecordedEvent {
	return MovementRecordedEvent{
		Type:          EventMovementRecorded,
		MovementID:    m.ID,
		ProductID:     m.ProductID,
		SKU:           p.SKU,
		UserID:        m.UserID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Sequence:      m.Sequence,
		Reason:        m.Reason,
		Reference:     m.Reference,
		LowStock:      m.NewStock <= p.MinStock,
		OccurredAt:    m.CreatedAt,
	}
}

// PublishMovementRecorded implementa inventory.MovementPublisher.
func (p *Producer) PublishMovementRecorded(ctx context.Context, m *entity.Movement, product *entity.Product) error {
	return p.Publish(ctx, m.ProductID, NewMovementRecordedEvent(m, product))
}

// Publish serializa event a JSON y lo escribe con la clave dada.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka: publicar: %w", err)
	}
	return nil
}

// Close libera el writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
