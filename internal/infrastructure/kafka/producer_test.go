package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishMovementRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &entity.Movement{
		ID: "m1", ProductID: "p1", UserID: "u1", Kind: entity.MovementKindOut,
		Quantity: -7, PreviousStock: 10, NewStock: 3, Sequence: 4, Reason: "Venta", CreatedAt: at,
	}
	product := &entity.Product{ID: "p1", SKU: "SKU-001", MinStock: 5}

	require.NoError(t, p.PublishMovementRecorded(context.Background(), m, product))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p1", string(w.msgs[0].Key))

	var ev MovementRecordedEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, EventMovementRecorded, ev.Type)
	assert.Equal(t, "SKU-001", ev.SKU)
	assert.Equal(t, "out", ev.Kind)
	assert.Equal(t, int64(-7), ev.Quantity)
	assert.Equal(t, int64(4), ev.Sequence)
	assert.True(t, ev.LowStock)
	assert.True(t, at.Equal(ev.OccurredAt))
}

func TestPublish_ErrorDelWriter(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker caído")}}
	err := p.Publish(context.Background(), "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "broker caído")
}
