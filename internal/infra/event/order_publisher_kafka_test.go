package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/infra/event"
	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerFake struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *writerFake) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *writerFake) Close() error {
	w.closed = true
	return nil
}

func TestKafkaOrderPublisher_Publish(t *testing.T) {
	w := &writerFake{}
	p := event.NewKafkaOrderPublisher(w)

	err := p.PublishOrderFinalized(context.Background(), usecase.OrderOutput{
		ID:     "order-1",
		UserID: "user-1",
		Total:  decimal.NewFromInt(28),
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-order-1", string(w.msgs[0].Key))

	var got struct {
		Type  string `json:"type"`
		Order struct {
			ID    string `json:"id"`
			Total string `json:"total"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order.finalized", got.Type)
	assert.Equal(t, "order-1", got.Order.ID)
	assert.Equal(t, "28", got.Order.Total)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaOrderPublisher_WriteError(t *testing.T) {
	w := &writerFake{err: errors.New("leader not available")}
	err := event.NewKafkaOrderPublisher(w).PublishOrderFinalized(context.Background(), usecase.OrderOutput{ID: "x"})
	assert.Error(t, err)
}

func TestNewKafkaWriter(t *testing.T) {
	w := event.NewKafkaWriter([]string{"k1:9092"}, "order-finalized")
	assert.Equal(t, "order-finalized", w.Topic)
	assert.Equal(t, "k1:9092", w.Addr.String())
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.Equal(t, 3, w.MaxAttempts)
}
