package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/segmentio/kafka-go"
)

// MessageWriter は kafka.Writer の送信部分
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaOrderPublisher struct {
	writer MessageWriter
}

// 1件ずつ送るのでバッチは待たない
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           2 * time.Second,
	}
}

func NewKafkaOrderPublisher(writer MessageWriter) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{writer: writer}
}

type orderFinalizedEvent struct {
	Type       string              `json:"type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Order      usecase.OrderOutput `json:"order"`
}

// キーは注文IDなので同じ注文のイベントは同じパーティションに入る
func (p *KafkaOrderPublisher) PublishOrderFinalized(ctx context.Context, order usecase.OrderOutput) error {
	payload, err := json.Marshal(orderFinalizedEvent{
		Type:       "order.finalized",
		OccurredAt: time.Now().UTC(),
		Order:      order,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("order-" + order.ID),
		Value: payload,
	})
}

func (p *KafkaOrderPublisher) Close() error {
	return p.writer.Close()
}

var _ usecase.OrderEventPublisher = (*KafkaOrderPublisher)(nil)
