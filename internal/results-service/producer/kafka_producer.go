package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// KafkaPublisher publica event_settled depois do commit da liquidação
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) PublishEventSettled(ctx context.Context, e events.EventSettled) error {
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	return p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.EventID), Value: b})
}
