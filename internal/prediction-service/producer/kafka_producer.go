package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do ledger (colocação e estorno).
// A publicação acontece depois do commit; falha aqui não desfaz a transação.
type KafkaPublisher struct {
	Placed    *kafka.Writer
	Cancelled *kafka.Writer
}

func NewKafkaPublisher(placed, cancelled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Placed: placed, Cancelled: cancelled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.Placed.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishBetCancelled(ctx context.Context, e events.BetCancelled) error {
	e.Ts = time.Now()
	b, _ := json.Marshal(e)
	return p.Cancelled.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}
