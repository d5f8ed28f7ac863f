package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	skafka "github.com/radieske/f1-prediction-poc/internal/shared/kafka"
	"github.com/radieske/f1-prediction-poc/pkg/contracts/events"
)

// Notifier persiste a notificação de um usuário
type Notifier interface {
	Insert(ctx context.Context, userID, message string) error
}

// Worker consome bet_cancelled e event_settled e grava notificações.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Worker struct {
	Log   *zap.Logger
	Store Notifier
	DLQ   *kafka.Writer // mensagens indecifráveis ou não persistíveis

	OnConsumed func(topic string) // métricas (counter++)
	OnNotified func()             // métricas
	OnError    func(string)       // métricas por fase
}

// RunCancellations consome o tópico bet_cancelled e notifica o estorno
func (w *Worker) RunCancellations(ctx context.Context, reader *kafka.Reader) error {
	return w.run(ctx, reader, "bet_cancelled", func(ctx context.Context, value []byte) error {
		var ev events.BetCancelled
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		return w.Store.Insert(ctx, ev.UserID, cancelMessage(ev.EventType, ev.RefundAmount))
	})
}

// RunSettlements consome o tópico event_settled e notifica os jackpots
func (w *Worker) RunSettlements(ctx context.Context, reader *kafka.Reader) error {
	return w.run(ctx, reader, "event_settled", func(ctx context.Context, value []byte) error {
		var ev events.EventSettled
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		for _, win := range ev.Winners {
			if win.PrizeAmount <= 0 {
				continue // pontos não geram notificação, só o jackpot
			}
			if err := w.Store.Insert(ctx, win.UserID, jackpotMessage(ev.EventType, win.PrizeAmount)); err != nil {
				return err
			}
		}
		return nil
	})
}

// run é o loop principal: lê do Kafka, processa e manda pra DLQ o que falhar
func (w *Worker) run(ctx context.Context, reader *kafka.Reader, topic string, handle func(context.Context, []byte) error) error {
	for {
		m, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			w.Log.Warn("kafka read failed", zap.String("topic", topic), zap.Error(err))
			if w.OnError != nil {
				w.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if w.OnConsumed != nil {
			w.OnConsumed(topic)
		}

		if err := handle(ctx, m.Value); err != nil {
			w.Log.Error("notification failed", zap.String("topic", topic), zap.Error(err))
			if w.OnError != nil {
				w.OnError("handle")
			}
			if w.DLQ != nil {
				_ = skafka.WriteJSON(ctx, w.DLQ, string(m.Key), m.Value)
			}
			continue
		}

		if w.OnNotified != nil {
			w.OnNotified()
		}
	}
}
