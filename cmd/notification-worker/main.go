package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/radieske/f1-prediction-poc/internal/notification-worker/consumer"
	"github.com/radieske/f1-prediction-poc/internal/shared/config"
	"github.com/radieske/f1-prediction-poc/internal/shared/db"
	skafka "github.com/radieske/f1-prediction-poc/internal/shared/kafka"
	"github.com/radieske/f1-prediction-poc/internal/shared/logger"
	"github.com/radieske/f1-prediction-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("notification-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres para gravar as notificações dos usuários
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Kafka readers: estornos e liquidações (consumer group notification-worker)
	cancelledReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetCancelled, "notification-worker")
	defer cancelledReader.Close()
	settledReader := skafka.NewReader(cfg.KafkaBrokers, cfg.TopicEventSettled, "notification-worker")
	defer settledReader.Close()

	// DLQ pra mensagem que não deu pra processar
	dlqWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicNotificationsDLQ)
	defer dlqWriter.Close()

	// Métricas Prometheus para monitoramento do worker
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notif_messages_consumed_total", Help: "mensagens consumidas por tópico"}, []string{"topic"})
	notified := prometheus.NewCounter(prometheus.CounterOpts{Name: "notif_notifications_total", Help: "notificações gravadas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "notif_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, notified, errorsBy)

	w := &consumer.Worker{
		Log:        log,
		Store:      consumer.NewStore(pg),
		DLQ:        dlqWriter,
		OnConsumed: func(topic string) { consumed.WithLabelValues(topic).Inc() },
		OnNotified: func() { notified.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return pg.PingContext(ctx)
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("notification-worker started",
		zap.String("consume", cfg.TopicBetCancelled+","+cfg.TopicEventSettled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.RunCancellations(gctx, cancelledReader) })
	g.Go(func() error { return w.RunSettlements(gctx, settledReader) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatal("worker stopped with error", zap.Error(err))
	}
	log.Info("notification-worker stopped")
}
