package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	rcache "github.com/radieske/f1-prediction-poc/internal/results-service/cache"
	rhttp "github.com/radieske/f1-prediction-poc/internal/results-service/http"
	kpub "github.com/radieske/f1-prediction-poc/internal/results-service/producer"
	"github.com/radieske/f1-prediction-poc/internal/results-service/repo"
	sharedcache "github.com/radieske/f1-prediction-poc/internal/shared/cache"
	"github.com/radieske/f1-prediction-poc/internal/shared/config"
	"github.com/radieske/f1-prediction-poc/internal/shared/db"
	skafka "github.com/radieske/f1-prediction-poc/internal/shared/kafka"
	"github.com/radieske/f1-prediction-poc/internal/shared/logger"
	"github.com/radieske/f1-prediction-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("results-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres (transação de liquidação roda aqui)
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Redis (cache de resultados liquidados)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (event_settled)
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventSettled)
	defer settledWriter.Close()

	// deps
	settler := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(settledWriter)
	results := rcache.New(rdb)

	// Métrica de negócio da liquidação
	settledTotal := prometheus.NewCounter(prometheus.CounterOpts{Name: "results_events_settled_total", Help: "eventos liquidados"})
	prometheus.MustRegister(settledTotal)

	// HTTP administrativo
	api := rhttp.NewServer(log, settler, publ, results)
	api.OnSettled = func() { settledTotal.Inc() }
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("results-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
