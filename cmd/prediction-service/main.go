package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	pcache "github.com/radieske/f1-prediction-poc/internal/prediction-service/cache"
	phttp "github.com/radieske/f1-prediction-poc/internal/prediction-service/http"
	kpub "github.com/radieske/f1-prediction-poc/internal/prediction-service/producer"
	"github.com/radieske/f1-prediction-poc/internal/prediction-service/repo"
	sharedcache "github.com/radieske/f1-prediction-poc/internal/shared/cache"
	"github.com/radieske/f1-prediction-poc/internal/shared/config"
	"github.com/radieske/f1-prediction-poc/internal/shared/db"
	skafka "github.com/radieske/f1-prediction-poc/internal/shared/kafka"
	"github.com/radieske/f1-prediction-poc/internal/shared/logger"
	"github.com/radieske/f1-prediction-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("prediction-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	if err := db.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// Redis (read models: eventos e ranking)
	rdb, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writers (bet_placed e bet_cancelled)
	placedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	cancelledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetCancelled)
	defer cancelledWriter.Close()

	// deps
	ledger := repo.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(placedWriter, cancelledWriter)
	board := pcache.New(rdb)

	// Métricas de negócio do ledger
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "prediction_bets_placed_total", Help: "apostas aceitas"})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{Name: "prediction_bets_cancelled_total", Help: "apostas estornadas"})
	prometheus.MustRegister(placed, cancelled)

	// HTTP público
	api := phttp.NewServer(log, ledger, publ, board)
	api.OnPlaced = func() { placed.Inc() }
	api.OnCancelled = func() { cancelled.Inc() }
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

	log.Info("prediction-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
