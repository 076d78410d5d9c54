package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"tableside/agg-svc/internal/service"
	"tableside/agg-svc/internal/storage"
	"tableside/config"
	"tableside/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPort = 8082

func newConsumer(cfg *config.Config, reader service.MessageReader, rdb *redis.Client, log *zap.Logger) *service.Consumer {
	store := storage.NewStore(rdb, cfg.Redis.Prefix, cfg.Stats.Retention)
	return service.NewConsumer(reader, store, cfg.Stats.Location(), log)
}

func main() {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		logger.Z().Fatal("load config", zap.Error(err))
	}
	log := logger.Init("agg-svc", cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka)
	defer reader.Close()

	log.Info("agg_svc_consuming",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID))

	if err := newConsumer(cfg, reader, rdb, log).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("consumer stopped", zap.Error(err))
	}
}
