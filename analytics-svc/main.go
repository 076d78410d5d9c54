package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpapi "tableside/analytics-svc/internal/api/http"
	"tableside/analytics-svc/internal/service"
	"tableside/analytics-svc/internal/storage"
	"tableside/config"
	"tableside/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPort = 8083

func newHandler(cfg *config.Config, rdb *redis.Client, log *zap.Logger) *httpapi.Handler {
	store := storage.NewStore(rdb, cfg.Redis.Prefix)
	svc := service.NewAnalyticsService(store, cfg.Stats.Location())
	return httpapi.NewHandler(svc, log)
}

func main() {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		logger.Z().Fatal("load config", zap.Error(err))
	}
	log := logger.Init("analytics-svc", cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	router := httpapi.NewRouter(newHandler(cfg, rdb, log), cfg.CORS.AllowedOrigins)
	if err := httpapi.StartServer(ctx, cfg.Server.Addr(), router, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
