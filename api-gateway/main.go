package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableside/api-gateway/internal/gateway"
	"tableside/config"
	"tableside/logger"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

const defaultPort = 8080

func newHandler(cfg *config.Config, client gateway.HTTPClient, log *zap.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:     cfg.Services.OrderSvcURL,
		AnalyticsSvcURL: cfg.Services.AnalyticsSvcURL,
	}, client, log)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(gw.SetupRoutes())
}

func main() {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		logger.Z().Fatal("load config", zap.Error(err))
	}
	log := logger.Init("api-gateway", cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newHandler(cfg, &http.Client{Timeout: 15 * time.Second}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("api_gateway_listening",
		zap.String("addr", srv.Addr),
		zap.String("order_svc", cfg.Services.OrderSvcURL),
		zap.String("analytics_svc", cfg.Services.AnalyticsSvcURL))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}
