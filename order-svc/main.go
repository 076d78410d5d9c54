package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableside/config"
	"tableside/logger"
	httpapi "tableside/order-svc/internal/api/http"
	"tableside/order-svc/internal/domain"
	"tableside/order-svc/internal/service"
	"tableside/order-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPort = 8081

type stores struct {
	catalog service.CatalogRepository
	orders  service.OrderRepository
	carts   service.CartStore
	acks    service.AckStore
}

// buildStores picks the repositories for the configured backends. db and rdb
// may be nil when the matching backend is disabled.
func buildStores(cfg *config.Config, db *sql.DB, rdb *redis.Client) stores {
	var s stores
	if cfg.Storage.Driver == "postgres" && db != nil {
		repo := storage.NewPostgresRepository(db)
		s.catalog, s.orders = repo, repo
	} else {
		s.catalog, s.orders = storage.NewMemoryCatalog(), storage.NewMemoryOrders()
	}

	if rdb != nil {
		s.carts = storage.NewRedisCarts(rdb, cfg.Redis.Prefix, cfg.Redis.TTL)
		s.acks = storage.NewRedisAcks(rdb, cfg.Redis.Prefix, cfg.Redis.TTL)
	} else {
		s.carts, s.acks = storage.NewMemoryCarts(), storage.NewMemoryAcks()
	}
	return s
}

func sweepServed(ctx context.Context, orders *service.OrderService, every, after time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := orders.ArchiveServed(ctx, after); err != nil && ctx.Err() == nil {
				log.Warn("archive_sweep_failed", zap.Error(err))
			}
		}
	}
}

func main() {
	cfg, err := config.Load(defaultPort)
	if err != nil {
		logger.Z().Fatal("load config", zap.Error(err))
	}
	log := logger.Init("order-svc", cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Storage.Driver == "postgres" {
		db = config.MustInitPostgres(cfg.Postgres)
		defer db.Close()
		if err := storage.NewPostgresRepository(db).EnsureSchema(ctx); err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = config.MustInitRedis(cfg.Redis)
		defer rdb.Close()
	}

	var publisher service.EventPublisher = storage.NoopPublisher{}
	if cfg.Kafka.Enabled {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	taxRate, err := decimal.NewFromString(cfg.Order.TaxRate)
	if err != nil {
		log.Fatal("invalid order.tax_rate", zap.String("value", cfg.Order.TaxRate), zap.Error(err))
	}

	st := buildStores(cfg, db, rdb)

	catalogSvc := service.NewCatalogService(st.catalog, log)
	if cfg.Order.SeedMenu {
		if err := catalogSvc.Seed(ctx); err != nil {
			log.Fatal("seed catalog", zap.Error(err))
		}
	}

	orderSvc := service.NewOrderService(st.orders, st.catalog, service.RandomCodeGenerator{}, publisher,
		service.DefaultQRGenerator{BaseURL: cfg.Order.QRBaseURL}, log,
		service.OrderOptions{CodeAttempts: cfg.Order.CodeAttempts, TaxRate: &taxRate})
	cartSvc := service.NewCartService(st.carts, st.catalog, orderSvc, log)
	feed := service.NewReadyFeed(st.orders)
	notifySvc := service.NewNotificationService(feed, st.acks)

	go sweepServed(ctx, orderSvc, cfg.Order.SweepEvery, cfg.Order.ArchiveAfter, log)

	pass := &service.ReadyWatcher{
		Source:   feed,
		Interval: cfg.Notify.PollInterval,
		Log:      log,
		Notify: func(order domain.ReadyOrder) {
			log.Info("order_ready", zap.String("code", order.Code), zap.Int("table", order.TableNumber))
		},
	}
	go pass.Run(ctx)

	handler := httpapi.NewHandler(catalogSvc, cartSvc, orderSvc, notifySvc, log)
	router := httpapi.NewRouter(handler, cfg.CORS.AllowedOrigins)
	if err := httpapi.StartServer(ctx, cfg.Server.Addr(), router, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
