package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"tableside/agg-svc/internal/domain"
	"tableside/agg-svc/internal/mocks"
	"tableside/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v, defaultPort)
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return &cfg
}

func encode(t *testing.T, event domain.OrderEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	return kafka.Message{Key: []byte(event.OrderID), Value: payload}
}

// TestConsumer_EndToEnd replays one order's events, including a redelivered
// served event, into miniredis.
func TestConsumer_EndToEnd(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	at := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	items := []domain.EventItem{{DishID: "main-2", DishName: "Chicken Tikka Masala", Quantity: 2}}
	placed := domain.OrderEvent{Type: domain.EventOrderPlaced, OrderID: "o-1", Status: "pending", Items: items,
		Total: decimal.RequireFromString("37.98"), Timestamp: at}
	ready := domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-1", Status: "ready", Items: items,
		Total: decimal.RequireFromString("37.98"), Timestamp: at.Add(20 * time.Minute)}
	served := domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "o-1", Status: "served", Items: items,
		Total: decimal.RequireFromString("37.98"), Timestamp: at.Add(25 * time.Minute)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &mocks.MessageReader{
		Messages: []kafka.Message{encode(t, placed), encode(t, ready), encode(t, served), encode(t, served)},
		Drained:  cancel,
	}

	consumer := newConsumer(testConfig(t), reader, rdb, zap.NewNop())
	if err := consumer.Start(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(reader.Committed) != 4 {
		t.Fatalf("committed %d messages, want 4", len(reader.Committed))
	}

	counters := "tableside:stats:2026-03-14"
	if got := mr.HGet(counters, "placed"); got != "1" {
		t.Fatalf("placed = %q, want 1", got)
	}
	if got := mr.HGet(counters, "served"); got != "1" {
		t.Fatalf("served = %q, want 1", got)
	}
	if got := mr.HGet(counters, "revenue_cents"); got != "3798" {
		t.Fatalf("revenue_cents = %q, want 3798", got)
	}
	score, err := mr.ZScore(counters+":dishes", "main-2")
	if err != nil || score != 2 {
		t.Fatalf("main-2 score = %v (%v), want 2", score, err)
	}
}
