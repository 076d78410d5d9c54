package storage

import (
	"context"
	"fmt"
	"time"

	"tableside/agg-svc/internal/domain"
	"tableside/stats"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Store keeps the daily aggregates in Redis. Every counter key expires after
// Retention.
type Store struct {
	Client    *redis.Client
	Keys      stats.Keys
	Retention time.Duration
}

func NewStore(client *redis.Client, prefix string, retention time.Duration) *Store {
	return &Store{
		Client:    client,
		Keys:      stats.Keys{Prefix: prefix},
		Retention: retention,
	}
}

// Claim marks the milestone of orderID as applied. It reports false when it
// was already claimed.
func (s *Store) Claim(ctx context.Context, orderID, milestone string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, s.Keys.Processed(orderID, milestone), 1, s.Retention).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s/%s: %w", orderID, milestone, err)
	}
	return ok, nil
}

// Release undoes a Claim so a redelivered event is applied again.
func (s *Store) Release(ctx context.Context, orderID, milestone string) error {
	return s.Client.Del(ctx, s.Keys.Processed(orderID, milestone)).Err()
}

func (s *Store) RecordPlaced(ctx context.Context, day string) error {
	return s.bump(ctx, day, stats.FieldPlaced)
}

func (s *Store) RecordCancelled(ctx context.Context, day string) error {
	return s.bump(ctx, day, stats.FieldCancelled)
}

// RecordServed adds a served order's revenue and dish units to day.
func (s *Store) RecordServed(ctx context.Context, day string, revenue decimal.Decimal, dishes []domain.DishCount) error {
	counters := s.Keys.Counters(day)
	dishKey := s.Keys.Dishes(day)
	cents := revenue.Shift(2).Round(0).IntPart()

	pipe := s.Client.TxPipeline()
	pipe.HIncrBy(ctx, counters, stats.FieldServed, 1)
	pipe.HIncrBy(ctx, counters, stats.FieldRevenueCents, cents)
	pipe.Expire(ctx, counters, s.Retention)
	for _, dish := range dishes {
		pipe.ZIncrBy(ctx, dishKey, float64(dish.Quantity), dish.DishID)
		if dish.Name != "" {
			pipe.HSet(ctx, s.Keys.DishNames(), dish.DishID, dish.Name)
		}
	}
	if len(dishes) > 0 {
		pipe.Expire(ctx, dishKey, s.Retention)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record served on %s: %w", day, err)
	}
	return nil
}

func (s *Store) bump(ctx context.Context, day, field string) error {
	counters := s.Keys.Counters(day)
	pipe := s.Client.TxPipeline()
	pipe.HIncrBy(ctx, counters, field, 1)
	pipe.Expire(ctx, counters, s.Retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record %s on %s: %w", field, day, err)
	}
	return nil
}
