package storage

import (
	"context"
	"fmt"
	"strconv"

	"tableside/analytics-svc/internal/domain"
	"tableside/stats"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Store reads the aggregates agg-svc maintains.
type Store struct {
	Client *redis.Client
	Keys   stats.Keys
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{Client: client, Keys: stats.Keys{Prefix: prefix}}
}

// Summary returns the raw counters for day; a day with no activity is all
// zeros.
func (s *Store) Summary(ctx context.Context, day string) (*domain.DailySummary, error) {
	fields, err := s.Client.HGetAll(ctx, s.Keys.Counters(day)).Result()
	if err != nil {
		return nil, fmt.Errorf("load counters for %s: %w", day, err)
	}

	counter := func(name string) (int64, error) {
		raw, ok := fields[name]
		if !ok {
			return 0, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("counter %s for %s: %w", name, day, err)
		}
		return n, nil
	}

	summary := &domain.DailySummary{Date: day}
	if summary.OrdersPlaced, err = counter(stats.FieldPlaced); err != nil {
		return nil, err
	}
	if summary.OrdersServed, err = counter(stats.FieldServed); err != nil {
		return nil, err
	}
	if summary.OrdersCancelled, err = counter(stats.FieldCancelled); err != nil {
		return nil, err
	}
	cents, err := counter(stats.FieldRevenueCents)
	if err != nil {
		return nil, err
	}
	summary.Revenue = decimal.New(cents, -2)
	return summary, nil
}

// TopDishes returns up to limit dishes by units served on day.
func (s *Store) TopDishes(ctx context.Context, day string, limit int) ([]domain.DishStat, error) {
	ranked, err := s.Client.ZRevRangeWithScores(ctx, s.Keys.Dishes(day), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("rank dishes for %s: %w", day, err)
	}
	if len(ranked) == 0 {
		return []domain.DishStat{}, nil
	}

	ids := make([]string, len(ranked))
	for i, z := range ranked {
		ids[i] = z.Member.(string)
	}
	names, err := s.Client.HMGet(ctx, s.Keys.DishNames(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load dish names: %w", err)
	}

	dishes := make([]domain.DishStat, len(ranked))
	for i, z := range ranked {
		dishes[i] = domain.DishStat{DishID: ids[i], Quantity: int64(z.Score)}
		if name, ok := names[i].(string); ok {
			dishes[i].Name = name
		}
	}
	return dishes, nil
}
