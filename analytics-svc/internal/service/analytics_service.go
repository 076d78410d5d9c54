package service

import (
	"context"
	"fmt"
	"time"

	"tableside/analytics-svc/internal/domain"
	"tableside/stats"

	"github.com/shopspring/decimal"
)

const (
	DefaultTopDishes = 5
	MaxTopDishes     = 50
)

type AnalyticsService struct {
	store    StoreInterface
	location *time.Location
	now      func() time.Time
}

func NewAnalyticsService(store StoreInterface, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{store: store, location: loc, now: time.Now}
}

// WithClock replaces the clock used to resolve "today".
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Summary reports date's counters and the average value of its served
// orders. An empty date means today.
func (s *AnalyticsService) Summary(ctx context.Context, date string) (*domain.DailySummary, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Summary(ctx, day)
	if err != nil {
		return nil, err
	}
	summary.AverageOrderValue = decimal.Zero
	if summary.OrdersServed > 0 {
		summary.AverageOrderValue = summary.Revenue.Div(decimal.NewFromInt(summary.OrdersServed)).Round(2)
	}
	return summary, nil
}

// TopDishes ranks date's dishes by units served. A zero limit means
// DefaultTopDishes.
func (s *AnalyticsService) TopDishes(ctx context.Context, date string, limit int) ([]domain.DishStat, error) {
	day, err := s.resolveDay(date)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultTopDishes
	}
	if limit < 1 || limit > MaxTopDishes {
		return nil, fmt.Errorf("%w: %d is outside 1..%d", domain.ErrInvalidLimit, limit, MaxTopDishes)
	}
	return s.store.TopDishes(ctx, day, limit)
}

func (s *AnalyticsService) resolveDay(date string) (string, error) {
	if date == "" {
		return stats.Day(s.now(), s.location), nil
	}
	if _, err := stats.ParseDay(date); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
	}
	return date, nil
}
