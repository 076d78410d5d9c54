package service

import (
	"context"

	"tableside/analytics-svc/internal/domain"
	"tableside/analytics-svc/internal/storage"
)

type StoreInterface interface {
	Summary(ctx context.Context, day string) (*domain.DailySummary, error)
	TopDishes(ctx context.Context, day string, limit int) ([]domain.DishStat, error)
}

type AnalyticsInterface interface {
	Summary(ctx context.Context, date string) (*domain.DailySummary, error)
	TopDishes(ctx context.Context, date string, limit int) ([]domain.DishStat, error)
}

var (
	_ StoreInterface     = (*storage.Store)(nil)
	_ AnalyticsInterface = (*AnalyticsService)(nil)
)
