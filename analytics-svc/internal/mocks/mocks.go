// Package mocks holds testify mocks for the analytics-svc interfaces.
package mocks

import (
	"context"

	"tableside/analytics-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t testingT) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) Summary(ctx context.Context, day string) (*domain.DailySummary, error) {
	ret := _m.Called(ctx, day)
	var summary *domain.DailySummary
	if v := ret.Get(0); v != nil {
		summary = v.(*domain.DailySummary)
	}
	return summary, ret.Error(1)
}

func (_m *StoreInterface) TopDishes(ctx context.Context, day string, limit int) ([]domain.DishStat, error) {
	ret := _m.Called(ctx, day, limit)
	var dishes []domain.DishStat
	if v := ret.Get(0); v != nil {
		dishes = v.([]domain.DishStat)
	}
	return dishes, ret.Error(1)
}

type AnalyticsInterface struct {
	mock.Mock
}

func NewAnalyticsInterface(t testingT) *AnalyticsInterface {
	m := &AnalyticsInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AnalyticsInterface) Summary(ctx context.Context, date string) (*domain.DailySummary, error) {
	ret := _m.Called(ctx, date)
	var summary *domain.DailySummary
	if v := ret.Get(0); v != nil {
		summary = v.(*domain.DailySummary)
	}
	return summary, ret.Error(1)
}

func (_m *AnalyticsInterface) TopDishes(ctx context.Context, date string, limit int) ([]domain.DishStat, error) {
	ret := _m.Called(ctx, date, limit)
	var dishes []domain.DishStat
	if v := ret.Get(0); v != nil {
		dishes = v.([]domain.DishStat)
	}
	return dishes, ret.Error(1)
}
