package mocks

import (
	"context"

	"tableside/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

// OrderRepository runs Update callbacks against the order returned by the
// expectation, so tests exercise the real mutation logic.
type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	register(&m.Mock, t)
	return m
}

func (_m *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	return _m.Called(ctx, order).Error(0)
}

func (_m *OrderRepository) Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	ret := _m.Called(ctx, id, fn)
	order := value[*domain.Order](ret, 0)
	if err := ret.Error(1); err != nil {
		return nil, err
	}
	working := order.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	return working, nil
}

func (_m *OrderRepository) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, status)
	return value[[]domain.Order](ret, 0), ret.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	register(&m.Mock, t)
	return m
}

func (_m *EventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	return _m.Called(ctx, event).Error(0)
}

type CodeGenerator struct {
	mock.Mock
}

func NewCodeGenerator(t testingT) *CodeGenerator {
	m := &CodeGenerator{}
	register(&m.Mock, t)
	return m
}

func (_m *CodeGenerator) Next() string {
	return _m.Called().String(0)
}
