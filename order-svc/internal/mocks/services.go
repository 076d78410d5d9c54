package mocks

import (
	"context"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type CatalogServiceInterface struct {
	mock.Mock
}

func NewCatalogServiceInterface(t testingT) *CatalogServiceInterface {
	m := &CatalogServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *CatalogServiceInterface) ListDishes(ctx context.Context, category *domain.Category) ([]domain.Dish, error) {
	ret := _m.Called(ctx, category)
	return value[[]domain.Dish](ret, 0), ret.Error(1)
}

func (_m *CatalogServiceInterface) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	ret := _m.Called(ctx, id)
	return value[*domain.Dish](ret, 0), ret.Error(1)
}

func (_m *CatalogServiceInterface) UpsertDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	ret := _m.Called(ctx, dish)
	return value[*domain.Dish](ret, 0), ret.Error(1)
}

func (_m *CatalogServiceInterface) SetAvailability(ctx context.Context, id string, available bool) error {
	return _m.Called(ctx, id, available).Error(0)
}

func (_m *CatalogServiceInterface) RemoveDish(ctx context.Context, id string) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *CatalogServiceInterface) ListCategories(ctx context.Context) ([]domain.CategoryInfo, error) {
	ret := _m.Called(ctx)
	return value[[]domain.CategoryInfo](ret, 0), ret.Error(1)
}

func (_m *CatalogServiceInterface) UpdateCategory(ctx context.Context, id domain.Category, displayName, icon string) (*domain.CategoryInfo, error) {
	ret := _m.Called(ctx, id, displayName, icon)
	return value[*domain.CategoryInfo](ret, 0), ret.Error(1)
}

type CartServiceInterface struct {
	mock.Mock
}

func NewCartServiceInterface(t testingT) *CartServiceInterface {
	m := &CartServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *CartServiceInterface) Get(ctx context.Context, session string) (*domain.CartView, error) {
	ret := _m.Called(ctx, session)
	return value[*domain.CartView](ret, 0), ret.Error(1)
}

func (_m *CartServiceInterface) AddItem(ctx context.Context, session, dishID string) (*domain.CartView, error) {
	ret := _m.Called(ctx, session, dishID)
	return value[*domain.CartView](ret, 0), ret.Error(1)
}

func (_m *CartServiceInterface) RemoveItem(ctx context.Context, session, dishID string) (*domain.CartView, error) {
	ret := _m.Called(ctx, session, dishID)
	return value[*domain.CartView](ret, 0), ret.Error(1)
}

func (_m *CartServiceInterface) SetNote(ctx context.Context, session, dishID, note string) (*domain.CartView, error) {
	ret := _m.Called(ctx, session, dishID, note)
	return value[*domain.CartView](ret, 0), ret.Error(1)
}

func (_m *CartServiceInterface) Reset(ctx context.Context, session string) error {
	return _m.Called(ctx, session).Error(0)
}

func (_m *CartServiceInterface) Finalize(ctx context.Context, session string, tableNumber int, customerName string) (*domain.Order, error) {
	ret := _m.Called(ctx, session, tableNumber, customerName)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t testingT) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *OrderServiceInterface) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ret := _m.Called(ctx, order)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, status)
	return value[[]domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) UpdateItemQuantity(ctx context.Context, code, dishID string, delta int) (*domain.Order, error) {
	ret := _m.Called(ctx, code, dishID, delta)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) AddItem(ctx context.Context, code, dishID string, quantity int, note string) (*domain.Order, error) {
	ret := _m.Called(ctx, code, dishID, quantity, note)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) SendAdditionalItems(ctx context.Context, code string) (*domain.Order, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) AdvanceStatus(ctx context.Context, code string, target domain.OrderStatus) (*domain.Order, error) {
	ret := _m.Called(ctx, code, target)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) Cancel(ctx context.Context, code string) (*domain.Order, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) Archive(ctx context.Context, code string) (*domain.Order, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) AdvanceItemStatus(ctx context.Context, code, itemID string, target domain.ItemStatus) (*domain.Order, error) {
	ret := _m.Called(ctx, code, itemID, target)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) SetNotes(ctx context.Context, code, notes string) (*domain.Order, error) {
	ret := _m.Called(ctx, code, notes)
	return value[*domain.Order](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) ComputeTotal(ctx context.Context, code string) (decimal.Decimal, error) {
	ret := _m.Called(ctx, code)
	return value[decimal.Decimal](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) Receipt(ctx context.Context, code string) (*domain.Receipt, error) {
	ret := _m.Called(ctx, code)
	return value[*domain.Receipt](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) QRCode(ctx context.Context, code string) ([]byte, error) {
	ret := _m.Called(ctx, code)
	return value[[]byte](ret, 0), ret.Error(1)
}

func (_m *OrderServiceInterface) ArchiveServed(ctx context.Context, olderThan time.Duration) (int, error) {
	ret := _m.Called(ctx, olderThan)
	return ret.Int(0), ret.Error(1)
}

type NotificationServiceInterface struct {
	mock.Mock
}

func NewNotificationServiceInterface(t testingT) *NotificationServiceInterface {
	m := &NotificationServiceInterface{}
	register(&m.Mock, t)
	return m
}

func (_m *NotificationServiceInterface) Ready(ctx context.Context, waiter string) ([]domain.ReadyOrder, []domain.ReadyOrder, error) {
	ret := _m.Called(ctx, waiter)
	return value[[]domain.ReadyOrder](ret, 0), value[[]domain.ReadyOrder](ret, 1), ret.Error(2)
}

func (_m *NotificationServiceInterface) Ack(ctx context.Context, waiter, code string) error {
	return _m.Called(ctx, waiter, code).Error(0)
}
