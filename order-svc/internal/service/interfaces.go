package service

import (
	"context"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type CatalogRepository interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	UpsertDish(ctx context.Context, dish *domain.Dish) error
	DeleteDish(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.CategoryInfo, error)
	UpsertCategory(ctx context.Context, info domain.CategoryInfo) error
}

// OrderRepository stores orders. Insert fails with domain.ErrCodeTaken when
// another active order holds the code. Update runs fn on a private copy of
// the order under a per-order lock and persists it only when fn succeeds.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error)
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

type CartStore interface {
	Load(ctx context.Context, session string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, session string) error
}

// AckStore remembers which ready codes each waiter has acknowledged.
type AckStore interface {
	Acked(ctx context.Context, waiter string) ([]string, error)
	Ack(ctx context.Context, waiter, code string) error
	Forget(ctx context.Context, waiter string, codes ...string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}

type CodeGenerator interface {
	Next() string
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

type CatalogServiceInterface interface {
	ListDishes(ctx context.Context, category *domain.Category) ([]domain.Dish, error)
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	UpsertDish(ctx context.Context, dish *domain.Dish) (*domain.Dish, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	RemoveDish(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.CategoryInfo, error)
	UpdateCategory(ctx context.Context, id domain.Category, displayName, icon string) (*domain.CategoryInfo, error)
}

type CartServiceInterface interface {
	Get(ctx context.Context, session string) (*domain.CartView, error)
	AddItem(ctx context.Context, session, dishID string) (*domain.CartView, error)
	RemoveItem(ctx context.Context, session, dishID string) (*domain.CartView, error)
	SetNote(ctx context.Context, session, dishID, note string) (*domain.CartView, error)
	Reset(ctx context.Context, session string) error
	Finalize(ctx context.Context, session string, tableNumber int, customerName string) (*domain.Order, error)
}

type OrderServiceInterface interface {
	OrderPlacer
	FindByCode(ctx context.Context, code string) (*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateItemQuantity(ctx context.Context, code, dishID string, delta int) (*domain.Order, error)
	AddItem(ctx context.Context, code, dishID string, quantity int, note string) (*domain.Order, error)
	SendAdditionalItems(ctx context.Context, code string) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, code string, target domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, code string) (*domain.Order, error)
	Archive(ctx context.Context, code string) (*domain.Order, error)
	AdvanceItemStatus(ctx context.Context, code, itemID string, target domain.ItemStatus) (*domain.Order, error)
	SetNotes(ctx context.Context, code, notes string) (*domain.Order, error)
	ComputeTotal(ctx context.Context, code string) (decimal.Decimal, error)
	Receipt(ctx context.Context, code string) (*domain.Receipt, error)
	QRCode(ctx context.Context, code string) ([]byte, error)
	ArchiveServed(ctx context.Context, olderThan time.Duration) (int, error)
}

type NotificationServiceInterface interface {
	Ready(ctx context.Context, waiter string) (ready, fresh []domain.ReadyOrder, err error)
	Ack(ctx context.Context, waiter, code string) error
}

var (
	_ CatalogServiceInterface      = (*CatalogService)(nil)
	_ CartServiceInterface         = (*CartService)(nil)
	_ OrderServiceInterface        = (*OrderService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
)
