package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartService struct {
	mu      sync.Mutex
	carts   CartStore
	catalog CatalogRepository
	orders  OrderPlacer
	log     *zap.Logger
	now     func() time.Time
}

func NewCartService(carts CartStore, catalog CatalogRepository, orders OrderPlacer, log *zap.Logger) *CartService {
	return &CartService{
		carts:   carts,
		catalog: catalog,
		orders:  orders,
		log:     log,
		now:     time.Now,
	}
}

func (s *CartService) Get(ctx context.Context, session string) (*domain.CartView, error) {
	cart, err := s.carts.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, session, dishID string) (*domain.CartView, error) {
	dish, err := s.catalog.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return s.modify(ctx, session, func(cart *domain.Cart) error {
		return cart.AddItem(*dish)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, session, dishID string) (*domain.CartView, error) {
	return s.modify(ctx, session, func(cart *domain.Cart) error {
		cart.RemoveItem(dishID)
		return nil
	})
}

func (s *CartService) SetNote(ctx context.Context, session, dishID, note string) (*domain.CartView, error) {
	return s.modify(ctx, session, func(cart *domain.Cart) error {
		return cart.SetNote(dishID, strings.TrimSpace(note))
	})
}

func (s *CartService) Reset(ctx context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts.Delete(ctx, session)
}

// Finalize turns the session's cart into a pending order priced at the
// current catalog. The cart is cleared only once the order is stored.
func (s *CartService) Finalize(ctx context.Context, session string, tableNumber int, customerName string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if tableNumber < 1 {
		return nil, fmt.Errorf("%w: table number must be at least 1", domain.ErrValidation)
	}

	now := s.now()
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, entry := range cart.Items {
		dish, err := s.catalog.GetDish(ctx, entry.DishID)
		if errors.Is(err, domain.ErrDishNotFound) {
			return nil, fmt.Errorf("%w: %s was removed from the menu", domain.ErrUnavailableDish, entry.DishID)
		}
		if err != nil {
			return nil, err
		}
		if !dish.Available {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnavailableDish, dish.Name)
		}
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			Dish:      dish.Clone(),
			Quantity:  entry.Quantity,
			Note:      entry.Note,
			Status:    domain.ItemPending,
			CreatedAt: now,
		})
	}

	order, err := s.orders.PlaceOrder(ctx, &domain.Order{
		TableNumber:  tableNumber,
		CustomerName: strings.TrimSpace(customerName),
		Items:        items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, session); err != nil {
		s.log.Warn("cart_clear_failed", zap.String("session", session), zap.Error(err))
	}
	return order, nil
}

func (s *CartService) modify(ctx context.Context, session string, fn func(*domain.Cart) error) (*domain.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Load(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*domain.CartView, error) {
	dishes := make(map[string]domain.Dish, len(cart.Items))
	for _, entry := range cart.Items {
		dish, err := s.catalog.GetDish(ctx, entry.DishID)
		if errors.Is(err, domain.ErrDishNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dishes[dish.ID] = *dish
	}
	lookup := func(id string) (domain.Dish, bool) {
		dish, ok := dishes[id]
		return dish, ok
	}

	lines := make([]domain.CartLine, 0, len(cart.Items))
	for _, entry := range cart.Items {
		line := domain.CartLine{DishID: entry.DishID, Quantity: entry.Quantity, Note: entry.Note, LineTotal: decimal.Zero}
		if dish, ok := lookup(entry.DishID); ok {
			line.Name = dish.Name
			line.UnitPrice = dish.Price
			line.LineTotal = dish.Price.Mul(decimal.NewFromInt(int64(entry.Quantity)))
			line.Available = dish.Available
		}
		lines = append(lines, line)
	}

	return &domain.CartView{
		Session:   cart.Session,
		Lines:     lines,
		ItemCount: cart.TotalItemCount(),
		Total:     cart.TotalPrice(lookup),
	}, nil
}
