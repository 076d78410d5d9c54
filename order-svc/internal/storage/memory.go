package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"tableside/order-svc/internal/domain"
)

// MemoryCatalog keeps dishes in insertion order.
type MemoryCatalog struct {
	mu         sync.RWMutex
	dishes     map[string]domain.Dish
	ids        []string
	categories map[domain.Category]domain.CategoryInfo
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		dishes:     make(map[string]domain.Dish),
		categories: make(map[domain.Category]domain.CategoryInfo),
	}
}

func (c *MemoryCatalog) ListDishes(_ context.Context) ([]domain.Dish, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dishes := make([]domain.Dish, 0, len(c.ids))
	for _, id := range c.ids {
		dishes = append(dishes, c.dishes[id].Clone())
	}
	return dishes, nil
}

func (c *MemoryCatalog) GetDish(_ context.Context, id string) (*domain.Dish, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	dish, ok := c.dishes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDishNotFound, id)
	}
	clone := dish.Clone()
	return &clone, nil
}

func (c *MemoryCatalog) UpsertDish(_ context.Context, dish *domain.Dish) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.dishes[dish.ID]; !ok {
		c.ids = append(c.ids, dish.ID)
	}
	c.dishes[dish.ID] = dish.Clone()
	return nil
}

func (c *MemoryCatalog) DeleteDish(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.dishes[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrDishNotFound, id)
	}
	delete(c.dishes, id)
	c.ids = slices.DeleteFunc(c.ids, func(existing string) bool { return existing == id })
	return nil
}

func (c *MemoryCatalog) ListCategories(_ context.Context) ([]domain.CategoryInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]domain.CategoryInfo, 0, len(c.categories))
	for _, id := range domain.Categories {
		if info, ok := c.categories[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func (c *MemoryCatalog) UpsertCategory(_ context.Context, info domain.CategoryInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories[info.ID] = info
	return nil
}

type orderEntry struct {
	mu    sync.Mutex
	order *domain.Order
}

// MemoryOrders stores orders in placement order. Each order has its own
// lock; the index lock is never held while an order lock is taken.
type MemoryOrders struct {
	mu      sync.RWMutex
	entries map[string]*orderEntry
	ids     []string
	active  map[string]string   // code -> id of the active order holding it
	byCode  map[string][]string // code -> ids, oldest first
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{
		entries: make(map[string]*orderEntry),
		active:  make(map[string]string),
		byCode:  make(map[string][]string),
	}
}

func (s *MemoryOrders) Insert(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.active[order.Code]; taken && order.IsActive() {
		return fmt.Errorf("%w: %s", domain.ErrCodeTaken, order.Code)
	}
	s.entries[order.ID] = &orderEntry{order: order.Clone()}
	s.ids = append(s.ids, order.ID)
	s.byCode[order.Code] = append(s.byCode[order.Code], order.ID)
	if order.IsActive() {
		s.active[order.Code] = order.ID
	}
	return nil
}

func (s *MemoryOrders) Update(_ context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.order.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	switch wasActive := entry.order.IsActive(); {
	case wasActive && !working.IsActive():
		s.mu.Lock()
		if s.active[working.Code] == id {
			delete(s.active, working.Code)
		}
		s.mu.Unlock()
	case !wasActive && working.IsActive():
		s.mu.Lock()
		if holder, taken := s.active[working.Code]; taken && holder != id {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", domain.ErrCodeTaken, working.Code)
		}
		s.active[working.Code] = id
		s.mu.Unlock()
	}
	entry.order = working
	return working.Clone(), nil
}

func (s *MemoryOrders) FindByCode(_ context.Context, code string) (*domain.Order, error) {
	s.mu.RLock()
	id, ok := s.active[code]
	if !ok {
		if ids := s.byCode[code]; len(ids) > 0 {
			id, ok = ids[len(ids)-1], true
		}
	}
	entry := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, code)
	}
	return entry.snapshot(), nil
}

func (s *MemoryOrders) ListByStatus(_ context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	s.mu.RLock()
	entries := make([]*orderEntry, 0, len(s.ids))
	for _, id := range s.ids {
		entries = append(entries, s.entries[id])
	}
	s.mu.RUnlock()

	var orders []domain.Order
	for _, entry := range entries {
		order := entry.snapshot()
		if order.Status == status {
			orders = append(orders, *order)
		}
	}
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return orders, nil
}

func (e *orderEntry) snapshot() *domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Clone()
}

type MemoryCarts struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{carts: make(map[string]domain.Cart)}
}

// Load returns an empty cart for unknown sessions.
func (s *MemoryCarts) Load(_ context.Context, session string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[session]
	if !ok {
		return domain.NewCart(session), nil
	}
	return &domain.Cart{Session: session, Items: slices.Clone(cart.Items)}, nil
}

func (s *MemoryCarts) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cart.IsEmpty() {
		delete(s.carts, cart.Session)
		return nil
	}
	s.carts[cart.Session] = domain.Cart{Session: cart.Session, Items: slices.Clone(cart.Items)}
	return nil
}

func (s *MemoryCarts) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}

type MemoryAcks struct {
	mu    sync.Mutex
	acked map[string]map[string]bool
}

func NewMemoryAcks() *MemoryAcks {
	return &MemoryAcks{acked: make(map[string]map[string]bool)}
}

func (s *MemoryAcks) Acked(_ context.Context, waiter string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := make([]string, 0, len(s.acked[waiter]))
	for code := range s.acked[waiter] {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes, nil
}

func (s *MemoryAcks) Ack(_ context.Context, waiter, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.acked[waiter] == nil {
		s.acked[waiter] = make(map[string]bool)
	}
	s.acked[waiter][code] = true
	return nil
}

func (s *MemoryAcks) Forget(_ context.Context, waiter string, codes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, code := range codes {
		delete(s.acked[waiter], code)
	}
	return nil
}
