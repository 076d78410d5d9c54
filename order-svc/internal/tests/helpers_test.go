package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tableside/order-svc/internal/domain"
	"tableside/order-svc/internal/service"
	"tableside/order-svc/internal/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type restaurant struct {
	catalogRepo *storage.MemoryCatalog
	orderRepo   *storage.MemoryOrders
	catalog     *service.CatalogService
	carts       *service.CartService
	orders      *service.OrderService
	feed        *service.ReadyFeed
	clock       *testClock
}

func newRestaurant(t *testing.T, codes service.CodeGenerator, publisher service.EventPublisher, log *zap.Logger) *restaurant {
	t.Helper()
	if codes == nil {
		codes = service.RandomCodeGenerator{}
	}
	if publisher == nil {
		publisher = storage.NoopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &restaurant{
		catalogRepo: storage.NewMemoryCatalog(),
		orderRepo:   storage.NewMemoryOrders(),
		clock:       newTestClock(),
	}
	r.catalog = service.NewCatalogService(r.catalogRepo, log)
	require.NoError(t, r.catalog.Seed(context.Background()))

	r.orders = service.NewOrderService(r.orderRepo, r.catalogRepo, codes, publisher,
		service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}, log,
		service.OrderOptions{CodeAttempts: 10, Clock: r.clock.Now})
	r.carts = service.NewCartService(storage.NewMemoryCarts(), r.catalogRepo, r.orders, log)
	r.feed = service.NewReadyFeed(r.orderRepo)
	return r
}

var sessionSeq atomic.Int64

// placeOrder finalizes a cart holding the given dishes for table.
func (r *restaurant) placeOrder(t *testing.T, table int, dishIDs ...string) *domain.Order {
	t.Helper()
	ctx := context.Background()
	session := fmt.Sprintf("session-%d", sessionSeq.Add(1))
	for _, id := range dishIDs {
		_, err := r.carts.AddItem(ctx, session, id)
		require.NoError(t, err)
	}
	order, err := r.carts.Finalize(ctx, session, table, "")
	require.NoError(t, err)
	return order
}

type sequenceCodes struct {
	mu    sync.Mutex
	codes []string
	next  int
}

// Next cycles through codes.
func (s *sequenceCodes) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.next%len(s.codes)]
	s.next++
	return code
}
