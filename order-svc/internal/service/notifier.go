package service

import (
	"context"
	"slices"
	"time"

	"tableside/order-svc/internal/domain"

	"go.uber.org/zap"
)

// ReadyFeed reports the orders currently waiting at the pass. It is level
// triggered: every snapshot lists all ready orders, oldest first.
type ReadyFeed struct {
	orders OrderRepository
}

func NewReadyFeed(orders OrderRepository) *ReadyFeed {
	return &ReadyFeed{orders: orders}
}

func (f *ReadyFeed) Snapshot(ctx context.Context) ([]domain.ReadyOrder, error) {
	orders, err := f.orders.ListByStatus(ctx, domain.OrderReady)
	if err != nil {
		return nil, err
	}
	ready := make([]domain.ReadyOrder, 0, len(orders))
	for _, order := range orders {
		ready = append(ready, domain.ReadyOrder{
			Code:        order.Code,
			OrderID:     order.ID,
			TableNumber: order.TableNumber,
			ReadySince:  order.StatusAt,
		})
	}
	return ready, nil
}

type ReadySource interface {
	Snapshot(ctx context.Context) ([]domain.ReadyOrder, error)
}

// ReadyWatcher polls a ReadySource and calls Notify once for every order
// that becomes ready. Codes that leave the ready set are forgotten, so a
// reused code alerts again.
type ReadyWatcher struct {
	Source   ReadySource
	Interval time.Duration
	Notify   func(domain.ReadyOrder)
	Log      *zap.Logger

	seen map[string]bool
}

// Run polls until ctx is cancelled.
func (w *ReadyWatcher) Run(ctx context.Context) error {
	w.seen = make(map[string]bool)
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.poll(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *ReadyWatcher) poll(ctx context.Context) {
	ready, err := w.Source.Snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil && w.Log != nil {
			w.Log.Warn("ready_poll_failed", zap.Error(err))
		}
		return
	}

	current := make(map[string]bool, len(ready))
	for _, order := range ready {
		current[order.Code] = true
		if w.seen[order.Code] {
			continue
		}
		w.seen[order.Code] = true
		w.Notify(order)
	}
	for code := range w.seen {
		if !current[code] {
			delete(w.seen, code)
		}
	}
}

// NotificationService is the request/response form of the watcher: each
// waiter acknowledges ready orders explicitly.
type NotificationService struct {
	feed ReadySource
	acks AckStore
}

func NewNotificationService(feed ReadySource, acks AckStore) *NotificationService {
	return &NotificationService{feed: feed, acks: acks}
}

// Ready returns every ready order and the subset the waiter has not yet
// acknowledged. Acknowledgements for orders no longer ready are dropped.
func (s *NotificationService) Ready(ctx context.Context, waiter string) (ready, fresh []domain.ReadyOrder, err error) {
	ready, err = s.feed.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	acked, err := s.acks.Acked(ctx, waiter)
	if err != nil {
		return nil, nil, err
	}

	current := make(map[string]bool, len(ready))
	fresh = make([]domain.ReadyOrder, 0)
	for _, order := range ready {
		current[order.Code] = true
		if !slices.Contains(acked, order.Code) {
			fresh = append(fresh, order)
		}
	}

	var stale []string
	for _, code := range acked {
		if !current[code] {
			stale = append(stale, code)
		}
	}
	if len(stale) > 0 {
		if err := s.acks.Forget(ctx, waiter, stale...); err != nil {
			return nil, nil, err
		}
	}
	return ready, fresh, nil
}

func (s *NotificationService) Ack(ctx context.Context, waiter, code string) error {
	return s.acks.Ack(ctx, waiter, normalizeCode(code))
}
