package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCodeAttempts = 10

var defaultTaxRate = decimal.RequireFromString("0.10")

type OrderOptions struct {
	CodeAttempts int
	TaxRate      *decimal.Decimal // nil means 10%; an explicit zero is tax free
	Clock        func() time.Time
}

type OrderService struct {
	repo      OrderRepository
	catalog   CatalogRepository
	codes     CodeGenerator
	publisher EventPublisher
	qrEncoder QRGenerator
	log       *zap.Logger

	codeAttempts int
	taxRate      decimal.Decimal
	now          func() time.Time
}

func NewOrderService(repo OrderRepository, catalog CatalogRepository, codes CodeGenerator,
	publisher EventPublisher, qr QRGenerator, log *zap.Logger, opts OrderOptions) *OrderService {
	if opts.CodeAttempts <= 0 {
		opts.CodeAttempts = defaultCodeAttempts
	}
	taxRate := defaultTaxRate
	if opts.TaxRate != nil {
		taxRate = *opts.TaxRate
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &OrderService{
		repo:         repo,
		catalog:      catalog,
		codes:        codes,
		publisher:    publisher,
		qrEncoder:    qr,
		log:          log,
		codeAttempts: opts.CodeAttempts,
		taxRate:      taxRate,
		now:          opts.Clock,
	}
}

// PlaceOrder assigns an id, a fresh code and pending status, then stores the
// order. Codes held by active orders are retried a bounded number of times.
func (s *OrderService) PlaceOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if len(order.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if order.TableNumber < 1 {
		return nil, fmt.Errorf("%w: table number must be at least 1", domain.ErrValidation)
	}

	now := s.now()
	order.ID = uuid.NewString()
	order.Status = domain.OrderPending
	order.CreatedAt = now
	order.UpdatedAt = now
	order.StatusAt = now

	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		order.Code = s.codes.Next()
		err := s.repo.Insert(ctx, order)
		if err == nil {
			s.log.Info("order_placed",
				zap.String("code", order.Code),
				zap.Int("table", order.TableNumber),
				zap.Int("items", order.ItemCount()))
			s.publish(ctx, domain.EventOrderPlaced, order, "")
			return order, nil
		}
		if !errors.Is(err, domain.ErrCodeTaken) {
			return nil, fmt.Errorf("place order: %w", err)
		}
		s.log.Debug("order_code_collision", zap.String("code", order.Code), zap.Int("attempt", attempt))
	}

	s.log.Warn("order_code_space_exhausted",
		zap.Int("attempts", s.codeAttempts),
		zap.Int("table", order.TableNumber))
	return nil, domain.ErrCodeSpaceExhausted
}

// FindByCode prefers the active order holding code and falls back to the most
// recent order that used it.
func (s *OrderService) FindByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.repo.FindByCode(ctx, normalizeCode(code))
}

// ListByStatus returns orders oldest first.
func (s *OrderService) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *OrderService) UpdateItemQuantity(ctx context.Context, code, dishID string, delta int) (*domain.Order, error) {
	return s.mutate(ctx, code, domain.EventOrderItemsChanged, func(o *domain.Order) error {
		return o.UpdateItemQuantity(dishID, delta, s.now())
	})
}

// AddItem snapshots the dish from the catalog and adds it as unsent.
func (s *OrderService) AddItem(ctx context.Context, code, dishID string, quantity int, note string) (*domain.Order, error) {
	dish, err := s.availableDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, code, domain.EventOrderItemsChanged, func(o *domain.Order) error {
		_, err := o.AddItem(*dish, quantity, note, uuid.NewString(), s.now())
		return err
	})
}

// SendAdditionalItems sends unsent lines to the kitchen. Orders that were
// ready or served go back to preparing, and that move is published as a
// status change.
func (s *OrderService) SendAdditionalItems(ctx context.Context, code string) (*domain.Order, error) {
	var from domain.OrderStatus
	updated, err := s.mutate(ctx, code, domain.EventOrderItemsChanged, func(o *domain.Order) error {
		from = o.Status
		sent, err := o.SendPendingItems(s.now())
		if err == nil {
			s.log.Debug("items_sent", zap.String("code", o.Code), zap.Int("lines", sent))
		}
		return err
	})
	if errors.Is(err, domain.ErrCodeTaken) {
		return nil, fmt.Errorf("%w: code %s was reissued before the order reopened", domain.ErrOrderClosed, normalizeCode(code))
	}
	if err != nil {
		return nil, err
	}

	if updated.Status != from {
		s.log.Info("order_reopened",
			zap.String("code", updated.Code),
			zap.String("from", string(from)),
			zap.String("to", string(updated.Status)))
		s.publish(ctx, domain.EventOrderStatusChanged, updated, from)
	}
	return updated, nil
}

func (s *OrderService) AdvanceStatus(ctx context.Context, code string, target domain.OrderStatus) (*domain.Order, error) {
	return s.mutate(ctx, code, domain.EventOrderStatusChanged, func(o *domain.Order) error {
		from := o.Status
		if err := o.Advance(target, s.now()); err != nil {
			return err
		}
		s.log.Debug("order_status_changed",
			zap.String("code", o.Code),
			zap.String("from", string(from)),
			zap.String("to", string(target)))
		return nil
	})
}

func (s *OrderService) Cancel(ctx context.Context, code string) (*domain.Order, error) {
	return s.AdvanceStatus(ctx, code, domain.OrderCancelled)
}

func (s *OrderService) Archive(ctx context.Context, code string) (*domain.Order, error) {
	return s.AdvanceStatus(ctx, code, domain.OrderArchived)
}

func (s *OrderService) AdvanceItemStatus(ctx context.Context, code, itemID string, target domain.ItemStatus) (*domain.Order, error) {
	return s.mutate(ctx, code, domain.EventOrderItemsChanged, func(o *domain.Order) error {
		return o.AdvanceItem(itemID, target, s.now())
	})
}

func (s *OrderService) SetNotes(ctx context.Context, code, notes string) (*domain.Order, error) {
	return s.mutate(ctx, code, domain.EventOrderItemsChanged, func(o *domain.Order) error {
		return o.SetNotes(strings.TrimSpace(notes), s.now())
	})
}

func (s *OrderService) ComputeTotal(ctx context.Context, code string) (decimal.Decimal, error) {
	order, err := s.FindByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return order.Total(), nil
}

func (s *OrderService) Receipt(ctx context.Context, code string) (*domain.Receipt, error) {
	order, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return GenerateReceipt(order, s.taxRate)
}

func (s *OrderService) QRCode(ctx context.Context, code string) ([]byte, error) {
	order, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(order.Code)
}

// ArchiveServed archives orders that have been served for longer than
// olderThan, releasing their codes for reuse. Orders that changed in the
// meantime are skipped.
func (s *OrderService) ArchiveServed(ctx context.Context, olderThan time.Duration) (int, error) {
	served, err := s.repo.ListByStatus(ctx, domain.OrderServed)
	if err != nil {
		return 0, fmt.Errorf("list served orders: %w", err)
	}

	cutoff := s.now().Add(-olderThan)
	archived := 0
	for _, order := range served {
		if order.StatusAt.After(cutoff) {
			continue
		}
		updated, err := s.repo.Update(ctx, order.ID, func(o *domain.Order) error {
			return o.Advance(domain.OrderArchived, s.now())
		})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			return archived, fmt.Errorf("archive order %s: %w", order.Code, err)
		}
		archived++
		s.publish(ctx, domain.EventOrderStatusChanged, updated, domain.OrderServed)
	}

	if archived > 0 {
		s.log.Info("served_orders_archived", zap.Int("count", archived))
	}
	return archived, nil
}

// mutate resolves code to an order and applies fn to it atomically.
func (s *OrderService) mutate(ctx context.Context, code, eventType string, fn func(*domain.Order) error) (*domain.Order, error) {
	current, err := s.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var prev domain.OrderStatus
	updated, err := s.repo.Update(ctx, current.ID, func(o *domain.Order) error {
		prev = o.Status
		return fn(o)
	})
	if err != nil {
		return nil, err
	}

	if eventType != domain.EventOrderStatusChanged {
		prev = ""
	}
	s.publish(ctx, eventType, updated, prev)
	return updated, nil
}

func (s *OrderService) availableDish(ctx context.Context, dishID string) (*domain.Dish, error) {
	dish, err := s.catalog.GetDish(ctx, dishID)
	if errors.Is(err, domain.ErrDishNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnavailableDish, dishID)
	}
	if err != nil {
		return nil, err
	}
	if !dish.Available {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnavailableDish, dishID)
	}
	return dish, nil
}

// publish is best effort; the order store stays authoritative.
func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order, prev domain.OrderStatus) {
	if s.publisher == nil {
		return
	}
	event := domain.NewOrderEvent(eventType, order, prev, s.now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("order_event_publish_failed",
			zap.String("type", eventType),
			zap.String("code", order.Code),
			zap.Error(err))
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
