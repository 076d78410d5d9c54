package domain

import "fmt"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
	OrderArchived  OrderStatus = "archived"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
	OrderServed:    {OrderArchived},
	OrderCancelled: {OrderArchived},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderServed, OrderCancelled, OrderArchived:
		return true
	}
	return false
}

// IsActive reports whether the order still holds its code.
func (s OrderStatus) IsActive() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady:
		return true
	}
	return false
}

// AcceptsItems reports whether new lines may still be added. A served order
// can take more items; sending them reopens it.
func (s OrderStatus) AcceptsItems() bool {
	return s.IsActive() || s == OrderServed
}

// CanTransitionTo reports whether target is a direct successor of s.
// Re-entering the same status is not a transition.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses that reserve an order code.
var ActiveStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderPreparing, OrderReady}

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemConfirmed ItemStatus = "confirmed"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
)

var itemRank = map[ItemStatus]int{
	ItemPending:   0,
	ItemConfirmed: 1,
	ItemPreparing: 2,
	ItemReady:     3,
	ItemServed:    4,
}

func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if _, ok := itemRank[status]; !ok {
		return "", fmt.Errorf("%w: unknown item status %q", ErrValidation, s)
	}
	return status, nil
}

func (s ItemStatus) Rank() int {
	return itemRank[s]
}

// itemStatusFor maps an order status to the status its in-kitchen items
// take when the order reaches it.
func itemStatusFor(s OrderStatus) (ItemStatus, bool) {
	switch s {
	case OrderConfirmed:
		return ItemConfirmed, true
	case OrderPreparing:
		return ItemPreparing, true
	case OrderReady:
		return ItemReady, true
	case OrderServed:
		return ItemServed, true
	}
	return "", false
}
