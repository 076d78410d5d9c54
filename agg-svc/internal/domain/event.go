package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published by order-svc.
const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderItemsChanged  = "order_items_changed"
)

const (
	StatusServed    = "served"
	StatusCancelled = "cancelled"
)

// Milestones are the points in an order's life that move the aggregates.
const (
	MilestonePlaced    = "placed"
	MilestoneServed    = "served"
	MilestoneCancelled = "cancelled"
)

type EventItem struct {
	DishID   string          `json:"dish_id"`
	DishName string          `json:"dish_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// OrderEvent is the order-svc event payload as it appears on the topic.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	Code        string          `json:"code"`
	TableNumber int             `json:"table_number"`
	Status      string          `json:"status"`
	PrevStatus  string          `json:"prev_status,omitempty"`
	Items       []EventItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Milestone returns the milestone the event marks, or "" for events that do
// not feed the aggregates.
func (e OrderEvent) Milestone() string {
	switch {
	case e.Type == EventOrderPlaced:
		return MilestonePlaced
	case e.Type == EventOrderStatusChanged && e.Status == StatusServed:
		return MilestoneServed
	case e.Type == EventOrderStatusChanged && e.Status == StatusCancelled:
		return MilestoneCancelled
	}
	return ""
}

type DishCount struct {
	DishID   string
	Name     string
	Quantity int
}

// DishCounts folds the event's lines into one count per dish, in first-seen
// order.
func (e OrderEvent) DishCounts() []DishCount {
	index := make(map[string]int, len(e.Items))
	var counts []DishCount
	for _, item := range e.Items {
		if i, ok := index[item.DishID]; ok {
			counts[i].Quantity += item.Quantity
			continue
		}
		index[item.DishID] = len(counts)
		counts = append(counts, DishCount{DishID: item.DishID, Name: item.DishName, Quantity: item.Quantity})
	}
	return counts
}
