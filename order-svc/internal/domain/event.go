package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderItemsChanged  = "order_items_changed"
)

type EventItem struct {
	DishID   string          `json:"dish_id"`
	DishName string          `json:"dish_name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   ItemStatus      `json:"status"`
}

// OrderEvent is published on the order event stream after every change.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     string          `json:"order_id"`
	Code        string          `json:"code"`
	TableNumber int             `json:"table_number"`
	Status      OrderStatus     `json:"status"`
	PrevStatus  OrderStatus     `json:"prev_status,omitempty"`
	Items       []EventItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
}

func NewOrderEvent(eventType string, order *Order, prev OrderStatus, at time.Time) OrderEvent {
	items := make([]EventItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, EventItem{
			DishID:   item.Dish.ID,
			DishName: item.Dish.Name,
			Quantity: item.Quantity,
			Price:    item.Dish.Price,
			Status:   item.Status,
		})
	}
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		Code:        order.Code,
		TableNumber: order.TableNumber,
		Status:      order.Status,
		PrevStatus:  prev,
		Items:       items,
		Total:       order.Total(),
		Timestamp:   at,
	}
}
