package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidLimit = errors.New("invalid limit")
)

// DailySummary is the admin dashboard view of one day. Revenue counts served
// orders only.
type DailySummary struct {
	Date              string          `json:"date"`
	OrdersPlaced      int64           `json:"orders_placed"`
	OrdersServed      int64           `json:"orders_served"`
	OrdersCancelled   int64           `json:"orders_cancelled"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type DishStat struct {
	DishID   string `json:"dish_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}
