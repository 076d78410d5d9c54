package domain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// Cart holds one table session's selections, at most one entry per dish, in
// the order dishes were first added. The zero value is an empty cart.
type Cart struct {
	Session string     `json:"session"`
	Items   []CartItem `json:"items"`
}

func NewCart(session string) *Cart {
	return &Cart{Session: session}
}

func (c *Cart) AddItem(dish Dish) error {
	if !dish.Available {
		return fmt.Errorf("%w: %s", ErrUnavailableDish, dish.ID)
	}
	if idx := c.index(dish.ID); idx >= 0 {
		c.Items[idx].Quantity++
		return nil
	}
	c.Items = append(c.Items, CartItem{DishID: dish.ID, Quantity: 1})
	return nil
}

// RemoveItem decrements and deletes the entry at zero. Removing an absent
// dish is a no-op.
func (c *Cart) RemoveItem(dishID string) {
	idx := c.index(dishID)
	if idx < 0 {
		return
	}
	if c.Items[idx].Quantity > 1 {
		c.Items[idx].Quantity--
		return
	}
	c.Items = slices.Delete(c.Items, idx, idx+1)
}

func (c *Cart) SetNote(dishID, note string) error {
	idx := c.index(dishID)
	if idx < 0 {
		return fmt.Errorf("%w: dish %s not in cart", ErrItemNotFound, dishID)
	}
	c.Items[idx].Note = note
	return nil
}

func (c *Cart) Quantity(dishID string) int {
	if idx := c.index(dishID); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

func (c *Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice prices every entry at the dish's current price. Entries whose
// dish can no longer be resolved contribute nothing.
func (c *Cart) TotalPrice(lookup func(dishID string) (Dish, bool)) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		dish, ok := lookup(item.DishID)
		if !ok {
			continue
		}
		total = total.Add(dish.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) index(dishID string) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool { return item.DishID == dishID })
}

// CartLine is a cart entry priced against the current catalog.
type CartLine struct {
	DishID    string          `json:"dish_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
}

type CartView struct {
	Session   string          `json:"session"`
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}
