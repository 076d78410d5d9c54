package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDrink     Category = "drink"
	CategorySide      Category = "side"
	CategoryDessert   Category = "dessert"
)

// Categories lists the fixed menu categories in browsing order.
var Categories = []Category{CategoryAppetizer, CategoryMain, CategorySide, CategoryDrink, CategoryDessert}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// CategoryInfo is the admin-editable presentation of a fixed category.
type CategoryInfo struct {
	ID          Category `json:"id"`
	DisplayName string   `json:"display_name" validate:"required"`
	Icon        string   `json:"icon"`
}

type SpiceLevel string

const (
	SpiceMild       SpiceLevel = "mild"
	SpiceMedium     SpiceLevel = "medium"
	SpiceSpicy      SpiceLevel = "spicy"
	SpiceExtraSpicy SpiceLevel = "extra-spicy"
)

var spiceRank = map[SpiceLevel]int{
	SpiceMild:       1,
	SpiceMedium:     2,
	SpiceSpicy:      3,
	SpiceExtraSpicy: 4,
}

// Rank orders spice levels mild < medium < spicy < extra-spicy. Unknown
// levels rank 0.
func (s SpiceLevel) Rank() int {
	return spiceRank[s]
}

func (s SpiceLevel) Hotter(other SpiceLevel) bool {
	return s.Rank() > other.Rank()
}

type Style string

const (
	StyleDry   Style = "dry"
	StyleGravy Style = "gravy"
)

type Dish struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category" validate:"required,oneof=appetizer main side drink dessert"`
	ImageURL    string          `json:"image_url"`
	Dietary     []string        `json:"dietary"`
	SpiceLevel  *SpiceLevel     `json:"spice_level,omitempty" validate:"omitempty,oneof=mild medium spicy extra-spicy"`
	Style       *Style          `json:"style,omitempty" validate:"omitempty,oneof=dry gravy"`
	Ingredients []string        `json:"ingredients"`
	Allergens   []string        `json:"allergens"`
	Available   bool            `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Clone returns a deep copy; order items hold clones, never catalog entries.
func (d Dish) Clone() Dish {
	c := d
	c.Dietary = slices.Clone(d.Dietary)
	c.Ingredients = slices.Clone(d.Ingredients)
	c.Allergens = slices.Clone(d.Allergens)
	if d.SpiceLevel != nil {
		level := *d.SpiceLevel
		c.SpiceLevel = &level
	}
	if d.Style != nil {
		style := *d.Style
		c.Style = &style
	}
	return c
}

type OrderItem struct {
	ID        string     `json:"id"`
	Dish      Dish       `json:"dish"`
	Quantity  int        `json:"quantity"`
	Note      string     `json:"note,omitempty"`
	Status    ItemStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Dish.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	TableNumber  int         `json:"table_number"`
	CustomerName string      `json:"customer_name,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Items        []OrderItem `json:"items"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// StatusAt is when the order entered its current status.
	StatusAt time.Time `json:"status_at"`
}

// Total is recomputed from the items on every call.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) ItemsWithStatus(status ItemStatus) []OrderItem {
	var items []OrderItem
	for _, item := range o.Items {
		if item.Status == status {
			items = append(items, item)
		}
	}
	return items
}

func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

func (o *Order) Clone() *Order {
	c := *o
	c.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.Dish = item.Dish.Clone()
		c.Items[i] = item
	}
	return &c
}

type ReceiptLine struct {
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type Receipt struct {
	Code         string          `json:"code"`
	TableNumber  int             `json:"table_number"`
	CustomerName string          `json:"customer_name"`
	Lines        []ReceiptLine   `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxExact     decimal.Decimal `json:"tax_exact"`
	Tax          decimal.Decimal `json:"tax"`
	TotalExact   decimal.Decimal `json:"total_exact"`
	Total        decimal.Decimal `json:"total"`
}

// ReadyOrder is one entry of the waiter ready feed.
type ReadyOrder struct {
	Code        string    `json:"code"`
	OrderID     string    `json:"order_id"`
	TableNumber int       `json:"table_number"`
	ReadySince  time.Time `json:"ready_since"`
}
