package service

import (
	"fmt"

	"tableside/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

const guestName = "Guest"

// GenerateReceipt prices every line at its snapshot price. Tax and total are
// rounded half-up to cents; the unrounded values are kept alongside.
func GenerateReceipt(order *domain.Order, taxRate decimal.Decimal) (*domain.Receipt, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("%w: order %s", domain.ErrEmptyOrder, order.Code)
	}

	lines := make([]domain.ReceiptLine, 0, len(order.Items))
	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineTotal := item.LineTotal()
		lines = append(lines, domain.ReceiptLine{
			Quantity:  item.Quantity,
			Name:      item.Dish.Name,
			UnitPrice: item.Dish.Price,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	customer := order.CustomerName
	if customer == "" {
		customer = guestName
	}

	taxExact := subtotal.Mul(taxRate)
	totalExact := subtotal.Add(taxExact)
	return &domain.Receipt{
		Code:         order.Code,
		TableNumber:  order.TableNumber,
		CustomerName: customer,
		Lines:        lines,
		Subtotal:     subtotal,
		TaxRate:      taxRate,
		TaxExact:     taxExact,
		Tax:          taxExact.Round(2),
		TotalExact:   totalExact,
		Total:        totalExact.Round(2),
	}, nil
}
