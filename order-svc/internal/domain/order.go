package domain

import (
	"fmt"
	"slices"
	"time"
)

// Advance moves the order to target. Items already in the kitchen follow the
// order; items still pending (added after confirmation and not yet sent) keep
// their status.
func (o *Order) Advance(target OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	closing := target == OrderServed || (target == OrderArchived && o.Status == OrderServed)
	if closing && len(o.ItemsWithStatus(ItemPending)) > 0 {
		return fmt.Errorf("%w: order %s has items not yet sent to the kitchen", ErrInvalidTransition, o.Code)
	}

	if itemTarget, ok := itemStatusFor(target); ok {
		for i := range o.Items {
			item := &o.Items[i]
			switch {
			case target == OrderConfirmed && item.Status == ItemPending:
				item.Status = ItemConfirmed
			case item.Status != ItemPending && item.Status.Rank() < itemTarget.Rank():
				item.Status = itemTarget
			}
		}
	}

	o.Status = target
	o.StatusAt = now
	o.UpdatedAt = now
	return nil
}

// AddItem merges into the newest line for the same dish while that line is
// still pending; otherwise it appends a new pending line. Served orders
// accept items too.
func (o *Order) AddItem(dish Dish, quantity int, note, itemID string, now time.Time) (OrderItem, error) {
	if !o.Status.AcceptsItems() {
		return OrderItem{}, fmt.Errorf("%w: order %s is %s", ErrOrderClosed, o.Code, o.Status)
	}
	if quantity < 1 {
		return OrderItem{}, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	if idx := o.lastLineFor(dish.ID); idx >= 0 && o.Items[idx].Status == ItemPending {
		o.Items[idx].Quantity += quantity
		if note != "" {
			o.Items[idx].Note = note
		}
		o.UpdatedAt = now
		return o.Items[idx], nil
	}

	item := OrderItem{
		ID:        itemID,
		Dish:      dish.Clone(),
		Quantity:  quantity,
		Note:      note,
		Status:    ItemPending,
		CreatedAt: now,
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = now
	return item, nil
}

// UpdateItemQuantity adjusts the newest line for dishID by delta and drops it
// at zero. The last remaining line cannot be dropped; cancel the order
// instead.
func (o *Order) UpdateItemQuantity(dishID string, delta int, now time.Time) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderClosed, o.Code, o.Status)
	}

	idx := o.lastLineFor(dishID)
	if idx < 0 {
		return fmt.Errorf("%w: dish %s in order %s", ErrItemNotFound, dishID, o.Code)
	}

	quantity := o.Items[idx].Quantity + delta
	if quantity <= 0 {
		if len(o.Items) == 1 {
			return fmt.Errorf("%w: removing %s would empty order %s", ErrEmptyOrder, dishID, o.Code)
		}
		o.Items = slices.Delete(o.Items, idx, idx+1)
	} else {
		o.Items[idx].Quantity = quantity
	}

	o.UpdatedAt = now
	return nil
}

// SendPendingItems hands items added after confirmation to the kitchen and
// returns how many lines were sent. A ready or served order goes back to
// preparing so the kitchen queue picks the new lines up; this is the one
// backward move the order makes.
func (o *Order) SendPendingItems(now time.Time) (int, error) {
	if !o.Status.AcceptsItems() {
		return 0, fmt.Errorf("%w: order %s is %s", ErrOrderClosed, o.Code, o.Status)
	}
	if o.Status == OrderPending {
		return 0, fmt.Errorf("%w: order %s must be confirmed first", ErrInvalidTransition, o.Code)
	}

	sent := 0
	for i := range o.Items {
		if o.Items[i].Status == ItemPending {
			o.Items[i].Status = ItemConfirmed
			sent++
		}
	}
	if sent == 0 {
		return 0, fmt.Errorf("%w: order %s", ErrNoNewItems, o.Code)
	}

	if o.Status == OrderReady || o.Status == OrderServed {
		o.Status = OrderPreparing
		o.StatusAt = now
	}
	o.UpdatedAt = now
	return sent, nil
}

// AdvanceItem moves a single kitchen line forward.
func (o *Order) AdvanceItem(itemID string, target ItemStatus, now time.Time) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderClosed, o.Code, o.Status)
	}

	idx := slices.IndexFunc(o.Items, func(item OrderItem) bool { return item.ID == itemID })
	if idx < 0 {
		return fmt.Errorf("%w: item %s in order %s", ErrItemNotFound, itemID, o.Code)
	}

	item := &o.Items[idx]
	if item.Status == ItemPending {
		return fmt.Errorf("%w: item %s has not been sent to the kitchen", ErrInvalidTransition, itemID)
	}
	if target.Rank() <= item.Status.Rank() {
		return fmt.Errorf("%w: item %s %s -> %s", ErrInvalidTransition, itemID, item.Status, target)
	}

	item.Status = target
	o.UpdatedAt = now
	return nil
}

func (o *Order) SetNotes(notes string, now time.Time) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: order %s is %s", ErrOrderClosed, o.Code, o.Status)
	}
	o.Notes = notes
	o.UpdatedAt = now
	return nil
}

func (o *Order) lastLineFor(dishID string) int {
	for i := len(o.Items) - 1; i >= 0; i-- {
		if o.Items[i].Dish.ID == dishID {
			return i
		}
	}
	return -1
}
