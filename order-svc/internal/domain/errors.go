package domain

import "errors"

var (
	ErrUnavailableDish    = errors.New("dish is not available")
	ErrDishNotFound       = errors.New("dish not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrOrderNotFound      = errors.New("order not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrOrderClosed        = errors.New("order can no longer be modified")
	ErrNoNewItems         = errors.New("no new items to send")
	ErrCodeSpaceExhausted = errors.New("no free order code available")
	ErrCodeTaken          = errors.New("order code already in use by an active order")
	ErrValidation         = errors.New("validation failed")
)
