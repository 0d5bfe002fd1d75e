package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the order engine. Handlers match on these with
// errors.Is / errors.As to pick a response status.
var (
	ErrNotFound               = errors.New("not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrAddressRequired        = errors.New("no delivery or pickup address could be resolved")
	ErrInvalidCoupon          = errors.New("coupon not valid")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrIllegalStateTransition = errors.New("illegal order status transition")
	ErrConcurrencyConflict    = errors.New("order was modified concurrently")
)

// InsufficientStockError names the offending product so checkout failures
// can tell the caller which line could not be covered.
type InsufficientStockError struct {
	ProductName string
	SKU         string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): requested %d, available %d",
		e.ProductName, e.SKU, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ValidationError flags bad input shape.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
