package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// CouponResult is a pre-validated discount.
type CouponResult struct {
	CouponID uint
	Discount decimal.Decimal
}

// CouponService validates and redeems discount coupons. Every validation
// failure surfaces as ErrInvalidCoupon without detailing the cause. Both
// calls run on the caller's transaction, so the usage-cap read and the
// redemption write belong to the same unit of work.
type CouponService interface {
	Validate(tx *gorm.DB, code, userID string, subtotal decimal.Decimal) (CouponResult, error)
	RegisterRedemption(tx *gorm.DB, couponID uint, userID string, orderID uint) error
}

// LoyaltyService accrues reward points. Called post-commit; failures are
// soft from the order engine's point of view.
type LoyaltyService interface {
	Accrue(ctx context.Context, userID string, points int64, reference string) error
}

// Notifier delivers customer-facing notifications. Every call is
// best-effort; the engine never fails an operation on a notifier error.
type Notifier interface {
	OrderConfirmed(order *models.Order) error
	StatusChanged(order *models.Order, status models.OrderStatus, message string) error
	ReadyForPickup(userID, orderNumber string) error
}

// MultiNotifier fans a notification out to every channel and reports the
// first error after trying all of them.
type MultiNotifier []Notifier

func (m MultiNotifier) OrderConfirmed(order *models.Order) error {
	var first error
	for _, n := range m {
		if err := n.OrderConfirmed(order); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiNotifier) StatusChanged(order *models.Order, status models.OrderStatus, message string) error {
	var first error
	for _, n := range m {
		if err := n.StatusChanged(order, status, message); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m MultiNotifier) ReadyForPickup(userID, orderNumber string) error {
	var first error
	for _, n := range m {
		if err := n.ReadyForPickup(userID, orderNumber); err != nil && first == nil {
			first = err
		}
	}
	return first
}
