package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

type couponService struct {
	now func() time.Time
}

// NewCouponService returns the database-backed coupon collaborator. It
// holds no connection of its own; every call runs on the transaction the
// caller passes in.
func NewCouponService() CouponService {
	return &couponService{now: time.Now}
}

// Validate checks the code against its window, caps and minimum subtotal
// and returns the discount amount. Queries run through tx, so the usage
// counts it reads are consistent with redemptions written earlier in the
// same transaction. Any failure comes back as the generic ErrInvalidCoupon
// so callers cannot probe other users' redemption counts or expiry
// internals.
func (s *couponService) Validate(tx *gorm.DB, code, userID string, subtotal decimal.Decimal) (CouponResult, error) {
	var coupon models.Coupon
	if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CouponResult{}, ErrInvalidCoupon
		}
		return CouponResult{}, err
	}

	now := s.now()
	if !coupon.Active {
		return CouponResult{}, ErrInvalidCoupon
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return CouponResult{}, ErrInvalidCoupon
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return CouponResult{}, ErrInvalidCoupon
	}
	if subtotal.LessThan(coupon.MinSubtotal) {
		return CouponResult{}, ErrInvalidCoupon
	}

	if coupon.MaxUses > 0 {
		var used int64
		if err := tx.Model(&models.CouponRedemption{}).
			Where("coupon_id = ?", coupon.ID).Count(&used).Error; err != nil {
			return CouponResult{}, err
		}
		if used >= int64(coupon.MaxUses) {
			return CouponResult{}, ErrInvalidCoupon
		}
	}
	if coupon.MaxUsesPerUser > 0 && userID != "" {
		var used int64
		if err := tx.Model(&models.CouponRedemption{}).
			Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).Count(&used).Error; err != nil {
			return CouponResult{}, err
		}
		if used >= int64(coupon.MaxUsesPerUser) {
			return CouponResult{}, ErrInvalidCoupon
		}
	}

	discount := coupon.Value
	if coupon.Type == models.CouponTypePercent {
		discount = RoundMoney(subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)))
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return CouponResult{CouponID: coupon.ID, Discount: discount}, nil
}

// RegisterRedemption records the coupon usage inside the checkout
// transaction, so a failed checkout never burns a redemption.
func (s *couponService) RegisterRedemption(tx *gorm.DB, couponID uint, userID string, orderID uint) error {
	return tx.Create(&models.CouponRedemption{
		CouponID: couponID,
		UserID:   userID,
		OrderID:  orderID,
	}).Error
}
