package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypeFixed   CouponType = "fixed"
	CouponTypePercent CouponType = "percent"
)

type Coupon struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"uniqueIndex;not null" json:"code"`
	Type           CouponType      `gorm:"type:VARCHAR(10);not null" json:"type"`
	Value          decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"value"` // amount, or percent of subtotal
	MinSubtotal    decimal.Decimal `gorm:"type:decimal(20,2)" json:"min_subtotal"`
	MaxUses        int             `json:"max_uses"`          // 0 = unlimited
	MaxUsesPerUser int             `json:"max_uses_per_user"` // 0 = unlimited
	StartsAt       *time.Time      `json:"starts_at"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	Active         bool            `json:"active"` // no default tag: gorm would omit Active=false from inserts
	CreatedAt      time.Time       `json:"created_at"`
}

// CouponRedemption links a coupon, a user and an order; written inside
// the checkout transaction so usage caps count committed orders only.
type CouponRedemption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CouponID  uint      `gorm:"index;not null" json:"coupon_id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
