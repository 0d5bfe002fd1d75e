package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (single-store pickup/delivery flow)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting payment
	OrderStatusPaid      OrderStatus = "paid"      // Payment confirmed
	OrderStatusPreparing OrderStatus = "preparing" // Being packed
	OrderStatusReady     OrderStatus = "ready"     // Ready for pickup / dispatch
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the items
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled, stock restored

	// Payment statuses
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	OrderNumber        string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID             string          `gorm:"index;not null" json:"user_id"`
	User               User            `gorm:"foreignKey:UserID" json:"user"`
	AddressID          uint            `gorm:"not null" json:"address_id"`
	Address            Address         `gorm:"foreignKey:AddressID" json:"address"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"subtotal"`
	ShippingCost       decimal.Decimal `gorm:"type:decimal(20,2)" json:"shipping_cost"`
	Discount           decimal.Decimal `gorm:"type:decimal(20,2)" json:"discount"`
	CouponCode         *string         `json:"coupon_code"`
	Total              decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total"`
	Status             OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus      PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod      string          `json:"payment_method"` // e.g. "card", "cod"
	Notes              string          `json:"notes"`
	PaidAt             *time.Time      `json:"paid_at"`
	ShippedAt          *time.Time      `json:"shipped_at"` // also the ready-for-pickup time
	DeliveredAt        *time.Time      `json:"delivered_at"`
	CancelledAt        *time.Time      `json:"cancelled_at"`
	CancellationReason string          `json:"cancellation_reason"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// OrderItem is the immutable snapshot of one purchased line. Price and
// name are copied at checkout; later catalog edits never touch it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	VariantID   *uint           `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Total       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total"`
}

// OrderStatusLog is the audit trail of status changes.
type OrderStatusLog struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:VARCHAR(20)" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:VARCHAR(20)" json:"to_status"`
	ChangedBy  *string     `json:"changed_by"` // nil for system actions
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
