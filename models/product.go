package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusHidden       ProductStatus = "hidden"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string           `gorm:"not null" json:"name"`
	SKU         string           `gorm:"uniqueIndex;not null" json:"sku"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"price"`
	Status      ProductStatus    `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	Stock       int              `json:"stock"` // mutated only through the inventory ledger
	Categories  []Category       `gorm:"many2many:product_categories;" json:"categories"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// Sellable reports whether the product may appear on a new order.
func (p *Product) Sellable() bool {
	return p.Status == ProductStatusActive
}

type ProductVariant struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint             `gorm:"index;not null" json:"product_id"`
	Name      string           `gorm:"not null" json:"name"`
	SKU       string           `gorm:"uniqueIndex;not null" json:"sku"`
	Price     *decimal.Decimal `gorm:"type:decimal(20,2)" json:"price"` // overrides the product price when set
	Stock     int              `json:"stock"`                           // mutated only through the inventory ledger
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
