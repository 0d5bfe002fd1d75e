package models

import "time"

type MovementType string

const (
	MovementInitial    MovementType = "INITIAL"
	MovementSale       MovementType = "SALE"
	MovementReturn     MovementType = "RETURN"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementDamage     MovementType = "DAMAGE"
)

// InventoryMovement is the append-only stock ledger. Rows are written
// once and never updated or deleted; the current stock column of a
// product or variant always equals StockAfter of its latest row.
type InventoryMovement struct {
	ID          string       `gorm:"size:36;primaryKey" json:"id"` // uuid v7, time-ordered
	ProductID   uint         `gorm:"index:idx_movement_target,priority:1;not null" json:"product_id"`
	VariantID   *uint        `gorm:"index:idx_movement_target,priority:2" json:"variant_id"`
	Type        MovementType `gorm:"type:VARCHAR(20);not null" json:"type"`
	Quantity    int          `gorm:"not null" json:"quantity"` // signed delta; SALE negative, RETURN positive
	StockBefore int          `json:"stock_before"`
	StockAfter  int          `json:"stock_after"`
	Notes       string       `json:"notes"`
	CreatedBy   *string      `json:"created_by"` // nil for system actions
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
