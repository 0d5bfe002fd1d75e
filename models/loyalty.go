package models

import "time"

type LoyaltyAccount struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Balance   int64     `gorm:"not null" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoyaltyEntry is one accrual; the balance update and the entry are
// written in the same transaction.
type LoyaltyEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Points    int64     `gorm:"not null" json:"points"`
	Reference string    `json:"reference"` // order number
	CreatedAt time.Time `json:"created_at"`
}
