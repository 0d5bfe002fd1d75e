package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders    []Order   `gorm:"foreignKey:UserID" json:"orders"`
	CreatedAt time.Time `json:"created_at"`
}

type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypePickup   AddressType = "pickup"
)

// Address is a stored delivery or pickup address. Orders reference an
// address by ID; the row is never mutated once an order points at it.
type Address struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     string      `gorm:"index;not null" json:"user_id"`
	Label      string      `json:"label"`
	Recipient  string      `json:"recipient"`
	Phone      string      `json:"phone"`
	Line1      string      `gorm:"not null" json:"line1"`
	Line2      string      `json:"line2"`
	City       string      `json:"city"`
	Country    string      `json:"country"`
	PostalCode string      `json:"postal_code"`
	Type       AddressType `gorm:"type:VARCHAR(20);default:'shipping'" json:"type"`
	IsDefault  bool        `json:"is_default"`
	CreatedAt  time.Time   `json:"created_at"`
}
