package models

// OrderSequence is the per-day order number counter: one row per calendar
// day, bumped atomically inside the checkout transaction.
type OrderSequence struct {
	SeqDate   string `gorm:"primaryKey;size:6" json:"seq_date"` // YYMMDD
	LastValue int    `gorm:"not null" json:"last_value"`
}
