package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// OrderNumberAllocator hands out date-scoped sequential order numbers:
// PREFIX + YYMMDD + 4-digit zero-padded sequence, resetting at the first
// order of each day. The per-day counter row is bumped with an atomic
// upsert, so the row lock taken by the enclosing transaction serializes
// concurrent checkouts; a rolled-back checkout releases the increment
// with the rest of the unit of work, leaving no silently skipped gap.
type OrderNumberAllocator struct {
	Prefix string
	Now    func() time.Time
}

func NewOrderNumberAllocator(prefix string) *OrderNumberAllocator {
	if prefix == "" {
		prefix = "ORD"
	}
	return &OrderNumberAllocator{Prefix: prefix, Now: time.Now}
}

// Next allocates the next number inside tx.
func (a *OrderNumberAllocator) Next(tx *gorm.DB) (string, error) {
	day := a.Now().Format("060102")
	seq := models.OrderSequence{SeqDate: day, LastValue: 1}
	res := tx.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "seq_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"last_value": gorm.Expr("last_value + 1")}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "last_value"}}},
	).Create(&seq)
	if res.Error != nil {
		return "", res.Error
	}
	return fmt.Sprintf("%s%s%04d", a.Prefix, day, seq.LastValue), nil
}
