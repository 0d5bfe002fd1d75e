package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

// MovementRef addresses the stock pool a movement applies to: a product
// row, or one of its variants.
type MovementRef struct {
	ProductID uint
	VariantID *uint
}

// Ledger owns every stock change. The stock column on products and
// variants is only ever written here, together with the matching
// append-only movement row.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ApplyMovement debits or credits a stock pool and appends the ledger row
// inside the caller's transaction. The stock change is one conditional
// UPDATE, so concurrent movements on the same pool cannot lose each
// other's writes, and a delta that would push stock below zero matches no
// row and leaves everything untouched.
func (l *Ledger) ApplyMovement(tx *gorm.DB, ref MovementRef, delta int, mtype models.MovementType, notes string, actor Actor) (*models.InventoryMovement, error) {
	var after int
	var res *gorm.DB
	if ref.VariantID != nil {
		res = tx.Raw(
			`UPDATE product_variants SET stock = stock + ? WHERE id = ? AND product_id = ? AND stock + ? >= 0 RETURNING stock`,
			delta, *ref.VariantID, ref.ProductID, delta,
		).Scan(&after)
	} else {
		res = tx.Raw(
			`UPDATE products SET stock = stock + ? WHERE id = ? AND deleted_at IS NULL AND stock + ? >= 0 RETURNING stock`,
			delta, ref.ProductID, delta,
		).Scan(&after)
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the target does not exist or the delta would go negative.
		name, sku, available, err := l.describe(tx, ref)
		if err != nil {
			return nil, err
		}
		return nil, &InsufficientStockError{
			ProductName: name,
			SKU:         sku,
			Requested:   -delta,
			Available:   available,
		}
	}

	// v7 ids are time-ordered, so id is a valid tiebreaker when two
	// movements share a created_at timestamp.
	mv := &models.InventoryMovement{
		ID:          uuid.Must(uuid.NewV7()).String(),
		ProductID:   ref.ProductID,
		VariantID:   ref.VariantID,
		Type:        mtype,
		Quantity:    delta,
		StockBefore: after - delta,
		StockAfter:  after,
		Notes:       notes,
		CreatedBy:   actor.Ref(),
	}
	if err := tx.Create(mv).Error; err != nil {
		return nil, err
	}
	return mv, nil
}

// Apply runs a single movement in its own transaction, for callers that
// are not already inside one (admin adjustments, initial stock).
func (l *Ledger) Apply(ctx context.Context, ref MovementRef, delta int, mtype models.MovementType, notes string, actor Actor) (*models.InventoryMovement, error) {
	var mv *models.InventoryMovement
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mv, err = l.ApplyMovement(tx, ref, delta, mtype, notes, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mv, nil
}

// Movements returns the ledger history for a stock pool, newest first.
func (l *Ledger) Movements(ctx context.Context, ref MovementRef, limit int) ([]models.InventoryMovement, error) {
	q := l.db.WithContext(ctx).Where("product_id = ?", ref.ProductID)
	if ref.VariantID != nil {
		q = q.Where("variant_id = ?", *ref.VariantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var movements []models.InventoryMovement
	if err := q.Order("created_at DESC, id DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (l *Ledger) describe(tx *gorm.DB, ref MovementRef) (name, sku string, available int, err error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", ref.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", 0, fmt.Errorf("%w: product %d", ErrNotFound, ref.ProductID)
		}
		return "", "", 0, err
	}
	if ref.VariantID == nil {
		return product.Name, product.SKU, product.Stock, nil
	}
	var variant models.ProductVariant
	if err := tx.First(&variant, "id = ? AND product_id = ?", *ref.VariantID, ref.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", 0, fmt.Errorf("%w: variant %d of product %d", ErrNotFound, *ref.VariantID, ref.ProductID)
		}
		return "", "", 0, err
	}
	return product.Name + " / " + variant.Name, variant.SKU, variant.Stock, nil
}
