package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

type loyaltyService struct {
	db *gorm.DB
}

// NewLoyaltyService returns the database-backed loyalty collaborator.
func NewLoyaltyService(db *gorm.DB) LoyaltyService {
	return &loyaltyService{db: db}
}

// Accrue writes the ledger entry and bumps the balance in one
// transaction.
func (s *loyaltyService) Accrue(ctx context.Context, userID string, points int64, reference string) error {
	if points <= 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := models.LoyaltyAccount{UserID: userID, Balance: points, UpdatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance":    gorm.Expr("balance + ?", points),
				"updated_at": time.Now(),
			}),
		}).Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&models.LoyaltyEntry{
			UserID:    userID,
			Points:    points,
			Reference: reference,
		}).Error
	})
}
