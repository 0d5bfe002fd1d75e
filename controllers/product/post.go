package productcontroller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

type VariantInput struct {
	Name         string           `json:"name" binding:"required"`
	SKU          string           `json:"sku" binding:"required"`
	Price        *decimal.Decimal `json:"price"`
	InitialStock int              `json:"initial_stock"`
}

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	SKU          string          `json:"sku" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	CategoryIDs  []uint          `json:"category_ids"`
	InitialStock int             `json:"initial_stock"`
	Variants     []VariantInput  `json:"variants"`
}

// CreateProduct creates a product (and its variants). Initial stock goes
// through the inventory ledger so the first movement is on record.
func CreateProduct(db *gorm.DB, ledger *services.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if req.Price.IsNegative() || req.InitialStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price and initial_stock must not be negative"})
			return
		}

		var categories []models.Category
		if len(req.CategoryIDs) > 0 {
			if err := db.Find(&categories, req.CategoryIDs).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve categories"})
				return
			}
			if len(categories) != len(req.CategoryIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "One or more categories do not exist"})
				return
			}
		}

		actor := actorFromContext(c)
		var product models.Product
		err := db.Transaction(func(tx *gorm.DB) error {
			product = models.Product{
				Name:        req.Name,
				SKU:         req.SKU,
				Description: req.Description,
				Price:       req.Price,
				Status:      models.ProductStatusActive,
				Categories:  categories,
			}
			for _, v := range req.Variants {
				if v.InitialStock < 0 {
					return fmt.Errorf("variant %s: initial_stock must not be negative", v.SKU)
				}
				product.Variants = append(product.Variants, models.ProductVariant{
					Name:  v.Name,
					SKU:   v.SKU,
					Price: v.Price,
				})
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}

			if req.InitialStock > 0 {
				ref := services.MovementRef{ProductID: product.ID}
				if _, err := ledger.ApplyMovement(tx, ref, req.InitialStock, models.MovementInitial, "initial stock", actor); err != nil {
					return err
				}
			}
			for i, v := range req.Variants {
				if v.InitialStock == 0 {
					continue
				}
				variantID := product.Variants[i].ID
				ref := services.MovementRef{ProductID: product.ID, VariantID: &variantID}
				if _, err := ledger.ApplyMovement(tx, ref, v.InitialStock, models.MovementInitial, "initial stock", actor); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product: " + err.Error()})
			return
		}

		if err := db.Preload("Categories").Preload("Variants").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func actorFromContext(c *gin.Context) services.Actor {
	if userID := c.GetString("user_id"); userID != "" {
		return services.Actor{UserID: userID}
	}
	return services.SystemActor()
}
