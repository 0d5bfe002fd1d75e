package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
)

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Status      *string          `json:"status"`
	CategoryIDs []uint           `json:"category_ids"`
}

// UpdateProduct updates catalog fields by ID. Stock is not accepted here;
// stock changes go through the inventory ledger endpoints.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			}
			return
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
				return
			}
			updates["price"] = *req.Price
		}
		if req.Status != nil {
			switch models.ProductStatus(*req.Status) {
			case models.ProductStatusActive, models.ProductStatusHidden, models.ProductStatusDiscontinued:
				updates["status"] = *req.Status
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product status"})
				return
			}
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}
			if req.CategoryIDs != nil {
				var categories []models.Category
				if err := tx.Find(&categories, req.CategoryIDs).Error; err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		if err := db.Preload("Categories").Preload("Variants").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
