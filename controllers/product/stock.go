package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

type AdjustStockRequest struct {
	VariantID *uint  `json:"variant_id"`
	Delta     int    `json:"delta" binding:"required"`
	Type      string `json:"type" binding:"required"` // "adjustment" or "damage"
	Notes     string `json:"notes"`
}

// AdjustStock applies a manual stock correction through the inventory
// ledger. DAMAGE write-offs carry negative deltas.
func AdjustStock(ledger *services.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var req AdjustStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var mtype models.MovementType
		switch req.Type {
		case "adjustment":
			mtype = models.MovementAdjustment
		case "damage":
			mtype = models.MovementDamage
			if req.Delta > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "damage movements must have a negative delta"})
				return
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be adjustment or damage"})
			return
		}

		ref := services.MovementRef{ProductID: uint(productID), VariantID: req.VariantID}
		movement, err := ledger.Apply(c.Request.Context(), ref, req.Delta, mtype, req.Notes, actorFromContext(c))
		if err != nil {
			var stockErr *services.InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
			case errors.Is(err, services.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply stock movement"})
			}
			return
		}
		c.JSON(http.StatusOK, movement)
	}
}

// GetStockMovements lists the ledger history for a product or one of its
// variants, newest first.
func GetStockMovements(ledger *services.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		ref := services.MovementRef{ProductID: uint(productID)}
		if v := c.Query("variant_id"); v != "" {
			variantID, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant_id"})
				return
			}
			vid := uint(variantID)
			ref.VariantID = &vid
		}

		limit := 100
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		movements, err := ledger.Movements(c.Request.Context(), ref, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
			return
		}
		c.JSON(http.StatusOK, movements)
	}
}
