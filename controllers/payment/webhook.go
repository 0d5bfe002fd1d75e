package paymentControllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/models"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

// WebhookPayload is what the payment gateway posts back after a hosted
// payment page completes.
type WebhookPayload struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Status      string `json:"status" binding:"required"` // authorised | declined
	Reference   string `json:"reference"`
	Signature   string `json:"signature" binding:"required"`
}

// Sign computes the expected webhook signature for a payload.
func Sign(secret, orderNumber, status, reference string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderNumber + "|" + status + "|" + reference))
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentWebhookHandler funnels gateway callbacks through the order state
// machine, so webhook-driven payment updates trigger the same side
// effects as any other transition. Retries of an already processed
// callback return 200.
func PaymentWebhookHandler(db *gorm.DB, states *services.StateMachine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload WebhookPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		secret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
		if secret == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook not configured"})
			return
		}
		expected := Sign(secret, payload.OrderNumber, payload.Status, payload.Reference)
		if !hmac.Equal([]byte(expected), []byte(payload.Signature)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		}

		var order models.Order
		if err := db.First(&order, "order_number = ?", payload.OrderNumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		switch payload.Status {
		case "authorised", "paid":
			_, err := states.Transition(c.Request.Context(), services.SystemActor(), order.ID, models.OrderStatusPaid, "")
			if err != nil {
				if errors.Is(err, services.ErrIllegalStateTransition) {
					// retry of a callback we already handled
					c.JSON(http.StatusOK, gin.H{"message": "already processed"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark order paid"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "payment recorded"})
		case "declined", "failed":
			_, err := states.MarkPaymentFailed(c.Request.Context(), services.SystemActor(), order.ID, payload.Reference)
			if err != nil {
				if errors.Is(err, services.ErrIllegalStateTransition) {
					c.JSON(http.StatusOK, gin.H{"message": "already processed"})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment failure"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "payment failure recorded"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment status"})
		}
	}
}
