package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/BeltranHC/ecomerce-akemy-sub000/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	// Gateway callback; authenticated by HMAC signature, not JWT
	r.POST("/payments/webhook", paymentControllers.PaymentWebhookHandler(deps.DB, deps.States))
}
