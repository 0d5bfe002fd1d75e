package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BeltranHC/ecomerce-akemy-sub000/notify"
	"github.com/BeltranHC/ecomerce-akemy-sub000/services"
)

// Deps bundles everything the route groups need.
type Deps struct {
	DB       *gorm.DB
	Ledger   *services.Ledger
	Checkout *services.CheckoutService
	States   *services.StateMachine
	Hub      *notify.Hub
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public catalog reads (no middleware)
	SetupCatalogRoutes(r, deps)

	// User routes (JWT-protected)
	SetupCartRoutes(r, deps)
	SetupOrderRoutes(r, deps)

	// Payment gateway callback (signature-verified)
	SetupPaymentRoutes(r, deps)
}
