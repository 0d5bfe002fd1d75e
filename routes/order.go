package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/BeltranHC/ecomerce-akemy-sub000/controllers/order"
	"github.com/BeltranHC/ecomerce-akemy-sub000/middleware"
)

func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	// Customer endpoints (JWT)
	orders := r.Group("/orders", middleware.ValidateToken)
	{
		// Create a new order from the cart or an explicit item list
		orders.POST("/place", orderControllers.PlaceOrderHandler(deps.Checkout))

		// Fetch the authenticated user's orders
		orders.GET("/my", orderControllers.GetUserOrdersHandler(deps.DB))

		// Fetch one order by id or order number
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(deps.DB))

		// Cancel an order (restocks every line)
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(deps.DB, deps.States))
	}

	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler(deps.Hub))

	// Admin endpoints (API key)
	admin := r.Group("/admin/orders", middleware.ValidateAPIKey)
	{
		admin.GET("/", orderControllers.GetAllOrdersHandler(deps.DB))
		admin.GET("/export", orderControllers.ExportOrdersToExcel(deps.DB))
		admin.GET("/:orderID/history", orderControllers.GetOrderStatusLogHandler(deps.DB))

		// Update order status (e.g. preparing, ready, delivered, cancelled)
		admin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(deps.States))
	}
}
