package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/BeltranHC/ecomerce-akemy-sub000/controllers/cart"
	"github.com/BeltranHC/ecomerce-akemy-sub000/middleware"
)

func SetupCartRoutes(r *gin.Engine, deps Deps) {
	cart := r.Group("/user/cart", middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetUserCart(deps.DB))
		cart.POST("", cartControllers.UpdateCartItem(deps.DB))
		cart.DELETE("", cartControllers.ClearUserCart(deps.DB))
		cart.DELETE("/:product_id", cartControllers.DeleteCartItem(deps.DB))
	}
}
