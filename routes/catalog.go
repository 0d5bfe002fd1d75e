package routes

import (
	"github.com/gin-gonic/gin"

	productcontroller "github.com/BeltranHC/ecomerce-akemy-sub000/controllers/product"
	"github.com/BeltranHC/ecomerce-akemy-sub000/middleware"
)

func SetupCatalogRoutes(r *gin.Engine, deps Deps) {
	// Public reads
	products := r.Group("/products")
	{
		products.GET("/", productcontroller.GetProducts(deps.DB))
		products.GET("/:id", productcontroller.GetProductByID(deps.DB))
	}
	categories := r.Group("/categories")
	{
		categories.GET("/", productcontroller.GetAllCategories(deps.DB))
		categories.GET("/:id", productcontroller.GetCategoryByID(deps.DB))
	}

	// Admin catalog management (API key)
	admin := r.Group("/admin", middleware.ValidateAPIKey)
	{
		admin.POST("/products", productcontroller.CreateProduct(deps.DB, deps.Ledger))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(deps.DB))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(deps.DB))

		// Stock corrections go through the inventory ledger
		admin.POST("/products/:id/stock", productcontroller.AdjustStock(deps.Ledger))
		admin.GET("/products/:id/movements", productcontroller.GetStockMovements(deps.Ledger))

		admin.POST("/categories", productcontroller.CreateCategory(deps.DB))
		admin.PUT("/categories/:id", productcontroller.UpdateCategory(deps.DB))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(deps.DB))
	}
}
