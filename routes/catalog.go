package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/catalog"
)

func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		// Free-text search over name/description/SKU
		products.GET("", catalogControllers.SearchProducts(db))

		// Exact id lookup
		products.GET("/:id", catalogControllers.GetProductByID(db))

		// Category slug filter, optional device-model substring
		products.GET("/category/:slug", catalogControllers.GetProductsByCategory(db))
	}
}
