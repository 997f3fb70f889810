package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/cart"
	"github.com/CorporateGuuu/nexustechhub-sub003/middleware"
)

func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	carts := r.Group("/cart")
	carts.Use(middleware.RequireAuth)
	{
		// Fetch the cart (404 when empty)
		carts.GET("", cartControllers.GetCart(db))

		// Add an item (upsert keyed by user+product)
		carts.POST("", cartControllers.AddCartItem(db))

		// Set an item's quantity (<= 0 removes it)
		carts.PUT("/:productID", cartControllers.UpdateCartItem(db))

		// Remove one item
		carts.DELETE("/:productID", cartControllers.RemoveCartItem(db))

		// Clear the cart
		carts.DELETE("", cartControllers.ClearCart(db))
	}
}
