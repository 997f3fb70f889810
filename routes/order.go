package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/order"
	"github.com/CorporateGuuu/nexustechhub-sub003/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)

	orders := r.Group("/orders")
	orders.Use(middleware.RequireAuth)
	{
		// Create a new order from the user's cart
		orders.POST("", orderControllers.CreateOrderHandler(db))

		// Fetch the user's orders
		orders.GET("", orderControllers.GetUserOrdersHandler(db))

		// Fetch a single order (ownership-scoped)
		orders.GET("/:orderID", orderControllers.GetOrderHandler(db))
	}
}
