package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/order"
	userControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/user"
	"github.com/CorporateGuuu/nexustechhub-sub003/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAPIKey)
	{
		// Fetch all orders
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))

		// Export orders to Excel
		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))

		// Update order status (e.g. shipped, cancelled)
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

		// Update payment status (e.g. paid, refunded)
		admin.PUT("/orders/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))

		// Assign a customer pricing tier (technician / wholesale accounts)
		admin.PUT("/users/:userID/tier", userControllers.UpdateUserTier(db))
	}
}
