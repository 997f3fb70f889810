package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/CorporateGuuu/nexustechhub-sub003/controllers/user"
	"github.com/CorporateGuuu/nexustechhub-sub003/middleware"
)

func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	user := r.Group("/user")
	user.Use(middleware.RequireAuth)
	{
		// Fetch own profile (with order history)
		user.GET("", userControllers.GetUser(db))

		// Update profile / shipping address
		user.PUT("", userControllers.UpdateUser(db))
	}
}
