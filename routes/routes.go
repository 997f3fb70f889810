package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the catalog, cart,
// order and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public catalog routes (no middleware)
	SetupCatalogRoutes(r, db)

	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db)

	// Order routes (JWT-protected, websocket feed public upgrade)
	SetupOrderRoutes(r, db)

	// User profile routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin back-office routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
