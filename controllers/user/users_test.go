package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/CorporateGuuu/nexustechhub-sub003/auth"
	"github.com/CorporateGuuu/nexustechhub-sub003/middleware"
	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

func setup(t *testing.T) (*gorm.DB, *gin.Engine, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_API_KEY", "admin-key")

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}))
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "user-1@example.com", Name: "Ahmed", Tier: "retail"}).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	user := r.Group("/user")
	user.Use(middleware.RequireAuth)
	{
		user.GET("", GetUser(db))
		user.PUT("", UpdateUser(db))
	}
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAPIKey)
	{
		admin.PUT("/users/:userID/tier", UpdateUserTier(db))
	}

	token, err := auth.IssueToken("user-1", pricing.TierRetail)
	require.NoError(t, err)
	return db, r, token
}

func do(t *testing.T, r *gin.Engine, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetAndUpdateProfile(t *testing.T) {
	db, r, token := setup(t)
	bearer := map[string]string{"Authorization": "Bearer " + token}

	w := do(t, r, http.MethodGet, "/user", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1@example.com")

	w = do(t, r, http.MethodPut, "/user", bearer, gin.H{
		"phone":   "+971501234567",
		"address": gin.H{"city": "Dubai", "country": "AE"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	assert.Equal(t, "+971501234567", user.Phone)
	assert.Equal(t, "Dubai", user.Address.City)
	assert.Equal(t, "Ahmed", user.Name) // untouched fields survive partial updates
}

func TestAdminAssignsTier(t *testing.T) {
	db, r, _ := setup(t)
	apiKey := map[string]string{"X-API-KEY": "admin-key"}

	w := do(t, r, http.MethodPut, "/admin/users/user-1/tier", apiKey, gin.H{"tier": "wholesale"})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	assert.Equal(t, "wholesale", user.Tier)

	// unknown tiers collapse to retail rather than failing
	w = do(t, r, http.MethodPut, "/admin/users/user-1/tier", apiKey, gin.H{"tier": "vip"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&user, "id = ?", "user-1").Error)
	assert.Equal(t, "retail", user.Tier)

	w = do(t, r, http.MethodPut, "/admin/users/ghost/tier", apiKey, gin.H{"tier": "retail"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
