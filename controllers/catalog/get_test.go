package catalogControllers

import (
	"encoding/json"
	"fmt"
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

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
)

func setupCatalog(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Brand{}, &models.Product{}))

	screens := models.Category{Name: "Screens", Slug: "screens"}
	batteries := models.Category{Name: "Batteries", Slug: "batteries"}
	apple := models.Brand{Name: "Apple", Slug: "apple"}
	samsung := models.Brand{Name: "Samsung", Slug: "samsung"}
	require.NoError(t, db.Create(&screens).Error)
	require.NoError(t, db.Create(&batteries).Error)
	require.NoError(t, db.Create(&apple).Error)
	require.NoError(t, db.Create(&samsung).Error)

	products := []models.Product{
		{SKU: "NTH-SCR-IP13", Slug: "iphone-13-screen", Name: "iPhone 13 OLED Screen", Description: "OLED assembly with frame", Price: 100, DiscountPercent: 10, Stock: 5, CategoryID: screens.ID, BrandID: apple.ID, IsActive: true},
		{SKU: "NTH-SCR-S21", Slug: "s21-screen", Name: "Galaxy S21 AMOLED Screen", Description: "AMOLED assembly", Price: 90, Stock: 3, CategoryID: screens.ID, BrandID: samsung.ID, IsActive: true},
		{SKU: "NTH-BAT-S21", Slug: "s21-battery", Name: "Galaxy S21 Battery", Description: "OEM cell", Price: 40, Stock: 8, CategoryID: batteries.ID, BrandID: samsung.ID, IsActive: true},
		{SKU: "NTH-SCR-IP11", Slug: "iphone-11-screen", Name: "iPhone 11 Screen", Description: "discontinued", Price: 60, Stock: 0, CategoryID: screens.ID, BrandID: apple.ID, IsActive: false},
	}
	require.NoError(t, db.Create(&products).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/products")
	{
		group.GET("", SearchProducts(db))
		group.GET("/:id", GetProductByID(db))
		group.GET("/category/:slug", GetProductsByCategory(db))
	}
	return db, r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []ProductPayload {
	t.Helper()
	var payloads []ProductPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payloads))
	return payloads
}

func TestSearchMatchesNameDescriptionAndSKU(t *testing.T) {
	_, r := setupCatalog(t)

	w := get(t, r, "/products?search=screen")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2) // inactive iPhone 11 screen excluded

	w = get(t, r, "/products?search=oem")
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeList(t, w)
	require.Len(t, results, 1)
	assert.Equal(t, "Galaxy S21 Battery", results[0].Name)

	w = get(t, r, "/products?search=NTH-SCR-IP13")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestSearchWithoutTermListsActiveProducts(t *testing.T) {
	_, r := setupCatalog(t)

	w := get(t, r, "/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)
}

func TestSearchPagination(t *testing.T) {
	_, r := setupCatalog(t)

	w := get(t, r, "/products?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = get(t, r, "/products?limit=2&offset=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestGetProductByID(t *testing.T) {
	db, r := setupCatalog(t)

	var p models.Product
	require.NoError(t, db.First(&p, "sku = ?", "NTH-SCR-IP13").Error)

	w := get(t, r, fmt.Sprintf("/products/%d", p.ID))
	require.Equal(t, http.StatusOK, w.Code)

	var payload ProductPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "iPhone 13 OLED Screen", payload.Name)
	assert.Equal(t, "Screens", payload.Category)
	assert.Equal(t, "Apple", payload.Brand)
	assert.Equal(t, 10.0, payload.DiscountPercent)
}

func TestGetInactiveProductIsNotFound(t *testing.T) {
	db, r := setupCatalog(t)

	var p models.Product
	require.NoError(t, db.First(&p, "sku = ?", "NTH-SCR-IP11").Error)

	w := get(t, r, fmt.Sprintf("/products/%d", p.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductInvalidID(t *testing.T) {
	_, r := setupCatalog(t)

	w := get(t, r, "/products/not-a-number")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsByCategory(t *testing.T) {
	_, r := setupCatalog(t)

	w := get(t, r, "/products/category/screens")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	// narrowed by device-model substring
	w = get(t, r, "/products/category/screens?model=s21")
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeList(t, w)
	require.Len(t, results, 1)
	assert.Equal(t, "Galaxy S21 AMOLED Screen", results[0].Name)

	w = get(t, r, "/products/category/tools")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}
