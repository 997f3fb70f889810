package catalogControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
)

// ProductPayload is the normalized product shape the storefront consumes.
type ProductPayload struct {
	ID              uint    `json:"id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discount_percent"`
	Stock           int     `json:"stock"`
	Image           string  `json:"image"`
	Category        string  `json:"category"`
	Brand           string  `json:"brand"`
}

func toProductPayload(p models.Product) ProductPayload {
	return ProductPayload{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		Stock:           p.Stock,
		Image:           p.Image,
		Category:        p.Category.Name,
		Brand:           p.Brand.Name,
	}
}

func toProductPayloads(products []models.Product) []ProductPayload {
	payloads := make([]ProductPayload, 0, len(products))
	for _, p := range products {
		payloads = append(payloads, toProductPayload(p))
	}
	return payloads
}

// pagination params, limit/offset with caps
func pageParams(c *gin.Context) (limit, offset int) {
	limit = 20
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && l > 0 {
		limit = l
	}
	if limit > 100 {
		limit = 100
	}
	if o, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && o > 0 {
		offset = o
	}
	return limit, offset
}

func activeProducts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Product{}).
		Preload("Category").
		Preload("Brand").
		Where("is_active = ?", true)
}

// GetProductByID returns a single product by exact id.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").Preload("Brand").
			Where("is_active = ?", true).
			First(&product, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				logrus.WithField("op", "catalog.get").WithError(err).Error("failed to load product")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, toProductPayload(product))
	}
}

// SearchProducts does a free-text substring match over name, description
// and SKU.
// GET /products?search=...&limit=&offset=
func SearchProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		limit, offset := pageParams(c)

		query := activeProducts(db)
		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where(
				"LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?)",
				likePattern, likePattern, likePattern,
			)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
			logrus.WithField("op", "catalog.search").WithError(err).Error("failed to search products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, toProductPayloads(products))
	}
}

// GetProductsByCategory filters by category slug, optionally narrowed by
// a device-model substring over the product name.
// GET /products/category/:slug?model=...
func GetProductsByCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		limit, offset := pageParams(c)

		query := activeProducts(db).
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", slug)

		if model := c.Query("model"); model != "" {
			query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+model+"%")
		}

		var products []models.Product
		if err := query.Order("products.created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
			logrus.WithField("op", "catalog.category").WithError(err).Error("failed to fetch products")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, toProductPayloads(products))
	}
}
