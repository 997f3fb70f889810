package cartControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ItemPayload is one cart line joined with live product data. Prices are
// derived per request from the live product row, never from cached rows.
type ItemPayload struct {
	ProductID       uint    `json:"product_id"`
	SKU             string  `json:"sku"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"` // tier- and discount-adjusted unit price
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Quantity        int     `json:"quantity"`
	Stock           int     `json:"stock"`
	Image           string  `json:"image"`
	LineTotal       float64 `json:"line_total"`
}

type CartPayload struct {
	Items     []ItemPayload `json:"items"`
	Subtotal  float64       `json:"subtotal"`
	ItemCount int           `json:"item_count"`
}

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userIDVal.(string), true
}

// cart responses are user-specific and must never be cached
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

func userTier(db *gorm.DB, userID string) pricing.Tier {
	var user models.User
	if err := db.Select("tier").First(&user, "id = ?", userID).Error; err != nil {
		return pricing.TierRetail
	}
	return pricing.ParseTier(user.Tier)
}

// unitPrice applies the tier multiplier, then the product discount.
func unitPrice(p models.Product, tier pricing.Tier) decimal.Decimal {
	tiered := decimal.NewFromFloat(pricing.PriceFor(p.Price, tier))
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.DiscountPercent).Div(decimal.NewFromInt(100)))
	return tiered.Mul(factor)
}

// buildCartPayload joins the user's cart rows with live product data and
// recomputes the subtotal from scratch.
func buildCartPayload(db *gorm.DB, userID string) (*CartPayload, error) {
	var rows []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("added_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	payload := &CartPayload{Items: []ItemPayload{}}
	if len(rows) == 0 {
		return payload, nil
	}

	tier := userTier(db, userID)
	subtotal := decimal.Zero
	for _, row := range rows {
		var product models.Product
		if err := db.First(&product, row.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// product removed from catalog since it was carted; skip the row
				continue
			}
			return nil, err
		}
		price := unitPrice(product, tier)
		line := price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		subtotal = subtotal.Add(line)

		priceF, _ := price.Float64()
		lineF, _ := line.Round(2).Float64()
		payload.Items = append(payload.Items, ItemPayload{
			ProductID:       product.ID,
			SKU:             product.SKU,
			Name:            product.Name,
			Price:           priceF,
			OriginalPrice:   product.Price,
			DiscountPercent: product.DiscountPercent,
			Quantity:        row.Quantity,
			Stock:           product.Stock,
			Image:           product.Image,
			LineTotal:       lineF,
		})
		payload.ItemCount += row.Quantity
	}
	payload.Subtotal, _ = subtotal.Round(2).Float64()
	return payload, nil
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		noStore(c)

		payload, err := buildCartPayload(db, userID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"op": "cart.fetch", "user_id": userID}).WithError(err).Error("failed to fetch cart")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		if len(payload.Items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

// POST /cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		noStore(c)

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"op": "cart.add", "user_id": userID, "product_id": input.ProductID}).WithError(err).Error("failed to load product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}
		if !product.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		// upsert keyed by (user, product); quantity accumulates
		var row models.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&row).Error
		existing := 0
		if err == nil {
			existing = row.Quantity
		} else if err != gorm.ErrRecordNotFound {
			logrus.WithFields(logrus.Fields{"op": "cart.add", "user_id": userID}).WithError(err).Error("failed to load cart row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		if product.Stock < existing+input.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Insufficient stock for %s: %d available, %d requested", product.Name, product.Stock, existing+input.Quantity),
			})
			return
		}

		if existing > 0 {
			row.Quantity += input.Quantity
			row.UpdatedAt = time.Now()
			err = db.Save(&row).Error
		} else {
			row = models.CartItem{
				UserID:    userID,
				ProductID: product.ID,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			err = db.Create(&row).Error
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"op": "cart.add", "user_id": userID, "product_id": product.ID}).WithError(err).Error("failed to persist cart row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		respondWithCart(c, db, userID, "cart.add")
	}
}

// PUT /cart/:productID
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		noStore(c)

		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var row models.CartItem
		if err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&row).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"op": "cart.update", "user_id": userID}).WithError(err).Error("failed to load cart row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		if *input.Quantity <= 0 {
			err = db.Delete(&row).Error
		} else {
			row.Quantity = *input.Quantity
			row.UpdatedAt = time.Now()
			err = db.Save(&row).Error
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"op": "cart.update", "user_id": userID, "product_id": productID}).WithError(err).Error("failed to persist cart row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		respondWithCart(c, db, userID, "cart.update")
	}
}

// DELETE /cart/:productID
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		noStore(c)

		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			logrus.WithFields(logrus.Fields{"op": "cart.remove", "user_id": userID, "product_id": productID}).WithError(result.Error).Error("failed to delete cart row")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		respondWithCart(c, db, userID, "cart.remove")
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		noStore(c)

		if err := db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			logrus.WithFields(logrus.Fields{"op": "cart.clear", "user_id": userID}).WithError(err).Error("failed to clear cart")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}

		// clear always returns the canonical empty payload, never a 404
		c.JSON(http.StatusOK, CartPayload{Items: []ItemPayload{}})
	}
}

func respondWithCart(c *gin.Context, db *gorm.DB, userID, op string) {
	payload, err := buildCartPayload(db, userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"op": op, "user_id": userID}).WithError(err).Error("failed to rebuild cart payload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, payload)
}
