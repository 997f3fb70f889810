package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

// -------- Request Structs --------

type ShippingAddressInput struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	ShippingAddress ShippingAddressInput `json:"shipping_address" binding:"required"`
	PaymentMethod   string               `json:"payment_method" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// -------- Helpers --------

// Map string to OrderStatus
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusConfirmed):
		return models.OrderStatusConfirmed, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	case string(models.OrderStatusRefunded):
		return models.OrderStatusRefunded, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Map string to PaymentStatus
func mapPaymentStatus(status string) (models.PaymentStatus, error) {
	switch strings.ToLower(status) {
	case string(models.PaymentStatusPending):
		return models.PaymentStatusPending, nil
	case string(models.PaymentStatusPaid):
		return models.PaymentStatusPaid, nil
	case string(models.PaymentStatusFailed):
		return models.PaymentStatusFailed, nil
	case string(models.PaymentStatusRefunded):
		return models.PaymentStatusRefunded, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userIDVal.(string), true
}

func userTier(db *gorm.DB, userID string) pricing.Tier {
	var user models.User
	if err := db.Select("tier").First(&user, "id = ?", userID).Error; err != nil {
		return pricing.TierRetail
	}
	return pricing.ParseTier(user.Tier)
}

// checkOrderIntegrity warns (never rejects) when line totals drift from
// the stored order total beyond rounding tolerance.
func checkOrderIntegrity(order *models.Order) {
	var sum float64
	for _, item := range order.Items {
		sum += item.LineTotal
	}
	if math.Abs(sum-order.TotalAmount) > 0.01 {
		logrus.WithFields(logrus.Fields{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"total_amount": order.TotalAmount,
			"items_sum":    sum,
		}).Warn("order line totals do not match total amount")
	}
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		address := models.ShippingAddress{
			Name:       req.ShippingAddress.Name,
			Phone:      req.ShippingAddress.Phone,
			Line1:      req.ShippingAddress.Line1,
			Line2:      req.ShippingAddress.Line2,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		}

		workflow := newOrderWorkflow(db, userID, userTier(db, userID), address, req.PaymentMethod)
		order, err := workflow.Run()
		if err != nil {
			var stockErr *StockError
			switch {
			case errors.Is(err, ErrCartEmpty):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			case errors.As(err, &stockErr):
				c.JSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
			case errors.Is(err, ErrRolledBack):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Order creation failed, changes rolled back"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			}
			return
		}

		broadcastOrderEvent(order)
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		orderID := c.Param("orderID")

		// numeric id or human-readable order number
		query := db.Preload("Items")
		if id, err := strconv.Atoi(orderID); err == nil {
			query = query.Where("id = ? AND user_id = ?", id, userID)
		} else {
			query = query.Where("order_number = ? AND user_id = ?", orderID, userID)
		}

		var order models.Order
		// ownership-scoped: someone else's order is indistinguishable from a missing one
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			logrus.WithFields(logrus.Fields{"op": "order.get", "user_id": userID, "order_id": orderID}).WithError(err).Error("failed to load order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
			return
		}

		checkOrderIntegrity(&order)
		c.Header("Cache-Control", "private, max-age=60")
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			logrus.WithFields(logrus.Fields{"op": "order.list", "user_id": userID}).WithError(err).Error("failed to list orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// -------- Admin handlers --------

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			logrus.WithField("op", "order.list_all").WithError(err).Error("failed to list orders")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve order"})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			logrus.WithFields(logrus.Fields{"op": "order.update_status", "order_id": orderID}).WithError(err).Error("failed to update order status")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}

		order.Status = newStatus
		broadcastOrderEvent(&order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// PUT /admin/orders/:orderID/payment-status
func UpdatePaymentStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")

		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapPaymentStatus(req.PaymentStatus)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("payment_status", newStatus)
		if result.Error != nil {
			logrus.WithFields(logrus.Fields{"op": "order.update_payment", "order_id": orderID}).WithError(result.Error).Error("failed to update payment status")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully"})
	}
}
