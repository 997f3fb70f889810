package orderControllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/CorporateGuuu/nexustechhub-sub003/models"
	"github.com/CorporateGuuu/nexustechhub-sub003/pricing"
)

// ErrCartEmpty aborts the workflow before anything is persisted.
var ErrCartEmpty = errors.New("cart is empty")

// ErrRolledBack is what the caller sees whenever a step fails after
// persistence began, regardless of which step it was.
var ErrRolledBack = errors.New("order creation failed, changes rolled back")

// StockError names the offending product and quantities.
type StockError struct {
	Product   string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Product, e.Available, e.Requested)
}

// sagaStep pairs a named forward action with its registered inverse.
// Steps with no compensation (pure validation/computation) register nil.
type sagaStep struct {
	name       string
	run        func() error
	compensate func() error
}

// orderWorkflow runs the checkout saga:
//
//	validate stock -> compute totals -> allocate order number ->
//	insert order -> insert order items -> clear cart -> decrement stock
//
// The backing store gives the workflow no multi-statement transaction, so
// on any failure after persistence began the registered compensations run
// in strict LIFO order, each best-effort and independently logged. A
// compensation failure never masks the original error.
type orderWorkflow struct {
	db            *gorm.DB
	log           *logrus.Entry
	userID        string
	tier          pricing.Tier
	address       models.ShippingAddress
	paymentMethod string

	cartRows    []models.CartItem
	products    map[uint]models.Product
	items       []models.OrderItem
	totalAmount float64
	orderNumber string
	order       *models.Order
	decremented map[uint]int

	// invoked before each step when set; lets tests interleave state
	// changes between steps to exercise the rollback path
	beforeStep func(name string)
}

func newOrderWorkflow(db *gorm.DB, userID string, tier pricing.Tier, address models.ShippingAddress, paymentMethod string) *orderWorkflow {
	return &orderWorkflow{
		db:            db,
		log:           logrus.WithFields(logrus.Fields{"op": "order.create", "user_id": userID}),
		userID:        userID,
		tier:          tier,
		address:       address,
		paymentMethod: paymentMethod,
		products:      map[uint]models.Product{},
		decremented:   map[uint]int{},
	}
}

// Run executes the saga. The returned error is ErrCartEmpty or a
// *StockError when validation fails, and ErrRolledBack for any failure
// once persistence began.
func (w *orderWorkflow) Run() (*models.Order, error) {
	steps := []sagaStep{
		{name: "validate stock", run: w.validateStock},
		{name: "compute totals", run: w.computeTotals},
		{name: "allocate order number", run: w.allocateOrderNumber},
		{name: "insert order", run: w.insertOrder, compensate: w.deleteOrder},
		{name: "insert order items", run: w.insertOrderItems, compensate: w.deleteOrderItems},
		{name: "clear cart", run: w.clearCart, compensate: w.restoreCart},
		{name: "decrement stock", run: w.decrementStock, compensate: w.restoreStock},
	}

	for i, step := range steps {
		if w.beforeStep != nil {
			w.beforeStep(step.name)
		}
		if err := step.run(); err != nil {
			w.log.WithField("step", step.name).WithError(err).Error("order workflow step failed")
			if w.order == nil {
				// nothing persisted yet; surface the validation error as-is
				return nil, err
			}
			w.rollback(steps[:i+1])
			return nil, ErrRolledBack
		}
	}

	w.order.Items = w.items
	w.log.WithFields(logrus.Fields{"order_id": w.order.ID, "order_number": w.orderNumber, "total": w.totalAmount}).Info("order created")
	return w.order, nil
}

// rollback runs the compensations of every executed step in reverse
// order. Each is independent: a failed compensation is logged and the
// remaining ones still run.
func (w *orderWorkflow) rollback(executed []sagaStep) {
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.compensate == nil {
			continue
		}
		clog := w.log.WithField("step", step.name)
		if err := step.compensate(); err != nil {
			clog.WithError(err).Error("compensation failed")
			continue
		}
		clog.Info("compensation applied")
	}
}

// --- forward steps ---

// validateStock re-checks live inventory, not the possibly-stale cart view.
func (w *orderWorkflow) validateStock() error {
	if err := w.db.Where("user_id = ?", w.userID).Order("added_at ASC").Find(&w.cartRows).Error; err != nil {
		return err
	}
	if len(w.cartRows) == 0 {
		return ErrCartEmpty
	}
	for _, row := range w.cartRows {
		var product models.Product
		if err := w.db.First(&product, row.ProductID).Error; err != nil {
			return fmt.Errorf("load product %d: %w", row.ProductID, err)
		}
		if product.Stock < row.Quantity {
			return &StockError{Product: product.Name, Available: product.Stock, Requested: row.Quantity}
		}
		w.products[product.ID] = product
	}
	return nil
}

// computeTotals derives line totals from the live product discount
// percentage. Line totals are rounded to 2 decimals and the order total
// is their exact sum, so the order math invariant holds by construction.
func (w *orderWorkflow) computeTotals() error {
	total := decimal.Zero
	for _, row := range w.cartRows {
		product := w.products[row.ProductID]
		tiered := decimal.NewFromFloat(pricing.PriceFor(product.Price, w.tier))
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(product.DiscountPercent).Div(decimal.NewFromInt(100)))
		unit := tiered.Mul(factor)
		line := unit.Mul(decimal.NewFromInt(int64(row.Quantity))).Round(2)
		total = total.Add(line)

		unitF, _ := unit.Float64()
		lineF, _ := line.Float64()
		w.items = append(w.items, models.OrderItem{
			ProductID:       product.ID,
			SKU:             product.SKU,
			Name:            product.Name,
			Quantity:        row.Quantity,
			UnitPrice:       unitF,
			DiscountPercent: product.DiscountPercent,
			LineTotal:       lineF,
		})
	}
	w.totalAmount, _ = total.Round(2).Float64()
	return nil
}

func (w *orderWorkflow) allocateOrderNumber() error {
	w.orderNumber = generateOrderNumber()
	return nil
}

func (w *orderWorkflow) insertOrder() error {
	order := models.Order{
		OrderNumber:     w.orderNumber,
		UserID:          w.userID,
		TotalAmount:     w.totalAmount,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   w.paymentMethod,
		ShippingAddress: w.address,
		CreatedAt:       time.Now(),
	}
	if err := w.db.Create(&order).Error; err != nil {
		return err
	}
	w.order = &order
	return nil
}

func (w *orderWorkflow) insertOrderItems() error {
	for i := range w.items {
		w.items[i].OrderID = w.order.ID
	}
	return w.db.Create(&w.items).Error
}

func (w *orderWorkflow) clearCart() error {
	return w.db.Where("user_id = ?", w.userID).Delete(&models.CartItem{}).Error
}

// decrementStock commits the reservation with a conditional UPDATE
// (stock >= quantity) so a checkout racing this one cannot drive stock
// negative: the slower one fails here and rolls back.
func (w *orderWorkflow) decrementStock() error {
	for _, row := range w.cartRows {
		result := w.db.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", row.ProductID, row.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", row.Quantity))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			product := w.products[row.ProductID]
			return &StockError{Product: product.Name, Available: product.Stock, Requested: row.Quantity}
		}
		w.decremented[row.ProductID] = row.Quantity
	}
	return nil
}

// --- compensations (LIFO) ---

func (w *orderWorkflow) deleteOrder() error {
	return w.db.Unscoped().Delete(&models.Order{}, w.order.ID).Error
}

func (w *orderWorkflow) deleteOrderItems() error {
	return w.db.Where("order_id = ?", w.order.ID).Delete(&models.OrderItem{}).Error
}

func (w *orderWorkflow) restoreCart() error {
	rows := make([]models.CartItem, len(w.cartRows))
	for i, row := range w.cartRows {
		row.ID = 0 // fresh primary keys on reinsert
		rows[i] = row
	}
	return w.db.Create(&rows).Error
}

func (w *orderWorkflow) restoreStock() error {
	var firstErr error
	for productID, quantity := range w.decremented {
		err := w.db.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// generateOrderNumber builds a human-readable, collision-free order
// number: date prefix plus a uuid fragment.
func generateOrderNumber() string {
	return "ORD-" + time.Now().Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:8])
}
