package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baratelli/BaratelliMayorista/internal/db"
	"github.com/Baratelli/BaratelliMayorista/internal/events"
	"github.com/Baratelli/BaratelliMayorista/internal/models"
	"github.com/Baratelli/BaratelliMayorista/internal/notifier"
	"github.com/Baratelli/BaratelliMayorista/internal/pricing"
)

type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Items           []OrderItemRequest `json:"items"`
}

// POST /api/orders — public. Creates the order in "pending" state inside one
// transaction: resolves the customer by phone, checks availability under
// shared locks and prices every line. Stock is NOT touched here — abandoned
// orders must never reserve inventory; the authoritative check happens at
// confirmation.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.CustomerName == "" || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer name and items are required"})
		return
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item quantity must be at least 1"})
			return
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		internalError(c, "failed to start transaction", tx.Error)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// 1. Find or create the customer. No phone means an anonymous order: the
	// name is still recorded on the order itself.
	var customerID *uint
	if req.CustomerPhone != "" {
		var existing models.Customer
		err := tx.Where("phone = ?", req.CustomerPhone).First(&existing).Error
		switch {
		case err == nil:
			// last write wins on name/address
			updates := map[string]interface{}{"name": req.CustomerName, "address": req.CustomerAddress}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				tx.Rollback()
				internalError(c, "failed to update customer", err)
				return
			}
			customerID = &existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer := models.Customer{
				Name:    req.CustomerName,
				Phone:   req.CustomerPhone,
				Address: req.CustomerAddress,
			}
			if err := tx.Create(&customer).Error; err != nil {
				tx.Rollback()
				internalError(c, "failed to create customer", err)
				return
			}
			customerID = &customer.ID
		default:
			tx.Rollback()
			internalError(c, "failed to look up customer", err)
			return
		}
	}

	// 2. Check availability and price each line. FOR SHARE keeps concurrent
	// confirmations from moving stock under us while letting other creations
	// read the same rows.
	var subtotal, discount, total float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		var product models.Product
		err := db.ForShare(tx).
			Where("id = ? AND active = ?", line.ProductID, true).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("product %d not found", line.ProductID)})
			return
		}
		if err != nil {
			tx.Rollback()
			internalError(c, "failed to fetch product", err)
			return
		}

		if product.Stock < line.Quantity {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("insufficient stock for %q (available: %d)", product.Name, product.Stock),
			})
			return
		}

		quote := pricing.QuoteLine(product.Price, product.PriceBulk, line.Quantity)
		subtotal += product.Price * float64(line.Quantity)
		discount += quote.Saving
		total += quote.Subtotal

		productID := product.ID
		items = append(items, models.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   quote.UnitPrice,
			Subtotal:    quote.Subtotal,
		})
	}

	// 3. Pending order with the customer snapshot and the totals computed
	// once, never recomputed.
	order := models.Order{
		CustomerID:      customerID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Status:          models.StatusPending,
		Subtotal:        subtotal,
		Discount:        discount,
		Total:           total,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		internalError(c, "failed to create order", err)
		return
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := tx.CreateInBatches(&items, len(items)).Error; err != nil {
		tx.Rollback()
		internalError(c, "failed to create order items", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		internalError(c, "failed to commit order", err)
		return
	}

	go notifier.NotifyNewOrder(order.ID, order.CustomerName, order.Total)
	events.Emit("order.created", gin.H{
		"order_id":    order.ID,
		"customer_id": customerID,
		"total":       order.Total,
		"created_at":  order.CreatedAt,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order_id":    order.ID,
		"customer_id": customerID,
		"subtotal":    subtotal,
		"discount":    discount,
		"total":       total,
		"status":      models.StatusPending,
		"message":     "order placed, awaiting confirmation",
	})
}

// POST /api/orders/:id/confirm — admin. The authoritative, race-safe side of
// the two-phase design: locks the order and its products exclusively,
// re-checks stock and decrements it, all in one transaction. Not idempotent:
// anything past "pending" is a conflict.
func ConfirmOrder(c *gin.Context) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		internalError(c, "failed to start transaction", tx.Error)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var order models.Order
	err := db.ForUpdate(tx).First(&order, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		tx.Rollback()
		internalError(c, "failed to fetch order", err)
		return
	}

	if order.Status != models.StatusPending {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("order is already %q", order.Status)})
		return
	}

	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		tx.Rollback()
		internalError(c, "failed to fetch order items", err)
		return
	}

	for _, item := range items {
		// lines without a product reference have no stock to move
		if item.ProductID == nil {
			continue
		}

		var product models.Product
		err := db.ForUpdate(tx).First(&product, "id = ?", *item.ProductID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			tx.Rollback()
			internalError(c, "failed to fetch product", err)
			return
		}

		if product.Stock < item.Quantity {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("insufficient stock for %q", item.ProductName),
			})
			return
		}

		err = tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error
		if err != nil {
			tx.Rollback()
			internalError(c, "failed to update stock", err)
			return
		}
	}

	now := time.Now()
	err = tx.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{"status": models.StatusConfirmed, "confirmed_at": now}).Error
	if err != nil {
		tx.Rollback()
		internalError(c, "failed to confirm order", err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		internalError(c, "failed to commit confirmation", err)
		return
	}

	order.Status = models.StatusConfirmed
	order.ConfirmedAt = &now
	order.Items = items

	invalidateCatalogCache(c.Request.Context())
	events.Emit("order.confirmed", gin.H{
		"order_id":     order.ID,
		"customer_id":  order.CustomerID,
		"total":        order.Total,
		"confirmed_at": now,
	})

	c.JSON(http.StatusOK, gin.H{"message": "order confirmed and stock updated", "order": order})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/orders/:id/status — admin, free-form within the closed set. No
// transition graph is enforced beyond what /confirm mediates; "delivered"
// additionally stamps delivered_at.
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if !models.IsValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("invalid status, valid values: %v", models.OrderStatuses),
		})
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.StatusDelivered {
		updates["delivered_at"] = time.Now()
	}

	result := db.DB.Model(&models.Order{}).Where("id = ?", c.Param("id")).Updates(updates)
	if result.Error != nil {
		internalError(c, "failed to update order status", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	var order models.Order
	if err := db.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		internalError(c, "failed to fetch order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// GET /api/orders — admin
func GetOrders(c *gin.Context) {
	limit := 50
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v >= 0 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	query := db.DB.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	orders := make([]models.Order, 0)
	if err := query.Find(&orders).Error; err != nil {
		internalError(c, "failed to fetch orders", err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/:id — admin
func GetOrder(c *gin.Context) {
	var order models.Order
	err := db.DB.Preload("Items").First(&order, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch order", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DELETE /api/orders/:id — admin. Hard delete; items go with the order.
func DeleteOrder(c *gin.Context) {
	var order models.Order
	err := db.DB.First(&order, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch order", err)
		return
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		internalError(c, "failed to start transaction", tx.Error)
		return
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		internalError(c, "failed to delete order items", err)
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		internalError(c, "failed to delete order", err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		internalError(c, "failed to commit deletion", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}
