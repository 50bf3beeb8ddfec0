package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baratelli/BaratelliMayorista/internal/db"
	"github.com/Baratelli/BaratelliMayorista/internal/models"
)

// revenueStatuses is the inlined filter for every spend aggregate: only
// confirmed and delivered orders count as revenue.
const revenueStatuses = "('confirmed','delivered')"

type CustomerSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Email       string    `json:"email"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	TotalOrders int64     `json:"total_orders"`
	TotalSpent  float64   `json:"total_spent"`
}

// GET /api/customers — admin. Every row carries its lifetime order count and
// spend so the panel can sort big buyers first.
func GetCustomers(c *gin.Context) {
	query := db.DB.Model(&models.Customer{}).
		Select("customers.id, customers.name, customers.phone, customers.address, customers.email, customers.notes, customers.created_at, " +
			"COUNT(orders.id) AS total_orders, " +
			"COALESCE(SUM(CASE WHEN orders.status IN " + revenueStatuses + " THEN orders.total ELSE 0 END), 0) AS total_spent").
		Joins("LEFT JOIN orders ON orders.customer_id = customers.id").
		Group("customers.id").
		Order("total_spent DESC")

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(customers.name) LIKE ? OR LOWER(customers.phone) LIKE ?", pattern, pattern)
	}

	customers := make([]CustomerSummary, 0)
	if err := query.Scan(&customers).Error; err != nil {
		internalError(c, "failed to fetch customers", err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GET /api/customers/:id — admin, includes the full order history
func GetCustomer(c *gin.Context) {
	var customer models.Customer
	err := db.DB.
		Preload("Orders", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Preload("Orders.Items").
		First(&customer, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch customer", err)
		return
	}

	if customer.Orders == nil {
		customer.Orders = []models.Order{}
	}

	c.JSON(http.StatusOK, customer)
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

// PUT /api/customers/:id — admin, partial update; omitted fields keep their
// value.
func UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var customer models.Customer
	err := db.DB.First(&customer, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch customer", err)
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := db.DB.Save(&customer).Error; err != nil {
		internalError(c, "failed to update customer", err)
		return
	}

	if customer.Orders == nil {
		customer.Orders = []models.Order{}
	}

	c.JSON(http.StatusOK, customer)
}

type RankingEntry struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	OrdersCount int64   `json:"orders_count"`
	ItemsBought int64   `json:"items_bought"`
	TotalSpent  float64 `json:"total_spent"`
	Rank        int     `json:"rank"`
	PrevMonth   float64 `json:"prev_month"`
	Trend       float64 `json:"trend"`
}

// parseMonth accepts "YYYY-M" or "YYYY-MM"; empty means the current month.
func parseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid month %q", s)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || year < 1 || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", s)
	}
	return year, time.Month(month), nil
}

// monthlySpend aggregates confirmed/delivered spend per customer within
// [start, end), ordered by spend. Month windows are plain time ranges on
// confirmed_at so the query runs identically on postgres and sqlite.
func monthlySpend(start, end time.Time, limit int) ([]RankingEntry, error) {
	query := db.DB.Model(&models.Customer{}).
		Select("customers.id, customers.name, customers.phone, "+
			"COUNT(orders.id) AS orders_count, "+
			"COALESCE(SUM(orders.total), 0) AS total_spent").
		Joins("JOIN orders ON orders.customer_id = customers.id "+
			"AND orders.status IN "+revenueStatuses+" "+
			"AND orders.confirmed_at >= ? AND orders.confirmed_at < ?", start, end).
		Group("customers.id").
		Order("total_spent DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := make([]RankingEntry, 0)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GET /api/ranking?month=YYYY-M — admin. Top 20 customers by spend in the
// month, with the previous month's spend for comparison.
func GetMonthlyRanking(c *gin.Context) {
	year, month, err := parseMonth(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, expected YYYY-M"})
		return
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	prevStart := start.AddDate(0, -1, 0)

	ranking, err := monthlySpend(start, end, 20)
	if err != nil {
		internalError(c, "failed to fetch ranking", err)
		return
	}

	// items bought, per customer, summed separately so the order totals above
	// are not multiplied by the items join
	if len(ranking) > 0 {
		ids := make([]uint, len(ranking))
		for i, r := range ranking {
			ids[i] = r.ID
		}
		type itemCount struct {
			CustomerID uint
			Items      int64
		}
		counts := make([]itemCount, 0)
		err = db.DB.Model(&models.Order{}).
			Select("orders.customer_id AS customer_id, COALESCE(SUM(order_items.quantity), 0) AS items").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Where("orders.customer_id IN ? AND orders.status IN "+revenueStatuses+
				" AND orders.confirmed_at >= ? AND orders.confirmed_at < ?", ids, start, end).
			Group("orders.customer_id").
			Scan(&counts).Error
		if err != nil {
			internalError(c, "failed to fetch ranking items", err)
			return
		}
		itemsByCustomer := make(map[uint]int64, len(counts))
		for _, ic := range counts {
			itemsByCustomer[ic.CustomerID] = ic.Items
		}
		for i := range ranking {
			ranking[i].ItemsBought = itemsByCustomer[ranking[i].ID]
		}
	}

	prevRows, err := monthlySpend(prevStart, start, 0)
	if err != nil {
		internalError(c, "failed to fetch previous month", err)
		return
	}
	prevByCustomer := make(map[uint]float64, len(prevRows))
	for _, r := range prevRows {
		prevByCustomer[r.ID] = r.TotalSpent
	}

	for i := range ranking {
		// standard competition ranking: ties share a rank, the next
		// distinct spend skips past them
		if i > 0 && ranking[i].TotalSpent == ranking[i-1].TotalSpent {
			ranking[i].Rank = ranking[i-1].Rank
		} else {
			ranking[i].Rank = i + 1
		}
		ranking[i].PrevMonth = prevByCustomer[ranking[i].ID]
		ranking[i].Trend = ranking[i].TotalSpent - ranking[i].PrevMonth
	}

	c.JSON(http.StatusOK, gin.H{
		"month":   fmt.Sprintf("%d-%02d", year, int(month)),
		"ranking": ranking,
	})
}

// GET /api/stats — admin dashboard aggregates
func GetStats(c *gin.Context) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	prevStart := monthStart.AddDate(0, -1, 0)

	var productCount, customerCount int64
	var ordersTotal, ordersPending, ordersConfirmed int64

	if err := db.DB.Model(&models.Product{}).Where("active = ?", true).Count(&productCount).Error; err != nil {
		internalError(c, "failed to fetch stats", err)
		return
	}
	if err := db.DB.Model(&models.Customer{}).Count(&customerCount).Error; err != nil {
		internalError(c, "failed to fetch stats", err)
		return
	}
	if err := db.DB.Model(&models.Order{}).Count(&ordersTotal).Error; err != nil {
		internalError(c, "failed to fetch stats", err)
		return
	}
	if err := db.DB.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&ordersPending).Error; err != nil {
		internalError(c, "failed to fetch stats", err)
		return
	}
	if err := db.DB.Model(&models.Order{}).Where("status = ?", models.StatusConfirmed).Count(&ordersConfirmed).Error; err != nil {
		internalError(c, "failed to fetch stats", err)
		return
	}

	revenueIn := func(start, end time.Time) (float64, error) {
		var total float64
		err := db.DB.Model(&models.Order{}).
			Select("COALESCE(SUM(total), 0)").
			Where("status IN "+revenueStatuses+" AND confirmed_at >= ? AND confirmed_at < ?", start, end).
			Scan(&total).Error
		return total, err
	}

	thisMonth, err := revenueIn(monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		internalError(c, "failed to fetch revenue", err)
		return
	}
	lastMonth, err := revenueIn(prevStart, monthStart)
	if err != nil {
		internalError(c, "failed to fetch revenue", err)
		return
	}

	// growth is undefined against an empty month
	var growthPct *int
	if lastMonth > 0 {
		g := int(math.Round((thisMonth - lastMonth) / lastMonth * 100))
		growthPct = &g
	}

	c.JSON(http.StatusOK, gin.H{
		"products":  productCount,
		"customers": customerCount,
		"orders": gin.H{
			"pending":   ordersPending,
			"confirmed": ordersConfirmed,
			"total":     ordersTotal,
		},
		"revenue": gin.H{
			"this_month": thisMonth,
			"last_month": lastMonth,
			"growth_pct": growthPct,
		},
	})
}
