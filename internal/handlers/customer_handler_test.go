package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Baratelli/BaratelliMayorista/internal/handlers"
	"github.com/Baratelli/BaratelliMayorista/internal/models"
)

func setupCustomerTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := setupTestDB(t)

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/customers", handlers.GetCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)
		api.PUT("/customers/:id", handlers.UpdateCustomer)
		api.GET("/ranking", handlers.GetMonthlyRanking)
		api.GET("/stats", handlers.GetStats)
	}

	return r, testDB
}

// seedOrder writes a finished order directly, bypassing the checkout flow, so
// aggregate tests can control status and confirmation time.
func seedOrder(testDB *gorm.DB, customerID uint, status string, total float64, confirmedAt *time.Time, quantities ...int) models.Order {
	order := models.Order{
		CustomerID:  &customerID,
		Status:      status,
		Subtotal:    total,
		Total:       total,
		ConfirmedAt: confirmedAt,
	}
	testDB.Create(&order)
	for _, q := range quantities {
		testDB.Create(&models.OrderItem{
			OrderID:     order.ID,
			ProductName: "Seeded",
			Quantity:    q,
			UnitPrice:   total,
			Subtotal:    total,
		})
	}
	return order
}

func seedCustomer(testDB *gorm.DB, name, phone string) models.Customer {
	customer := models.Customer{Name: name, Phone: phone}
	testDB.Create(&customer)
	return customer
}

// TestGetCustomersHandler
func TestGetCustomersHandler(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	now := time.Now()
	big := seedCustomer(testDB, "Maria Lopez", "1155551234")
	small := seedCustomer(testDB, "Jorge Diaz", "1155555678")
	seedCustomer(testDB, "Ana Gomez", "1155559999")

	seedOrder(testDB, big.ID, models.StatusConfirmed, 5000, &now)
	seedOrder(testDB, big.ID, models.StatusDelivered, 3000, &now)
	seedOrder(testDB, big.ID, models.StatusPending, 9999, nil)
	seedOrder(testDB, small.ID, models.StatusConfirmed, 1000, &now)

	t.Run("Aggregates spend over confirmed and delivered orders", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/customers", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var customers []handlers.CustomerSummary
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
		assert.Len(t, customers, 3)

		// biggest spender first
		assert.Equal(t, "Maria Lopez", customers[0].Name)
		assert.Equal(t, int64(3), customers[0].TotalOrders)
		assert.Equal(t, 8000.0, customers[0].TotalSpent)

		assert.Equal(t, "Jorge Diaz", customers[1].Name)
		assert.Equal(t, 1000.0, customers[1].TotalSpent)

		assert.Equal(t, "Ana Gomez", customers[2].Name)
		assert.Equal(t, int64(0), customers[2].TotalOrders)
		assert.Equal(t, 0.0, customers[2].TotalSpent)
	})

	t.Run("Searches by name or phone", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/customers?search=maria", nil))

		var customers []handlers.CustomerSummary
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
		assert.Len(t, customers, 1)
		assert.Equal(t, "Maria Lopez", customers[0].Name)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/customers?search=5678", nil))

		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
		assert.Len(t, customers, 1)
		assert.Equal(t, "Jorge Diaz", customers[0].Name)
	})
}

// TestGetCustomerHandler
func TestGetCustomerHandler(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	customer := seedCustomer(testDB, "Maria Lopez", "1155551234")
	now := time.Now()
	seedOrder(testDB, customer.ID, models.StatusConfirmed, 5000, &now, 2, 3)

	t.Run("Returns the customer with order history", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, fmt.Sprintf("/api/customers/%d", customer.ID), nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Customer
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, customer.ID, got.ID)
		assert.Len(t, got.Orders, 1)
		assert.Len(t, got.Orders[0].Items, 2)
	})

	t.Run("Returns an empty history for a fresh customer", func(t *testing.T) {
		fresh := seedCustomer(testDB, "Ana Gomez", "1155559999")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, fmt.Sprintf("/api/customers/%d", fresh.ID), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"orders":[]`)
	})

	t.Run("Returns 404 for an unknown customer", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/customers/99999", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestUpdateCustomerHandler
func TestUpdateCustomerHandler(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	customer := seedCustomer(testDB, "Maria Lopez", "1155551234")

	t.Run("Updates only the provided fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPut, fmt.Sprintf("/api/customers/%d", customer.ID), gin.H{
			"notes": "prefers morning deliveries",
		}))

		assert.Equal(t, http.StatusOK, w.Code)

		var stored models.Customer
		assert.NoError(t, testDB.First(&stored, customer.ID).Error)
		assert.Equal(t, "prefers morning deliveries", stored.Notes)
		assert.Equal(t, "Maria Lopez", stored.Name)
		assert.Equal(t, "1155551234", stored.Phone)
	})

	t.Run("Returns 404 for an unknown customer", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodPut, "/api/customers/99999", gin.H{"notes": "x"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestGetMonthlyRankingHandler
func TestGetMonthlyRankingHandler(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	thisMonth := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)
	lastMonth := time.Date(2026, time.February, 15, 12, 0, 0, 0, time.Local)

	maria := seedCustomer(testDB, "Maria Lopez", "1155551234")
	jorge := seedCustomer(testDB, "Jorge Diaz", "1155555678")

	seedOrder(testDB, maria.ID, models.StatusConfirmed, 5000, &thisMonth, 2, 3)
	seedOrder(testDB, maria.ID, models.StatusDelivered, 2000, &thisMonth, 1)
	seedOrder(testDB, maria.ID, models.StatusConfirmed, 9000, &lastMonth)
	seedOrder(testDB, jorge.ID, models.StatusConfirmed, 3000, &thisMonth, 4)
	// pending orders never rank
	seedOrder(testDB, jorge.ID, models.StatusPending, 50000, nil)

	t.Run("Ranks customers by spend in the month", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/ranking?month=2026-3", nil))

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Month   string                  `json:"month"`
			Ranking []handlers.RankingEntry `json:"ranking"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2026-03", resp.Month)
		assert.Len(t, resp.Ranking, 2)

		first := resp.Ranking[0]
		assert.Equal(t, "Maria Lopez", first.Name)
		assert.Equal(t, 1, first.Rank)
		assert.Equal(t, int64(2), first.OrdersCount)
		assert.Equal(t, int64(6), first.ItemsBought)
		assert.Equal(t, 7000.0, first.TotalSpent)
		assert.Equal(t, 9000.0, first.PrevMonth)
		assert.Equal(t, -2000.0, first.Trend)

		second := resp.Ranking[1]
		assert.Equal(t, "Jorge Diaz", second.Name)
		assert.Equal(t, 2, second.Rank)
		assert.Equal(t, 0.0, second.PrevMonth)
		assert.Equal(t, 3000.0, second.Trend)
	})

	t.Run("Returns an empty ranking for a quiet month", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/ranking?month=2025-07", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"ranking":[]`)
	})

	t.Run("Gives tied spenders the same rank", func(t *testing.T) {
		month := time.Date(2026, time.May, 5, 12, 0, 0, 0, time.Local)

		ana := seedCustomer(testDB, "Ana Gomez", "1155559999")
		luis := seedCustomer(testDB, "Luis Paz", "1155550000")
		carla := seedCustomer(testDB, "Carla Ruiz", "1155551111")

		seedOrder(testDB, ana.ID, models.StatusConfirmed, 4000, &month)
		seedOrder(testDB, luis.ID, models.StatusConfirmed, 4000, &month)
		seedOrder(testDB, carla.ID, models.StatusConfirmed, 1500, &month)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/ranking?month=2026-05", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ranking []handlers.RankingEntry `json:"ranking"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Ranking, 3)
		assert.Equal(t, 1, resp.Ranking[0].Rank)
		assert.Equal(t, 1, resp.Ranking[1].Rank)
		assert.Equal(t, "Carla Ruiz", resp.Ranking[2].Name)
		assert.Equal(t, 3, resp.Ranking[2].Rank)
	})

	t.Run("Rejects a malformed month", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/ranking?month=march", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/ranking?month=2026-13", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestGetStatsHandler
func TestGetStatsHandler(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	seedProduct(testDB, "Yerba Mate 1kg", "Almacen", 1200, 10)
	hidden := seedProduct(testDB, "Discontinued", "Almacen", 500, 0)
	testDB.Model(&hidden).Update("active", false)

	customer := seedCustomer(testDB, "Maria Lopez", "1155551234")

	now := time.Now()
	prev := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	seedOrder(testDB, customer.ID, models.StatusConfirmed, 5000, &now)
	seedOrder(testDB, customer.ID, models.StatusConfirmed, 2500, &prev)
	seedOrder(testDB, customer.ID, models.StatusPending, 800, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products  int64 `json:"products"`
		Customers int64 `json:"customers"`
		Orders    struct {
			Pending   int64 `json:"pending"`
			Confirmed int64 `json:"confirmed"`
			Total     int64 `json:"total"`
		} `json:"orders"`
		Revenue struct {
			ThisMonth float64 `json:"this_month"`
			LastMonth float64 `json:"last_month"`
			GrowthPct *int    `json:"growth_pct"`
		} `json:"revenue"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(1), resp.Products)
	assert.Equal(t, int64(1), resp.Customers)
	assert.Equal(t, int64(1), resp.Orders.Pending)
	assert.Equal(t, int64(2), resp.Orders.Confirmed)
	assert.Equal(t, int64(3), resp.Orders.Total)
	assert.Equal(t, 5000.0, resp.Revenue.ThisMonth)
	assert.Equal(t, 2500.0, resp.Revenue.LastMonth)
	if assert.NotNil(t, resp.Revenue.GrowthPct) {
		assert.Equal(t, 100, *resp.Revenue.GrowthPct)
	}
}

func TestGetStatsGrowthUndefined(t *testing.T) {
	router, testDB := setupCustomerTestRouter(t)

	customer := seedCustomer(testDB, "Maria Lopez", "1155551234")
	now := time.Now()
	seedOrder(testDB, customer.ID, models.StatusConfirmed, 5000, &now)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"growth_pct":null`)
}
