package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/Baratelli/BaratelliMayorista/configs"
	"github.com/Baratelli/BaratelliMayorista/internal/auth"
	"github.com/Baratelli/BaratelliMayorista/internal/db"
	"github.com/Baratelli/BaratelliMayorista/internal/events"
	"github.com/Baratelli/BaratelliMayorista/internal/handlers"
)

func main() {

	db.Init()
	db.InitRedis()
	auth.Init()
	events.Init()

	serverCfg := config.LoadServerConfig()

	r := gin.Default()

	// ── CORS ──
	corsCfg := cors.DefaultConfig()
	if serverCfg.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{serverCfg.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Content-Type", "Authorization"}
	r.Use(cors.New(corsCfg))

	// ── public endpoints ──
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"app":     "Baratelli Mayorista API",
			"version": "2.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	api := r.Group("/api")
	{
		api.POST("/auth/login", auth.Login)
		api.GET("/products", handlers.GetProducts)
		api.GET("/products/categories", handlers.GetCategories)
		api.GET("/products/:id", handlers.GetProduct)
		api.POST("/orders", handlers.CreateOrder)
	}

	// ── admin API ──
	admin := r.Group("/api")
	admin.Use(auth.RequireAuth())
	{
		admin.POST("/products", handlers.CreateProduct)
		admin.PUT("/products/:id", handlers.UpdateProduct)
		admin.DELETE("/products/:id", handlers.DeleteProduct)

		admin.GET("/orders", handlers.GetOrders)
		admin.GET("/orders/:id", handlers.GetOrder)
		admin.POST("/orders/:id/confirm", handlers.ConfirmOrder)
		admin.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		admin.DELETE("/orders/:id", handlers.DeleteOrder)

		admin.GET("/customers", handlers.GetCustomers)
		admin.GET("/customers/:id", handlers.GetCustomer)
		admin.PUT("/customers/:id", handlers.UpdateCustomer)

		admin.GET("/ranking", handlers.GetMonthlyRanking)
		admin.GET("/stats", handlers.GetStats)
	}

	r.Run(":" + serverCfg.Port)
}
