package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baratelli/BaratelliMayorista/internal/db"
	"github.com/Baratelli/BaratelliMayorista/internal/models"
)

// GET /api/products — public catalog. The unfiltered listing is the hot path
// (the storefront polls it), so that variant goes through redis when
// available.
func GetProducts(c *gin.Context) {
	category := c.Query("category")
	search := c.Query("search")

	// "Todos" is the storefront's all-categories sentinel
	if category == "Todos" {
		category = ""
	}
	unfiltered := category == "" && search == ""

	if unfiltered && db.RDB != nil {
		if cached, err := db.RDB.Get(c.Request.Context(), catalogCacheKey).Result(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	query := db.DB.Where("active = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	products := make([]models.Product, 0)
	if err := query.Order("category, name ASC").Find(&products).Error; err != nil {
		internalError(c, "failed to fetch products", err)
		return
	}

	if unfiltered && db.RDB != nil {
		if data, err := json.Marshal(products); err == nil {
			db.RDB.Set(c.Request.Context(), catalogCacheKey, data, catalogCacheTTL)
		}
	}

	c.JSON(http.StatusOK, products)
}

// GET /api/products/categories
func GetCategories(c *gin.Context) {
	categories := make([]string, 0)
	err := db.DB.Model(&models.Product{}).
		Where("active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		internalError(c, "failed to fetch categories", err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GET /api/products/:id — inactive products are invisible to the public
func GetProduct(c *gin.Context) {
	var product models.Product
	err := db.DB.Where("id = ? AND active = ?", c.Param("id"), true).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	PriceBulk   *float64 `json:"price_bulk"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock"`
	Image       string   `json:"image"`
}

// POST /api/products — admin
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and category are required"})
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		PriceBulk:   req.PriceBulk,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       req.Image,
		Active:      true,
	}

	if err := db.DB.Create(&product).Error; err != nil {
		internalError(c, "failed to create product", err)
		return
	}

	invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusCreated, product)
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	PriceBulk   *float64 `json:"price_bulk"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
	Active      *bool    `json:"active"`
}

// PUT /api/products/:id — admin, partial update. Omitted fields keep their
// value, except price_bulk which is always overwritten: sending null clears
// it back to the computed wholesale fallback.
func UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var product models.Product
	err := db.DB.First(&product, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		internalError(c, "failed to fetch product", err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	product.PriceBulk = req.PriceBulk
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Image != nil {
		product.Image = *req.Image
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := db.DB.Save(&product).Error; err != nil {
		internalError(c, "failed to update product", err)
		return
	}

	invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

// DELETE /api/products/:id — admin. Soft delete: the row stays so order
// history keeps resolving; repeated deletes are harmless.
func DeleteProduct(c *gin.Context) {
	err := db.DB.Model(&models.Product{}).
		Where("id = ?", c.Param("id")).
		Update("active", false).Error
	if err != nil {
		internalError(c, "failed to delete product", err)
		return
	}

	invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}
