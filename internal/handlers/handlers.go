package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Baratelli/BaratelliMayorista/internal/db"
)

// internalError logs the cause server-side and answers with a generic
// message; database details never reach the client.
func internalError(c *gin.Context, message string, err error) {
	log.Printf("%s: %v", message, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

const (
	catalogCacheKey = "products:all"
	catalogCacheTTL = 60 * time.Second
)

// invalidateCatalogCache drops the cached public catalog. Called on every
// write that changes what the catalog shows, including stock decrements at
// order confirmation.
func invalidateCatalogCache(ctx context.Context) {
	if db.RDB == nil {
		return
	}
	if err := db.RDB.Del(ctx, catalogCacheKey).Err(); err != nil {
		log.Printf("failed to invalidate catalog cache: %v", err)
	}
}
