package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// Product Reference Endpoints
// ============================================================================

// ProductInfo represents a canonical product in search results
type ProductInfo struct {
	CanonicalID   string   `json:"canonicalId"`
	CanonicalName string   `json:"canonicalName"`
	Category      string   `json:"category,omitempty"`
	UnitType      string   `json:"unitType,omitempty"`
	Aliases       []string `json:"aliases,omitempty"`
}

// SearchProducts handles product search requests
// GET /internal/products/search?q=term
func SearchProducts(c *gin.Context) {
	if refSet == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reference data not initialized"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	matches := refSet.SearchProducts(query)
	results := make([]*ProductInfo, len(matches))
	for i, p := range matches {
		results[i] = &ProductInfo{
			CanonicalID:   p.CanonicalID,
			CanonicalName: p.CanonicalName,
			Category:      p.Category,
			UnitType:      p.UnitType,
			Aliases:       p.Aliases,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// GetProduct handles single-product lookups
// GET /internal/products/:canonicalId
func GetProduct(c *gin.Context) {
	if refSet == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Reference data not initialized"})
		return
	}

	p, ok := refSet.ProductByID(c.Param("canonicalId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, &ProductInfo{
		CanonicalID:   p.CanonicalID,
		CanonicalName: p.CanonicalName,
		Category:      p.Category,
		UnitType:      p.UnitType,
		Aliases:       p.Aliases,
	})
}
