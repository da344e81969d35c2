package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	ReferenceData string `json:"referenceData"`
	PlanArchive   string `json:"planArchive"`
	Products      int    `json:"products,omitempty"`
	Stores        int    `json:"stores,omitempty"`
	PlansStored   int    `json:"plansStored"`
}

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	response := HealthResponse{Status: "ok"}

	if refSet != nil {
		response.ReferenceData = "loaded"
		response.Products = len(refSet.Products)
		response.Stores = len(refSet.Stores)
	} else {
		response.ReferenceData = "not loaded"
		response.Status = "degraded"
	}

	if planStore != nil {
		response.PlanArchive = "available"
		response.PlansStored = planStore.Stats().Count
	} else {
		response.PlanArchive = "not configured"
	}

	if response.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
