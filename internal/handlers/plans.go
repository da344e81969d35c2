package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shoplyft/plan-service/internal/export"
)

// ============================================================================
// Plan Archive Endpoints
// ============================================================================

// ListPlans handles plan listing requests
// GET /internal/plans?limit=N
func ListPlans(c *gin.Context) {
	if planStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plan store not initialized"})
		return
	}

	records := planStore.List()
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		records = planStore.Recent(limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": records,
		"total": len(records),
	})
}

// GetPlan handles single-plan lookups
// GET /internal/plans/:planId
func GetPlan(c *gin.Context) {
	if planStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plan store not initialized"})
		return
	}

	record, ok := planStore.Get(c.Param("planId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeletePlan handles plan deletion
// DELETE /internal/plans/:planId
func DeletePlan(c *gin.Context) {
	if planStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plan store not initialized"})
		return
	}

	deleted, err := planStore.Delete(c.Param("planId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan: " + err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "planId": c.Param("planId")})
}

// ExportPlan renders an archived plan as an Excel workbook
// GET /internal/plans/:planId/export
func ExportPlan(c *gin.Context) {
	if planStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plan store not initialized"})
		return
	}

	record, ok := planStore.Get(c.Param("planId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var plan PlanResponse
	if err := json.Unmarshal(record.Payload, &plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored plan is unreadable"})
		return
	}

	content, err := export.PlanXLSX(toExportPlan(record.PlanID, &plan))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render plan: " + err.Error()})
		return
	}

	filename := fmt.Sprintf("%s.xlsx", record.PlanID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		content)
}

func toExportPlan(planID string, plan *PlanResponse) export.Plan {
	baskets := make([]export.Basket, len(plan.Baskets))
	for i, b := range plan.Baskets {
		lines := make([]export.Line, len(b.Lines))
		for j, l := range b.Lines {
			lines[j] = export.Line{
				RequestedItem: l.RequestedItem,
				ProductName:   l.ProductName,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				LineTotal:     l.LineTotal,
			}
		}
		baskets[i] = export.Basket{
			StoreName:            b.StoreName,
			Address:              b.Address,
			Lines:                lines,
			Subtotal:             b.Subtotal,
			ClickCollectEligible: b.ClickCollectEligible,
			MinSpendRequired:     b.MinSpendRequired,
		}
	}

	segments := make([]export.Segment, len(plan.Segments))
	for i, s := range plan.Segments {
		segments[i] = export.Segment{
			FromName:      storeName(s.FromStoreID),
			ToName:        storeName(s.ToStoreID),
			DistanceKm:    s.DistanceKm,
			TravelTimeMin: s.TravelTimeMin,
		}
	}

	return export.Plan{
		PlanID:       planID,
		Baskets:      baskets,
		Segments:     segments,
		TotalCost:    plan.TotalCost,
		TotalSavings: plan.TotalSavings,
		TravelTime:   plan.TravelTime,
		ShoppingTime: plan.ShoppingTime,
		TotalTime:    plan.TotalTime,
		StoreCount:   plan.StoreCount,
	}
}

func storeName(storeID *string) string {
	if storeID == nil {
		return ""
	}
	if refSet != nil {
		if st, ok := refSet.StoreByID(*storeID); ok {
			return st.Name
		}
	}
	return *storeID
}

// PlanStats handles plan archive statistics
// GET /internal/plans/stats
func PlanStats(c *gin.Context) {
	if planStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Plan store not initialized"})
		return
	}
	c.JSON(http.StatusOK, planStore.Stats())
}
