package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shoplyft/plan-service/internal/optimizer"
	"github.com/shoplyft/plan-service/internal/plans"
	"github.com/shoplyft/plan-service/internal/refdata"
)

// ============================================================================
// Plan Optimization Endpoints
// ============================================================================

// Fallback origin used when the client sends no location: Sydney CBD.
const (
	fallbackLatitude  = -33.871
	fallbackLongitude = 151.206
)

// PlanItem represents one parsed shopping-list line in the request
type PlanItem struct {
	CanonicalID   string  `json:"canonicalId" binding:"required"`
	CanonicalName string  `json:"canonicalName"`
	RequestedItem string  `json:"requestedItem"`
	Quantity      int     `json:"quantity" binding:"required,min=1"`
	Confidence    float64 `json:"confidence"`
}

// Location represents a geographic location
type Location struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// PlanOptimizeRequest represents the plan optimization request
type PlanOptimizeRequest struct {
	Items       []*PlanItem `json:"items" binding:"required,min=1,max=100"`
	Location    *Location   `json:"location,omitempty"`
	MaxStores   int         `json:"maxStores,omitempty"`
	PriceWeight float64     `json:"priceWeight,omitempty"`
	TimeWeight  float64     `json:"timeWeight,omitempty"`
	Strategy    string      `json:"strategy,omitempty"`
}

// BasketLineInfo is one purchased item inside a store basket
type BasketLineInfo struct {
	RequestedItem string `json:"requestedItem"`
	ProductName   string `json:"productName"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	LineTotal     int64  `json:"lineTotal"`
}

// StoreBasketInfo is the per-store shopping list of a plan
type StoreBasketInfo struct {
	StoreID              string            `json:"storeId"`
	RetailerID           string            `json:"retailerId"`
	StoreName            string            `json:"storeName"`
	Address              string            `json:"address"`
	Lines                []*BasketLineInfo `json:"lines"`
	Subtotal             int64             `json:"subtotal"`
	ClickCollectEligible bool              `json:"clickCollectEligible"`
	MinSpendRequired     int64             `json:"minSpendRequired"`
	Currency             string            `json:"currency,omitempty"`
}

// RouteSegmentInfo is one hop of the visit path; a null fromStoreId means
// the starting location and a null toStoreId means the return leg
type RouteSegmentInfo struct {
	FromStoreID   *string `json:"fromStoreId"`
	ToStoreID     *string `json:"toStoreId"`
	DistanceKm    float64 `json:"distanceKm"`
	TravelTimeMin float64 `json:"travelTimeMin"`
}

// OptimizationDetailsInfo is the score breakdown of the winning route
type OptimizationDetailsInfo struct {
	PriceComponent float64 `json:"priceComponent"`
	TimeComponent  float64 `json:"timeComponent"`
	TotalItems     int     `json:"totalItems"`
	StoreCount     int     `json:"storeCount"`
}

// PlanResponse represents a complete shopping plan
type PlanResponse struct {
	PlanID       string                  `json:"planId"`
	TotalCost    int64                   `json:"totalCost"`
	TotalTime    float64                 `json:"totalTime"`
	TravelTime   float64                 `json:"travelTime"`
	ShoppingTime float64                 `json:"shoppingTime"`
	TotalSavings int64                   `json:"totalSavings"`
	RouteScore   float64                 `json:"routeScore"`
	Origin       Location                `json:"origin"`
	Baskets      []*StoreBasketInfo      `json:"baskets"`
	Segments     []*RouteSegmentInfo     `json:"segments"`
	Details      OptimizationDetailsInfo `json:"details"`
	StoreCount   int                     `json:"storeCount"`
	GeneratedAt  time.Time               `json:"generatedAt"`
}

// Global instances (initialized by the application)
var (
	planner   *optimizer.Planner
	refSet    *refdata.Set
	planStore *plans.Store
)

// Init wires the handler package to its collaborators.
// This should be called during application startup.
func Init(p *optimizer.Planner, ref *refdata.Set, store *plans.Store) {
	planner = p
	refSet = ref
	planStore = store
}

// OptimizePlan handles plan optimization requests
// POST /api/plans/optimize
func OptimizePlan(c *gin.Context) {
	var req PlanOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if planner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Optimizer not initialized"})
		return
	}

	items := make([]optimizer.ParsedItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = optimizer.ParsedItem{
			CanonicalID:   item.CanonicalID,
			CanonicalName: item.CanonicalName,
			RequestedItem: item.RequestedItem,
			Quantity:      item.Quantity,
			Confidence:    item.Confidence,
		}
	}

	origin := refdata.LatLng{Lat: fallbackLatitude, Lng: fallbackLongitude}
	if req.Location != nil {
		origin = refdata.LatLng{Lat: req.Location.Latitude, Lng: req.Location.Longitude}
	}

	strategy, err := optimizer.ParseStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := planner.Plan(c.Request.Context(), optimizer.PlanRequest{
		Items:       items,
		Origin:      origin,
		MaxStores:   req.MaxStores,
		PriceWeight: req.PriceWeight,
		TimeWeight:  req.TimeWeight,
		Strategy:    strategy,
	})
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	response := toPlanResponse(plan)

	// Persist the plan; a save failure does not discard the result.
	if planStore != nil {
		payload, merr := json.Marshal(response)
		if merr != nil {
			log.Warn().Err(merr).Msg("Failed to serialize plan for archiving")
		} else if id, serr := planStore.Save(payload, plan.GeneratedAt); serr != nil {
			log.Warn().Err(serr).Msg("Failed to archive plan")
		} else {
			response.PlanID = id
		}
	}

	c.JSON(http.StatusOK, response)
}

func toPlanResponse(plan optimizer.ShoppingPlan) *PlanResponse {
	baskets := make([]*StoreBasketInfo, len(plan.Baskets))
	for i, b := range plan.Baskets {
		lines := make([]*BasketLineInfo, len(b.Lines))
		for j, l := range b.Lines {
			lines[j] = &BasketLineInfo{
				RequestedItem: l.RequestedItem,
				ProductName:   l.ProductName,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				LineTotal:     l.LineTotal,
			}
		}
		baskets[i] = &StoreBasketInfo{
			StoreID:              b.Store.StoreID,
			RetailerID:           b.Store.RetailerID,
			StoreName:            b.Store.Name,
			Address:              b.Store.Address,
			Lines:                lines,
			Subtotal:             b.Subtotal,
			ClickCollectEligible: b.ClickCollectEligible,
			MinSpendRequired:     b.MinSpendRequired,
			Currency:             b.Currency,
		}
	}

	segments := make([]*RouteSegmentInfo, len(plan.Segments))
	for i, s := range plan.Segments {
		seg := &RouteSegmentInfo{
			DistanceKm:    s.DistanceKm,
			TravelTimeMin: s.TravelTimeMin,
		}
		if s.From != nil {
			id := s.From.StoreID
			seg.FromStoreID = &id
		}
		if s.To != nil {
			id := s.To.StoreID
			seg.ToStoreID = &id
		}
		segments[i] = seg
	}

	return &PlanResponse{
		PlanID:       plan.PlanID,
		TotalCost:    plan.TotalCost,
		TotalTime:    plan.TotalTime,
		TravelTime:   plan.TravelTime,
		ShoppingTime: plan.ShoppingTime,
		TotalSavings: plan.TotalSavings,
		RouteScore:   plan.RouteScore,
		Origin:       Location{Latitude: plan.Origin.Lat, Longitude: plan.Origin.Lng},
		Baskets:      baskets,
		Segments:     segments,
		Details: OptimizationDetailsInfo{
			PriceComponent: plan.Details.PriceComponent,
			TimeComponent:  plan.Details.TimeComponent,
			TotalItems:     plan.Details.TotalItems,
			StoreCount:     plan.Details.StoreCount,
		},
		StoreCount:  plan.StoreCount,
		GeneratedAt: plan.GeneratedAt,
	}
}

// statusForError maps optimizer failures onto HTTP statuses: request-shape
// problems are 400, requests that are well-formed but unsatisfiable are 422,
// internal invariant violations are 500.
func statusForError(err error) int {
	var (
		unknownProduct optimizer.ErrUnknownProduct
		invalidRequest optimizer.ErrInvalidRequest
		invalidWeights optimizer.ErrInvalidWeights
	)
	switch {
	case errors.Is(err, optimizer.ErrEmptyBasket),
		errors.As(err, &invalidRequest),
		errors.As(err, &invalidWeights):
		return http.StatusBadRequest
	case errors.As(err, &unknownProduct),
		errors.Is(err, optimizer.ErrNoPriceData),
		errors.Is(err, optimizer.ErrNoRoutes):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
