package optimizer

import (
	"time"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// ParsedItem is one shopping-list line after natural-language parsing.
// The parser is an external collaborator; the optimizer only trusts a
// ParsedItem whose CanonicalID exists in the reference product set.
type ParsedItem struct {
	CanonicalID   string  // Canonical product identifier
	CanonicalName string  // Canonical product name for display
	RequestedItem string  // Original free-text request
	Quantity      int     // Requested quantity (must be >= 1)
	Confidence    float64 // Parser confidence (0.0-1.0)
}

// PriceDatasetEntry is one denormalized join row: an item priced at one
// store of one retailer. The dataset is fully precomputed before route
// enumeration starts; no lookups happen inside scoring.
type PriceDatasetEntry struct {
	CanonicalID       string
	CanonicalName     string
	RequestedItem     string
	Quantity          int
	RetailerID        string
	RetailerProductID string
	ProductName       string // Retailer-specific display name
	UnitPrice         int64  // Minor currency units
	Store             *refdata.Store
}

// Route is an ordered sequence of distinct stores to visit. Routes are
// immutable once enumerated; EnumIndex records the deterministic
// enumeration position used for tie-breaking.
type Route struct {
	Stores    []*refdata.Store
	Retailers []string // Retailer set for the retailer-subset strategy, nil otherwise
	EnumIndex int
}

// ItemAssignment binds one canonical item to its chosen dataset entry
// within a route.
type ItemAssignment struct {
	Entry     *PriceDatasetEntry
	LineTotal int64 // UnitPrice * Quantity
}

// ScoredRoute is a candidate route with its assignments and aggregate cost
// breakdown. One is created per candidate during scoring; only the winner
// survives selection.
type ScoredRoute struct {
	Route       Route
	Assignments map[string]ItemAssignment // canonical_id -> assignment
	TotalPrice  int64
	TravelTime  float64 // minutes
	InStoreTime float64 // minutes
	TotalTime   float64 // TravelTime + InStoreTime, exactly
	PriceScore  float64 // TotalPrice normalized by the price reference scale
	TimeScore   float64 // TotalTime normalized by the time reference scale
	TotalScore  float64 // Weighted combination; lower is better
	ItemCount   int
}

// BasketLine is one purchased item inside a store basket.
type BasketLine struct {
	RequestedItem string
	ProductName   string
	Quantity      int
	UnitPrice     int64
	LineTotal     int64
}

// StoreBasket groups the winning route's items for a single store stop.
type StoreBasket struct {
	Store                *refdata.Store
	Lines                []BasketLine
	Subtotal             int64
	ClickCollectEligible bool
	MinSpendRequired     int64
	Currency             string
}

// RouteSegment is one hop of the visit path. A nil From means the starting
// location; a nil To means the return leg back to it.
type RouteSegment struct {
	From          *refdata.Store
	To            *refdata.Store
	DistanceKm    float64
	TravelTimeMin float64
}

// OptimizationDetails is the score breakdown attached to a plan.
type OptimizationDetails struct {
	PriceComponent float64 // Normalized price score of the winning route
	TimeComponent  float64 // Normalized time score of the winning route
	TotalItems     int
	StoreCount     int
}

// ShoppingPlan is the final, immutable output of one optimization request.
type ShoppingPlan struct {
	PlanID       string // Assigned on save by the plan store, empty until then
	TotalCost    int64
	TotalTime    float64
	TravelTime   float64
	ShoppingTime float64
	TotalSavings int64
	RouteScore   float64
	Origin       refdata.LatLng
	Baskets      []StoreBasket
	Segments     []RouteSegment
	Details      OptimizationDetails
	StoreCount   int
	GeneratedAt  time.Time
}

// PlanRequest carries one optimization request into the planner.
// Zero-valued MaxStores and weights fall back to the configured defaults.
type PlanRequest struct {
	Items       []ParsedItem
	Origin      refdata.LatLng
	MaxStores   int
	PriceWeight float64
	TimeWeight  float64
	Strategy    Strategy
}
