package optimizer

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// BasketAssembler folds the winning route's assignments into per-store
// baskets and produces the final ShoppingPlan.
type BasketAssembler struct {
	ref    *refdata.Set
	logger zerolog.Logger
}

// NewBasketAssembler creates an assembler over a reference set.
func NewBasketAssembler(ref *refdata.Set, logger zerolog.Logger) *BasketAssembler {
	return &BasketAssembler{
		ref:    ref,
		logger: logger.With().Str("component", "basket_assembler").Logger(),
	}
}

// Assemble builds the plan for the selected route. Baskets appear in visit
// order and only for stores that received at least one assignment; segments
// cover the full visit path, with a nil From for the origin leg and, on
// round trips, a nil To for the return leg.
func (a *BasketAssembler) Assemble(winner ScoredRoute, dataset []PriceDatasetEntry, origin refdata.LatLng, roundTrip bool) ShoppingPlan {
	// Canonical IDs in first-appearance dataset order keep basket lines
	// deterministic.
	var canonicals []string
	seen := make(map[string]bool)
	for i := range dataset {
		id := dataset[i].CanonicalID
		if !seen[id] {
			seen[id] = true
			canonicals = append(canonicals, id)
		}
	}

	var baskets []StoreBasket
	for _, store := range winner.Route.Stores {
		var lines []BasketLine
		var subtotal int64
		for _, id := range canonicals {
			assign, ok := winner.Assignments[id]
			if !ok || assign.Entry.Store.StoreID != store.StoreID {
				continue
			}
			lines = append(lines, BasketLine{
				RequestedItem: assign.Entry.RequestedItem,
				ProductName:   assign.Entry.ProductName,
				Quantity:      assign.Entry.Quantity,
				UnitPrice:     assign.Entry.UnitPrice,
				LineTotal:     assign.LineTotal,
			})
			subtotal += assign.LineTotal
		}
		if len(lines) == 0 {
			continue
		}
		rule := a.ref.MinSpendFor(store.RetailerID)
		baskets = append(baskets, StoreBasket{
			Store:                store,
			Lines:                lines,
			Subtotal:             subtotal,
			ClickCollectEligible: subtotal >= rule.MinSpendCents,
			MinSpendRequired:     rule.MinSpendCents,
			Currency:             rule.Currency,
		})
	}

	var segments []RouteSegment
	prevLoc := origin
	var prevStore *refdata.Store
	for _, store := range winner.Route.Stores {
		segments = append(segments, RouteSegment{
			From:          prevStore,
			To:            store,
			DistanceKm:    HaversineKm(prevLoc, store.Location),
			TravelTimeMin: TravelTimeMin(prevLoc, store.Location),
		})
		prevLoc = store.Location
		prevStore = store
	}
	if roundTrip && prevStore != nil {
		segments = append(segments, RouteSegment{
			From:          prevStore,
			To:            nil,
			DistanceKm:    HaversineKm(prevLoc, origin),
			TravelTimeMin: TravelTimeMin(prevLoc, origin),
		})
	}

	savings := a.savings(winner, dataset)

	plan := ShoppingPlan{
		TotalCost:    winner.TotalPrice,
		TotalTime:    winner.TotalTime,
		TravelTime:   winner.TravelTime,
		ShoppingTime: winner.InStoreTime,
		TotalSavings: savings,
		RouteScore:   winner.TotalScore,
		Origin:       origin,
		Baskets:      baskets,
		Segments:     segments,
		Details: OptimizationDetails{
			PriceComponent: winner.PriceScore,
			TimeComponent:  winner.TimeScore,
			TotalItems:     winner.ItemCount,
			StoreCount:     len(baskets),
		},
		StoreCount:  len(baskets),
		GeneratedAt: time.Now().UTC(),
	}

	a.logger.Debug().
		Int("baskets", len(baskets)).
		Int64("total_cost", plan.TotalCost).
		Int64("total_savings", plan.TotalSavings).
		Msg("Shopping plan assembled")

	return plan
}

// savings compares the route total against the worst-case single-retailer
// baseline: the highest total among retailers that could supply every
// matched item at their cheapest price. Clamped at zero when no such
// retailer exists or the route costs more.
func (a *BasketAssembler) savings(winner ScoredRoute, dataset []PriceDatasetEntry) int64 {
	cheapest := make(map[string]map[string]int64) // retailer_id -> canonical_id -> unit price
	for i := range dataset {
		e := &dataset[i]
		byItem, ok := cheapest[e.RetailerID]
		if !ok {
			byItem = make(map[string]int64)
			cheapest[e.RetailerID] = byItem
		}
		if price, ok := byItem[e.CanonicalID]; !ok || e.UnitPrice < price {
			byItem[e.CanonicalID] = e.UnitPrice
		}
	}

	var baseline int64
	for _, byItem := range cheapest {
		var total int64
		covers := true
		for id, assign := range winner.Assignments {
			price, ok := byItem[id]
			if !ok {
				covers = false
				break
			}
			total += price * int64(assign.Entry.Quantity)
		}
		if covers && total > baseline {
			baseline = total
		}
	}

	if baseline <= winner.TotalPrice {
		return 0
	}
	return baseline - winner.TotalPrice
}
