package optimizer

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// Weights is a validated, normalized pair of scoring weights.
type Weights struct {
	Price float64
	Time  float64
}

// RouteScorer assigns items to stores and computes the weighted cost score
// for candidate routes. Scoring is pure: the same route, dataset and weights
// always reproduce the same ScoredRoute.
type RouteScorer struct {
	cfg    *Config
	logger zerolog.Logger
}

// NewRouteScorer creates a scorer with the given configuration.
func NewRouteScorer(cfg *Config, logger zerolog.Logger) *RouteScorer {
	return &RouteScorer{
		cfg:    cfg,
		logger: logger.With().Str("component", "route_scorer").Logger(),
	}
}

// Score evaluates one route against the full dataset.
//
// Each canonical item is assigned to the in-route entry with the lowest unit
// price; on ties the entry seen first in dataset order wins. Items with no
// in-route supplier are omitted from the assignment. Travel time follows the
// visit order from the origin; round-trip strategies add the leg back.
func (s *RouteScorer) Score(route Route, dataset []PriceDatasetEntry, origin refdata.LatLng, weights Weights, roundTrip bool) ScoredRoute {
	inRoute := make(map[string]bool, len(route.Stores))
	for _, st := range route.Stores {
		inRoute[st.StoreID] = true
	}

	assignments := make(map[string]ItemAssignment)
	for i := range dataset {
		entry := &dataset[i]
		if !inRoute[entry.Store.StoreID] {
			continue
		}
		current, ok := assignments[entry.CanonicalID]
		if ok && entry.UnitPrice >= current.Entry.UnitPrice {
			continue
		}
		assignments[entry.CanonicalID] = ItemAssignment{
			Entry:     entry,
			LineTotal: entry.UnitPrice * int64(entry.Quantity),
		}
	}

	var totalPrice int64
	for _, a := range assignments {
		totalPrice += a.LineTotal
	}

	travelTime := 0.0
	prev := origin
	for _, st := range route.Stores {
		travelTime += TravelTimeMin(prev, st.Location)
		prev = st.Location
	}
	if roundTrip && len(route.Stores) > 0 {
		travelTime += TravelTimeMin(prev, origin)
	}

	itemCount := len(assignments)
	inStoreTime := s.cfg.DwellMinutesPerItem * float64(itemCount)
	totalTime := travelTime + inStoreTime

	priceScore := float64(totalPrice) / float64(s.cfg.PriceNormCents)
	timeScore := totalTime / s.cfg.TimeNormMinutes

	return ScoredRoute{
		Route:       route,
		Assignments: assignments,
		TotalPrice:  totalPrice,
		TravelTime:  travelTime,
		InStoreTime: inStoreTime,
		TotalTime:   totalTime,
		PriceScore:  priceScore,
		TimeScore:   timeScore,
		TotalScore:  weights.Price*priceScore + weights.Time*timeScore,
		ItemCount:   itemCount,
	}
}

// ScoreAll scores every candidate in parallel. Each route is scored from the
// immutable dataset with no shared mutable state, so sharding the candidate
// list only changes wall-clock time. Results keep enumeration order.
func (s *RouteScorer) ScoreAll(ctx context.Context, routes []Route, dataset []PriceDatasetEntry, origin refdata.LatLng, weights Weights, roundTrip bool) ([]ScoredRoute, error) {
	scored := make([]ScoredRoute, len(routes))

	workers := s.cfg.ScoreWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var once sync.Once
	for i := range routes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				once.Do(func() {
					s.logger.Warn().Err(err).Msg("Scoring abandoned")
				})
				return err
			}
			scored[i] = s.Score(routes[i], dataset, origin, weights, roundTrip)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

// SelectOptimal returns the scored route with the minimum total score.
// Exact ties go to the lower enumeration index, so selection is
// deterministic regardless of how scoring was parallelized.
func SelectOptimal(scored []ScoredRoute) (ScoredRoute, error) {
	if len(scored) == 0 {
		return ScoredRoute{}, ErrNoOptimalRoute
	}
	best := scored[0]
	for _, sr := range scored[1:] {
		if sr.TotalScore < best.TotalScore ||
			(sr.TotalScore == best.TotalScore && sr.Route.EnumIndex < best.Route.EnumIndex) {
			best = sr
		}
	}
	return best, nil
}
