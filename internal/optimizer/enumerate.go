package optimizer

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// Strategy selects how candidate routes are generated from the dataset.
type Strategy string

const (
	// StrategyStoreSubset enumerates ordered subsets of the individual
	// stores that price at least one item. Travel is one-way: the shopper
	// ends at the last store.
	StrategyStoreSubset Strategy = "store_subset"

	// StrategyRetailerSubset enumerates ordered subsets of retailers,
	// representing each by its store nearest the origin. Travel is a round
	// trip back to the origin.
	StrategyRetailerSubset Strategy = "retailer_subset"
)

// ParseStrategy converts a config or request string into a Strategy. The
// empty string is preserved, not defaulted: an unset request strategy must
// reach the planner empty so the configured default can apply.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyStoreSubset, StrategyRetailerSubset, "":
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// RoundTrip reports whether routes under this strategy include a return leg
// to the origin.
func (s Strategy) RoundTrip() bool {
	return s == StrategyRetailerSubset
}

// RouteEnumerator generates every candidate visit order for a dataset.
type RouteEnumerator struct {
	ref    *refdata.Set
	logger zerolog.Logger
}

// NewRouteEnumerator creates an enumerator over a reference set.
func NewRouteEnumerator(ref *refdata.Set, logger zerolog.Logger) *RouteEnumerator {
	return &RouteEnumerator{
		ref:    ref,
		logger: logger.With().Str("component", "route_enumerator").Logger(),
	}
}

// Enumerate returns every ordered store subset of size 1..maxStores drawn
// from the stores present in the dataset. Enumeration order is fully
// deterministic: candidates keep first-appearance dataset order, subsets are
// generated in ascending index order and orderings in lexicographic index
// order. EnumIndex records each route's position in that sequence.
func (e *RouteEnumerator) Enumerate(dataset []PriceDatasetEntry, origin refdata.LatLng, maxStores int, strategy Strategy) ([]Route, error) {
	if maxStores < 1 {
		return nil, ErrInvalidRequest{Field: "max_stores", Reason: "must be at least 1"}
	}

	var routes []Route
	var err error
	switch strategy {
	case StrategyRetailerSubset:
		routes, err = e.enumerateRetailerSubsets(dataset, origin, maxStores)
	default:
		routes, err = e.enumerateStoreSubsets(dataset, maxStores)
	}
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}

	e.logger.Debug().
		Str("strategy", string(strategy)).
		Int("routes", len(routes)).
		Msg("Candidate routes enumerated")

	return routes, nil
}

func (e *RouteEnumerator) enumerateStoreSubsets(dataset []PriceDatasetEntry, maxStores int) ([]Route, error) {
	candidates, err := e.candidateStores(dataset)
	if err != nil {
		return nil, err
	}

	n := len(candidates)
	if maxStores > n {
		maxStores = n
	}

	var routes []Route
	idx := 0
	for size := 1; size <= maxStores; size++ {
		for _, combo := range combinations(n, size) {
			for _, perm := range permutations(combo) {
				stores := make([]*refdata.Store, len(perm))
				for i, c := range perm {
					stores[i] = candidates[c]
				}
				routes = append(routes, Route{Stores: stores, EnumIndex: idx})
				idx++
			}
		}
	}
	return routes, nil
}

func (e *RouteEnumerator) enumerateRetailerSubsets(dataset []PriceDatasetEntry, origin refdata.LatLng, maxStores int) ([]Route, error) {
	candidates, err := e.candidateStores(dataset)
	if err != nil {
		return nil, err
	}

	// One representative store per retailer: the candidate nearest the
	// origin, first seen winning ties.
	var retailerIDs []string
	repByRetailer := make(map[string]*refdata.Store)
	for _, st := range candidates {
		rep, seen := repByRetailer[st.RetailerID]
		if !seen {
			retailerIDs = append(retailerIDs, st.RetailerID)
			repByRetailer[st.RetailerID] = st
			continue
		}
		if HaversineKm(origin, st.Location) < HaversineKm(origin, rep.Location) {
			repByRetailer[st.RetailerID] = st
		}
	}

	n := len(retailerIDs)
	if maxStores > n {
		maxStores = n
	}

	var routes []Route
	idx := 0
	for size := 1; size <= maxStores; size++ {
		for _, combo := range combinations(n, size) {
			for _, perm := range permutations(combo) {
				stores := make([]*refdata.Store, len(perm))
				retailers := make([]string, len(perm))
				for i, c := range perm {
					retailers[i] = retailerIDs[c]
					stores[i] = repByRetailer[retailerIDs[c]]
				}
				routes = append(routes, Route{Stores: stores, Retailers: retailers, EnumIndex: idx})
				idx++
			}
		}
	}
	return routes, nil
}

// candidateStores returns the distinct stores referenced by the dataset in
// first-appearance order. A dataset store missing from the reference set is
// a hard failure: stores are never silently dropped from a route.
func (e *RouteEnumerator) candidateStores(dataset []PriceDatasetEntry) ([]*refdata.Store, error) {
	var stores []*refdata.Store
	seen := make(map[string]bool)
	for i := range dataset {
		st := dataset[i].Store
		if seen[st.StoreID] {
			continue
		}
		if _, ok := e.ref.StoreByID(st.StoreID); !ok {
			return nil, ErrUnknownStore{StoreID: st.StoreID}
		}
		seen[st.StoreID] = true
		stores = append(stores, st)
	}
	return stores, nil
}

// combinations returns all size-k index subsets of [0,n) in ascending order.
func combinations(n, k int) [][]int {
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}

// permutations returns every ordering of the given indices, generated in
// lexicographic order of positions within the input slice.
func permutations(indices []int) [][]int {
	var out [][]int
	perm := make([]int, 0, len(indices))
	used := make([]bool, len(indices))
	var walk func()
	walk = func() {
		if len(perm) == len(indices) {
			out = append(out, append([]int(nil), perm...))
			return
		}
		for i, v := range indices {
			if used[i] {
				continue
			}
			used[i] = true
			perm = append(perm, v)
			walk()
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk()
	return out
}
