package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplyft/plan-service/internal/refdata"
)

func TestEnumerateStoreSubsets(t *testing.T) {
	ref := newTestRef(t)
	dataset := buildTestDataset(t, ref)
	enum := NewRouteEnumerator(ref, testLogger())

	routes, err := enum.Enumerate(dataset, testOrigin, 2, StrategyStoreSubset)
	require.NoError(t, err)

	// 3 singles + 3 pairs x 2 orderings.
	require.Len(t, routes, 9)

	for i, route := range routes {
		assert.Equal(t, i, route.EnumIndex)
		assert.LessOrEqual(t, len(route.Stores), 2)

		seen := make(map[string]bool)
		for _, st := range route.Stores {
			assert.False(t, seen[st.StoreID], "stores within a route must be distinct")
			seen[st.StoreID] = true
		}
	}

	// Shorter routes come first, in first-appearance dataset order.
	assert.Equal(t, "alpha_city", routes[0].Stores[0].StoreID)
	assert.Equal(t, "alpha_far", routes[1].Stores[0].StoreID)
	assert.Equal(t, "beta_mid", routes[2].Stores[0].StoreID)
}

func TestEnumerateMaxStoresOne(t *testing.T) {
	ref := newTestRef(t)
	dataset := buildTestDataset(t, ref)
	enum := NewRouteEnumerator(ref, testLogger())

	routes, err := enum.Enumerate(dataset, testOrigin, 1, StrategyStoreSubset)
	require.NoError(t, err)

	// Exactly one route per distinct store.
	require.Len(t, routes, 3)
	for _, route := range routes {
		assert.Len(t, route.Stores, 1)
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	ref := newTestRef(t)
	dataset := buildTestDataset(t, ref)
	enum := NewRouteEnumerator(ref, testLogger())

	first, err := enum.Enumerate(dataset, testOrigin, 3, StrategyStoreSubset)
	require.NoError(t, err)
	second, err := enum.Enumerate(dataset, testOrigin, 3, StrategyStoreSubset)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, len(first[i].Stores), len(second[i].Stores))
		for j := range first[i].Stores {
			assert.Equal(t, first[i].Stores[j].StoreID, second[i].Stores[j].StoreID)
		}
	}
}

func TestEnumerateRetailerSubsetsPicksNearestStore(t *testing.T) {
	ref := newTestRef(t)
	dataset := buildTestDataset(t, ref)
	enum := NewRouteEnumerator(ref, testLogger())

	routes, err := enum.Enumerate(dataset, testOrigin, 2, StrategyRetailerSubset)
	require.NoError(t, err)

	// 2 retailers: 2 singles + 1 pair x 2 orderings.
	require.Len(t, routes, 4)

	// Alpha is represented by its city store, which sits at the origin,
	// never the distant one.
	for _, route := range routes {
		for _, st := range route.Stores {
			assert.NotEqual(t, "alpha_far", st.StoreID)
		}
	}
	assert.Equal(t, []string{"alpha"}, routes[0].Retailers)
	assert.Equal(t, []string{"beta"}, routes[1].Retailers)
}

func TestEnumerateCapsRouteSizeAtCandidateCount(t *testing.T) {
	ref := newTestRef(t)
	dataset := buildTestDataset(t, ref)
	enum := NewRouteEnumerator(ref, testLogger())

	routes, err := enum.Enumerate(dataset, testOrigin, 10, StrategyStoreSubset)
	require.NoError(t, err)

	// 3 candidates: 3 + 6 + 6 routes across sizes 1..3.
	assert.Len(t, routes, 15)
}

func TestEnumerateRejectsUnknownStore(t *testing.T) {
	ref := newTestRef(t)
	enum := NewRouteEnumerator(ref, testLogger())

	// A dataset row pointing at a store outside the reference set must fail
	// the whole enumeration, never be silently dropped.
	ghost := &refdata.Store{StoreID: "ghost_store", RetailerID: "alpha"}
	dataset := append(buildTestDataset(t, ref), PriceDatasetEntry{
		CanonicalID: "milk", Quantity: 1, RetailerID: "alpha",
		RetailerProductID: "a_milk", UnitPrice: 300, Store: ghost,
	})

	for _, strategy := range []Strategy{StrategyStoreSubset, StrategyRetailerSubset} {
		_, err := enum.Enumerate(dataset, testOrigin, 3, strategy)
		var unknown ErrUnknownStore
		require.ErrorAs(t, err, &unknown, string(strategy))
		assert.Equal(t, "ghost_store", unknown.StoreID)
	}
}

func TestStrategyRoundTrip(t *testing.T) {
	assert.False(t, StrategyStoreSubset.RoundTrip())
	assert.True(t, StrategyRetailerSubset.RoundTrip())
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"", Strategy(""), false},
		{"store_subset", StrategyStoreSubset, false},
		{"retailer_subset", StrategyRetailerSubset, false},
		{"greedy", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}
