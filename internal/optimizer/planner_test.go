package optimizer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	p, err := NewPlanner(newTestRef(t), Defaults(), NewMetricsRecorder(), testLogger())
	require.NoError(t, err)
	return p
}

// TestPlanPrefersNearbyStoreOverCheaperDistantOne exercises the core
// trade-off: beta undercuts alpha by 123 cents, but reaching its store costs
// far more weighted time than the price advantage buys.
func TestPlanPrefersNearbyStoreOverCheaperDistantOne(t *testing.T) {
	planner := newTestPlanner(t)

	plan, err := planner.Plan(context.Background(), PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		MaxStores:   2,
		PriceWeight: 0.8,
		TimeWeight:  0.2,
	})
	require.NoError(t, err)

	require.Len(t, plan.Baskets, 1)
	assert.Equal(t, "alpha_city", plan.Baskets[0].Store.StoreID)

	// Hand-computed from the fixture: 300+350+620 cents, zero travel from
	// the co-located origin, three items at two minutes each.
	assert.Equal(t, int64(1270), plan.TotalCost)
	assert.InDelta(t, 0.0, plan.TravelTime, 1e-9)
	assert.InDelta(t, 6.0, plan.ShoppingTime, 1e-9)
	assert.InDelta(t, 6.0, plan.TotalTime, 1e-9)
	assert.InDelta(t, 0.8*0.127+0.2*0.05, plan.RouteScore, 1e-12)
	assert.Equal(t, int64(0), plan.TotalSavings)
}

func TestPlanPriceOnlyWeightsPickCheapestRetailer(t *testing.T) {
	planner := newTestPlanner(t)

	plan, err := planner.Plan(context.Background(), PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		PriceWeight: 1.0,
	})
	require.NoError(t, err)

	require.Len(t, plan.Baskets, 1)
	assert.Equal(t, "beta_mid", plan.Baskets[0].Store.StoreID)
	assert.Equal(t, int64(1147), plan.TotalCost)
	assert.Equal(t, int64(123), plan.TotalSavings)
}

func TestPlanEmptyBasket(t *testing.T) {
	planner := newTestPlanner(t)

	_, err := planner.Plan(context.Background(), PlanRequest{Origin: testOrigin})
	assert.ErrorIs(t, err, ErrEmptyBasket)
}

func TestPlanUnknownCanonicalID(t *testing.T) {
	planner := newTestPlanner(t)

	_, err := planner.Plan(context.Background(), PlanRequest{
		Items:  []ParsedItem{{CanonicalID: "caviar", Quantity: 1}},
		Origin: testOrigin,
	})

	var unknown ErrUnknownProduct
	assert.ErrorAs(t, err, &unknown)
}

func TestPlanNoPriceData(t *testing.T) {
	planner, err := NewPlanner(newTestRefWithoutPrices(t), Defaults(), NewMetricsRecorder(), testLogger())
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), PlanRequest{
		Items:  testItems(),
		Origin: testOrigin,
	})
	assert.ErrorIs(t, err, ErrNoPriceData)
}

func TestPlanInvalidWeights(t *testing.T) {
	planner := newTestPlanner(t)

	tests := []struct {
		name  string
		price float64
		time  float64
	}{
		{"negative price weight", -0.5, 0.2},
		{"negative time weight", 0.8, -0.2},
		{"nan price weight", math.NaN(), 0.2},
		{"infinite time weight", 0.8, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := planner.Plan(context.Background(), PlanRequest{
				Items:       testItems(),
				Origin:      testOrigin,
				PriceWeight: tt.price,
				TimeWeight:  tt.time,
			})
			var invalid ErrInvalidWeights
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestPlanOversizedWeightsAreScaled(t *testing.T) {
	planner := newTestPlanner(t)

	// 8/2 scales to 0.8/0.2, so the result matches the default weighting.
	scaled, err := planner.Plan(context.Background(), PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		PriceWeight: 8,
		TimeWeight:  2,
	})
	require.NoError(t, err)

	baseline, err := planner.Plan(context.Background(), PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		PriceWeight: 0.8,
		TimeWeight:  0.2,
	})
	require.NoError(t, err)

	assert.InDelta(t, baseline.RouteScore, scaled.RouteScore, 1e-12)
	assert.Equal(t, baseline.TotalCost, scaled.TotalCost)
}

func TestPlanZeroWeightsFallBackToConfig(t *testing.T) {
	planner := newTestPlanner(t)

	defaulted, err := planner.Plan(context.Background(), PlanRequest{
		Items:  testItems(),
		Origin: testOrigin,
	})
	require.NoError(t, err)

	explicit, err := planner.Plan(context.Background(), PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		PriceWeight: 0.8,
		TimeWeight:  0.2,
	})
	require.NoError(t, err)

	assert.InDelta(t, explicit.RouteScore, defaulted.RouteScore, 1e-12)
}

// TestPlanStrategyDefaultsToConfig covers a request that leaves the strategy
// unset: the configured default decides the enumeration and travel model.
func TestPlanStrategyDefaultsToConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Strategy = string(StrategyRetailerSubset)
	planner, err := NewPlanner(newTestRef(t), cfg, NewMetricsRecorder(), testLogger())
	require.NoError(t, err)

	plan, err := planner.Plan(context.Background(), PlanRequest{
		Items:  testItems(),
		Origin: testOrigin,
	})
	require.NoError(t, err)

	// Retailer-subset plans are round trips: the last segment returns to the
	// origin, which a store-subset plan never does.
	require.NotEmpty(t, plan.Segments)
	assert.Nil(t, plan.Segments[len(plan.Segments)-1].To)

	defaulted := newTestPlanner(t)
	plan, err = defaulted.Plan(context.Background(), PlanRequest{
		Items:  testItems(),
		Origin: testOrigin,
	})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Segments)
	assert.NotNil(t, plan.Segments[len(plan.Segments)-1].To)
}

func TestPlanRetailerSubsetStrategy(t *testing.T) {
	planner := newTestPlanner(t)

	plan, err := planner.Plan(context.Background(), PlanRequest{
		Items:    testItems(),
		Origin:   testOrigin,
		Strategy: StrategyRetailerSubset,
	})
	require.NoError(t, err)

	// Round trip: the last segment returns to the origin.
	require.NotEmpty(t, plan.Segments)
	assert.Nil(t, plan.Segments[len(plan.Segments)-1].To)
}

func TestPlanDeterministicAcrossRuns(t *testing.T) {
	planner := newTestPlanner(t)
	req := PlanRequest{
		Items:       testItems(),
		Origin:      testOrigin,
		MaxStores:   3,
		PriceWeight: 0.8,
		TimeWeight:  0.2,
	}

	first, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.RouteScore, second.RouteScore)
	require.Equal(t, len(first.Baskets), len(second.Baskets))
	for i := range first.Baskets {
		assert.Equal(t, first.Baskets[i].Store.StoreID, second.Baskets[i].Store.StoreID)
	}
}

func TestPlanTooManyItems(t *testing.T) {
	cfg := Defaults()
	cfg.MaxBasketItems = 2
	planner, err := NewPlanner(newTestRef(t), cfg, NewMetricsRecorder(), testLogger())
	require.NoError(t, err)

	_, err = planner.Plan(context.Background(), PlanRequest{
		Items:  testItems(),
		Origin: testOrigin,
	})

	var invalid ErrInvalidRequest
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "items", invalid.Field)
}

func TestNewPlannerRejectsInvalidConfig(t *testing.T) {
	cfg := Defaults()
	cfg.MaxStores = 0

	_, err := NewPlanner(newTestRef(t), cfg, NewMetricsRecorder(), testLogger())

	var invalid ErrInvalidConfig
	assert.ErrorAs(t, err, &invalid)
}
