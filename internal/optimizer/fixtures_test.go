package optimizer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shoplyft/plan-service/internal/refdata"
)

// Test origin: the exact location of the Alpha Mart City store.
var testOrigin = refdata.LatLng{Lat: -33.8700, Lng: 151.2060}

// newTestRef builds a small two-retailer reference set.
//
// Alpha Mart sells all three items for 1270 total and has a store at the
// test origin plus a distant one. Beta Grocer sells all three for 1147 but
// its only store is several kilometres away. This makes the price/time
// trade-off computable by hand.
func newTestRef(t *testing.T) *refdata.Set {
	t.Helper()
	return buildTestRef(t, testFixtureOpts{})
}

// newTestRefWithoutPrices keeps the catalog but drops every price snapshot.
func newTestRefWithoutPrices(t *testing.T) *refdata.Set {
	t.Helper()
	return buildTestRef(t, testFixtureOpts{dropPrices: true})
}

// newTestRefWithUnpricedProduct adds a product no retailer catalogues.
func newTestRefWithUnpricedProduct(t *testing.T) *refdata.Set {
	t.Helper()
	return buildTestRef(t, testFixtureOpts{addRice: true})
}

type testFixtureOpts struct {
	dropPrices bool
	addRice    bool
}

func buildTestRef(t *testing.T, opts testFixtureOpts) *refdata.Set {
	t.Helper()

	products := []refdata.Product{
		{CanonicalID: "milk", CanonicalName: "Full Cream Milk 2L", Aliases: []string{"milk"}},
		{CanonicalID: "bread", CanonicalName: "White Bread Loaf", Aliases: []string{"bread"}},
		{CanonicalID: "eggs", CanonicalName: "Free Range Eggs 12pk", Aliases: []string{"eggs"}},
	}

	retailers := []refdata.Retailer{
		{
			RetailerID:   "alpha",
			DisplayName:  "Alpha Mart",
			ClickCollect: refdata.ClickCollect{MinSpendCents: 3000, Currency: "AUD"},
		},
		{
			RetailerID:   "beta",
			DisplayName:  "Beta Grocer",
			ClickCollect: refdata.ClickCollect{MinSpendCents: 0, Currency: "AUD"},
		},
	}

	stores := []refdata.Store{
		{
			StoreID:    "alpha_city",
			RetailerID: "alpha",
			Name:       "Alpha Mart City",
			Address:    "1 George St",
			Location:   testOrigin,
		},
		{
			StoreID:    "alpha_far",
			RetailerID: "alpha",
			Name:       "Alpha Mart Cronulla",
			Address:    "9 Beach Rd",
			Location:   refdata.LatLng{Lat: -34.0500, Lng: 151.1500},
		},
		{
			StoreID:    "beta_mid",
			RetailerID: "beta",
			Name:       "Beta Grocer Randwick",
			Address:    "5 Avoca St",
			Location:   refdata.LatLng{Lat: -33.9200, Lng: 151.2500},
		},
	}

	catalog := []refdata.CatalogEntry{
		{RetailerProductID: "a_milk", RetailerID: "alpha", CanonicalID: "milk", Name: "Alpha Milk 2L"},
		{RetailerProductID: "a_bread", RetailerID: "alpha", CanonicalID: "bread", Name: "Alpha Bread"},
		{RetailerProductID: "a_eggs", RetailerID: "alpha", CanonicalID: "eggs", Name: "Alpha Eggs 12pk"},
		{RetailerProductID: "b_milk", RetailerID: "beta", CanonicalID: "milk", Name: "Beta Milk 2L"},
		{RetailerProductID: "b_bread", RetailerID: "beta", CanonicalID: "bread", Name: "Beta Bread"},
		{RetailerProductID: "b_eggs", RetailerID: "beta", CanonicalID: "eggs", Name: "Beta Eggs 12pk"},
	}

	prices := []refdata.PriceSnapshot{
		{RetailerProductID: "a_milk", PriceCents: 300},
		{RetailerProductID: "a_bread", PriceCents: 350},
		{RetailerProductID: "a_eggs", PriceCents: 620},
		{RetailerProductID: "b_milk", PriceCents: 289},
		{RetailerProductID: "b_bread", PriceCents: 279},
		{RetailerProductID: "b_eggs", PriceCents: 579},
	}

	if opts.addRice {
		products = append(products, refdata.Product{
			CanonicalID:   "rice",
			CanonicalName: "Jasmine Rice 5kg",
			Aliases:       []string{"rice"},
		})
	}
	if opts.dropPrices {
		prices = nil
	}

	set, err := refdata.NewSet(products, stores, catalog, prices, retailers)
	require.NoError(t, err)
	return set
}

func testItems() []ParsedItem {
	return []ParsedItem{
		{CanonicalID: "milk", CanonicalName: "Full Cream Milk 2L", RequestedItem: "milk", Quantity: 1, Confidence: 1.0},
		{CanonicalID: "bread", CanonicalName: "White Bread Loaf", RequestedItem: "bread", Quantity: 1, Confidence: 1.0},
		{CanonicalID: "eggs", CanonicalName: "Free Range Eggs 12pk", RequestedItem: "eggs", Quantity: 1, Confidence: 1.0},
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func buildTestDataset(t *testing.T, ref *refdata.Set) []PriceDatasetEntry {
	t.Helper()
	dataset, err := NewDatasetBuilder(ref, testLogger()).Build(testItems())
	require.NoError(t, err)
	return dataset
}
