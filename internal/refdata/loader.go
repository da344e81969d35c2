package refdata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// File names expected inside the data directory.
const (
	productsFile  = "products.json"
	storesFile    = "stores.json"
	catalogFile   = "retailer_catalog.json"
	pricesFile    = "price_snapshots.json"
	retailersFile = "retailers.json"
)

type productsDoc struct {
	Products []Product `json:"products"`
}

type storesDoc struct {
	Stores []Store `json:"stores"`
}

type catalogDoc struct {
	RetailerProducts []CatalogEntry `json:"retailer_products"`
}

type priceDoc struct {
	Prices []priceRecord `json:"prices"`
}

// priceRecord is the on-disk shape: prices are decimal dollars.
type priceRecord struct {
	RetailerProductID string  `json:"retailer_product_id"`
	Price             float64 `json:"price"`
	UnitPrice         float64 `json:"unit_price"`
	UnitPriceMeasure  string  `json:"unit_price_measure"`
}

type retailersDoc struct {
	Retailers []retailerRecord `json:"retailers"`
}

type retailerRecord struct {
	RetailerID   string `json:"retailer_id"`
	DisplayName  string `json:"display_name"`
	ClickCollect struct {
		MinSpend float64 `json:"min_spend"`
		Currency string  `json:"currency"`
	} `json:"click_collect"`
}

// Load reads the five reference files from dir, converts money to minor
// units and returns a validated Set. The Set is built once at startup and
// never reloaded mid-search.
func Load(dir string) (*Set, error) {
	var products productsDoc
	if err := readJSON(filepath.Join(dir, productsFile), &products); err != nil {
		return nil, err
	}

	var stores storesDoc
	if err := readJSON(filepath.Join(dir, storesFile), &stores); err != nil {
		return nil, err
	}

	var catalog catalogDoc
	if err := readJSON(filepath.Join(dir, catalogFile), &catalog); err != nil {
		return nil, err
	}

	var priceRecords priceDoc
	if err := readJSON(filepath.Join(dir, pricesFile), &priceRecords); err != nil {
		return nil, err
	}
	prices := make([]PriceSnapshot, 0, len(priceRecords.Prices))
	for _, r := range priceRecords.Prices {
		prices = append(prices, PriceSnapshot{
			RetailerProductID: r.RetailerProductID,
			PriceCents:        dollarsToCents(r.Price),
			UnitPriceCents:    dollarsToCents(r.UnitPrice),
			UnitPriceMeasure:  r.UnitPriceMeasure,
		})
	}

	var retailerRecords retailersDoc
	if err := readJSON(filepath.Join(dir, retailersFile), &retailerRecords); err != nil {
		return nil, err
	}
	retailers := make([]Retailer, 0, len(retailerRecords.Retailers))
	for _, r := range retailerRecords.Retailers {
		retailers = append(retailers, Retailer{
			RetailerID:  r.RetailerID,
			DisplayName: r.DisplayName,
			ClickCollect: ClickCollect{
				MinSpendCents: dollarsToCents(r.ClickCollect.MinSpend),
				Currency:      r.ClickCollect.Currency,
			},
		})
	}

	set, err := NewSet(products.Products, stores.Stores, catalog.RetailerProducts, prices, retailers)
	if err != nil {
		return nil, fmt.Errorf("reference data in %s failed validation: %w", dir, err)
	}

	log.Info().
		Str("dir", dir).
		Int("products", len(set.Products)).
		Int("stores", len(set.Stores)).
		Int("catalog_entries", len(set.Catalog)).
		Int("prices", len(set.Prices)).
		Int("retailers", len(set.Retailers)).
		Msg("Reference data loaded")

	return set, nil
}

func readJSON(path string, out any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func dollarsToCents(d float64) int64 {
	return int64(math.Round(d * 100))
}
