package refdata

// LatLng is a geographic coordinate pair in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Product is a canonical catalog item, independent of which retailer sells it.
type Product struct {
	CanonicalID   string   `json:"canonical_id"`
	CanonicalName string   `json:"canonical_name"`
	Category      string   `json:"category"`
	UnitType      string   `json:"unit_type"`
	UnitSize      float64  `json:"unit_size"`
	UnitMeasure   string   `json:"unit_measure"`
	Aliases       []string `json:"aliases"`
}

// OpeningHours describes one day of a store's trading hours.
type OpeningHours struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Store is a physical retail location. Many stores share a retailer.
type Store struct {
	StoreID      string         `json:"store_id"`
	RetailerID   string         `json:"retailer_id"`
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	Suburb       string         `json:"suburb"`
	Postcode     string         `json:"postcode"`
	Location     LatLng         `json:"location"`
	OpeningHours []OpeningHours `json:"opening_hours,omitempty"`
}

// CatalogEntry maps a retailer-specific SKU to a canonical product.
type CatalogEntry struct {
	RetailerProductID string `json:"retailer_product_id"`
	RetailerID        string `json:"retailer_id"`
	CanonicalID       string `json:"canonical_id"`
	Name              string `json:"name"`
}

// PriceSnapshot is the current price for one retailer SKU.
// Money is int64 minor units (cents); the JSON files carry dollars and are
// converted at load time.
type PriceSnapshot struct {
	RetailerProductID string
	PriceCents        int64
	UnitPriceCents    int64
	UnitPriceMeasure  string
}

// ClickCollect holds a retailer's click-and-collect minimum spend rule.
type ClickCollect struct {
	MinSpendCents int64
	Currency      string
}

// Retailer is a retail chain with its click-and-collect rules.
type Retailer struct {
	RetailerID   string
	DisplayName  string
	ClickCollect ClickCollect
}
