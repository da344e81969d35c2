package optimizer

// Config holds the configuration for the route and basket optimizer.
// It is loaded from environment variables or a config file.
type Config struct {
	// Route enumeration
	MaxStores int    `mapstructure:"max_stores" env:"MAX_STORES" default:"3"`
	Strategy  string `mapstructure:"strategy" env:"STRATEGY" default:"store_subset"`

	// Scoring weights, applied when the request leaves both at zero
	PriceWeight float64 `mapstructure:"price_weight" env:"PRICE_WEIGHT" default:"0.8"`
	TimeWeight  float64 `mapstructure:"time_weight" env:"TIME_WEIGHT" default:"0.2"`

	// In-store dwell per purchased item
	DwellMinutesPerItem float64 `mapstructure:"dwell_minutes_per_item" env:"DWELL_MINUTES_PER_ITEM" default:"2.0"`

	// Normalization reference scales
	PriceNormCents  int64   `mapstructure:"price_norm_cents" env:"PRICE_NORM_CENTS" default:"10000"`
	TimeNormMinutes float64 `mapstructure:"time_norm_minutes" env:"TIME_NORM_MINUTES" default:"120.0"`

	// Parallel scoring workers (0 uses GOMAXPROCS)
	ScoreWorkers int `mapstructure:"score_workers" env:"SCORE_WORKERS" default:"0"`

	// Validation limits
	MaxBasketItems int `mapstructure:"max_basket_items" env:"MAX_BASKET_ITEMS" default:"100"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		MaxStores:           3,
		Strategy:            string(StrategyStoreSubset),
		PriceWeight:         0.8,
		TimeWeight:          0.2,
		DwellMinutesPerItem: 2.0,
		PriceNormCents:      10000,
		TimeNormMinutes:     120.0,
		ScoreWorkers:        0,
		MaxBasketItems:      100,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MaxStores < 1 {
		return ErrInvalidConfig{Field: "max_stores", Reason: "must be at least 1"}
	}
	if c.Strategy == "" {
		return ErrInvalidConfig{Field: "strategy", Reason: "must be set"}
	}
	if _, err := ParseStrategy(c.Strategy); err != nil {
		return ErrInvalidConfig{Field: "strategy", Reason: err.Error()}
	}
	if c.PriceWeight < 0 || c.TimeWeight < 0 {
		return ErrInvalidConfig{Field: "price_weight", Reason: "weights must be non-negative"}
	}
	if c.PriceWeight == 0 && c.TimeWeight == 0 {
		return ErrInvalidConfig{Field: "price_weight", Reason: "at least one weight must be positive"}
	}
	if c.DwellMinutesPerItem < 0 {
		return ErrInvalidConfig{Field: "dwell_minutes_per_item", Reason: "must be non-negative"}
	}
	if c.PriceNormCents < 1 {
		return ErrInvalidConfig{Field: "price_norm_cents", Reason: "must be at least 1"}
	}
	if c.TimeNormMinutes <= 0 {
		return ErrInvalidConfig{Field: "time_norm_minutes", Reason: "must be positive"}
	}
	if c.ScoreWorkers < 0 {
		return ErrInvalidConfig{Field: "score_workers", Reason: "must be non-negative"}
	}
	if c.MaxBasketItems < 1 {
		return ErrInvalidConfig{Field: "max_basket_items", Reason: "must be at least 1"}
	}
	return nil
}

// ErrInvalidConfig is returned when the configuration is invalid.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return e.Field + ": " + e.Reason
}
