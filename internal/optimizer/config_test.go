package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero max stores", func(c *Config) { c.MaxStores = 0 }, "max_stores"},
		{"unknown strategy", func(c *Config) { c.Strategy = "teleportation" }, "strategy"},
		{"empty strategy", func(c *Config) { c.Strategy = "" }, "strategy"},
		{"negative price weight", func(c *Config) { c.PriceWeight = -0.1 }, "price_weight"},
		{"both weights zero", func(c *Config) { c.PriceWeight = 0; c.TimeWeight = 0 }, "price_weight"},
		{"negative dwell", func(c *Config) { c.DwellMinutesPerItem = -1 }, "dwell_minutes_per_item"},
		{"zero price norm", func(c *Config) { c.PriceNormCents = 0 }, "price_norm_cents"},
		{"zero time norm", func(c *Config) { c.TimeNormMinutes = 0 }, "time_norm_minutes"},
		{"negative workers", func(c *Config) { c.ScoreWorkers = -1 }, "score_workers"},
		{"zero basket limit", func(c *Config) { c.MaxBasketItems = 0 }, "max_basket_items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			var invalid ErrInvalidConfig
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}
