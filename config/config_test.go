package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "testdata-does-not-exist.env")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.ShippingBaseCost.Equal(decimal.NewFromInt(300)))
	assert.True(t, cfg.RequireVerifiedEmail)
	assert.Equal(t, 1000, cfg.MaxCartQuantity)
	assert.Equal(t, 24*time.Hour, cfg.CartSessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.CacheCategoryTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "testdata-does-not-exist.env")
	t.Setenv("SHIPPING_BASE_COST", "120.50")
	t.Setenv("REQUIRE_VERIFIED_EMAIL", "false")
	t.Setenv("CART_SESSION_TTL", "30m")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg := LoadConfig()

	assert.Equal(t, "120.5", cfg.ShippingBaseCost.String())
	assert.False(t, cfg.RequireVerifiedEmail)
	assert.Equal(t, 30*time.Minute, cfg.CartSessionTTL)
	assert.Equal(t, int32(7), cfg.DBMaxConns)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "testdata-does-not-exist.env")
	t.Setenv("SHIPPING_BASE_COST", "three hundred")
	t.Setenv("MAX_CART_QUANTITY", "lots")

	cfg := LoadConfig()

	assert.True(t, cfg.ShippingBaseCost.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 1000, cfg.MaxCartQuantity)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DBUrl:            "postgres://localhost/store",
		JWTSecret:        "s3cret",
		ShippingBaseCost: decimal.NewFromInt(300),
		MaxCartQuantity:  10,
	}
	require.NoError(t, cfg.Validate())

	cfg.DBUrl = ""
	cfg.ShippingBaseCost = decimal.NewFromInt(-1)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "SHIPPING_BASE_COST")
}

func TestValidate_DefaultSecretRejectedInProduction(t *testing.T) {
	cfg := &Config{
		Env:              "production",
		DBUrl:            "postgres://localhost/store",
		JWTSecret:        defaultJWTSecret,
		ShippingBaseCost: decimal.Zero,
		MaxCartQuantity:  1,
	}
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
}
