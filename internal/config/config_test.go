package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8000", cfg.CommerceAPIURL)
	assert.Equal(t, 3000.0, cfg.ShippingFeeStandard)
	assert.Equal(t, 8000.0, cfg.ShippingFeeExpress)
	assert.Equal(t, defaultDraftTTL, cfg.DraftTTL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SHIPPING_FEE_EXPRESS", "12000")
	t.Setenv("CHECKOUT_DRAFT_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 12000.0, cfg.ShippingFeeExpress)
	assert.Equal(t, "15m0s", cfg.DraftTTL.String())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CHECKOUT_DRAFT_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestShippingFeeFallsBackToStandard(t *testing.T) {
	cfg := &Config{ShippingFeeStandard: 3000, ShippingFeeExpress: 8000}

	assert.Equal(t, 3000.0, cfg.ShippingFee("standard"))
	assert.Equal(t, 8000.0, cfg.ShippingFee("express"))
	assert.Equal(t, 3000.0, cfg.ShippingFee("carrier-pigeon"))
}
