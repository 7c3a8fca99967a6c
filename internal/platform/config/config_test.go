package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "postgres://localhost/oms")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/oms", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.DBTxTimeout)
	assert.Equal(t, "TZS", cfg.DefaultCurrency)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	viper.Reset()
	t.Setenv("CORS_ORIGINS", " https://ops.securitypro.example , ,https://admin.securitypro.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://ops.securitypro.example", "https://admin.securitypro.example"}, cfg.CORSOrigins)

	viper.Reset()
	t.Setenv("CORS_ORIGINS", " ")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("DB_TX_TIMEOUT", "2s")
	t.Setenv("DEFAULT_CURRENCY", "KES")
	t.Setenv("RATE_LIMIT", "10-S")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.DBTxTimeout)
	assert.Equal(t, "KES", cfg.DefaultCurrency)
	assert.Equal(t, "10-S", cfg.RateLimit)
}

func TestLoadConfig_BadTimeoutFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("DB_TX_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, cfg.DBTxTimeout)
}

func TestLoadConfig_ProductionNeedsSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}
