package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	JWTSecret      string
	JWTIssuer      string
	DBTxTimeout    time.Duration
	DBMaxConns     int32
	MigrationsPath string

	// RateLimit uses the ulule formatted notation, e.g. "300-M".
	RateLimit string
	// RedisURL selects a shared rate limit store. Empty keeps counters in memory.
	RedisURL string

	// CORSOrigins lists the browser origins allowed to call the API. Empty disables CORS.
	CORSOrigins []string

	DefaultCurrency  string
	InvoiceEmailBody string
	MetricsEnabled   bool
}

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", insecureJWTSecret)
	viper.SetDefault("JWT_ISSUER", "securitypro-oms")
	viper.SetDefault("DB_TX_TIMEOUT", "15s")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	viper.SetDefault("DEFAULT_CURRENCY", "TZS")
	viper.SetDefault("INVOICE_EMAIL_BODY", "Please find your invoice attached.")
	viper.SetDefault("METRICS_ENABLED", true)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      viper.GetString("PGSQL_URL"),
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:    viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTIssuer:        viper.GetString("JWT_ISSUER"),
		DBMaxConns:       viper.GetInt32("DB_MAX_CONNS"),
		MigrationsPath:   viper.GetString("MIGRATIONS_PATH"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		RedisURL:         viper.GetString("REDIS_URL"),
		CORSOrigins:      splitList(viper.GetString("CORS_ORIGINS")),
		DefaultCurrency:  viper.GetString("DEFAULT_CURRENCY"),
		InvoiceEmailBody: viper.GetString("INVOICE_EMAIL_BODY"),
		MetricsEnabled:   viper.GetBool("METRICS_ENABLED"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.JWTSecret == insecureJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	txTimeoutStr := viper.GetString("DB_TX_TIMEOUT")
	txTimeout, err := time.ParseDuration(txTimeoutStr)
	if err != nil || txTimeout <= 0 {
		txTimeout = 15 * time.Second
		log.Printf("Warning: Invalid value for DB_TX_TIMEOUT ('%s'). Defaulting to %s.\n", txTimeoutStr, txTimeout)
	}
	cfg.DBTxTimeout = txTimeout

	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}

	return cfg, nil
}

// splitList parses a comma separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
