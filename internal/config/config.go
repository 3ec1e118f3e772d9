package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates everything the gateway needs at startup. It is built once
// in main and passed down explicitly; nothing reads the environment after Load.
type Config struct {
	HTTPHost        string
	HTTPPort        string
	ShutdownTimeout time.Duration

	CommerceAPIURL string
	LogSinkURL     string

	RedisAddr string
	JWTSecret string

	AllowedOrigins string

	LogLevel  string
	LogFormat string

	// Canonical shipping policy, in KRW. The upstream accepts the fee we send,
	// so the gateway is the single source of truth for it.
	ShippingFeeStandard float64
	ShippingFeeExpress  float64

	DraftTTL       time.Duration
	ReportCacheTTL time.Duration
}

const (
	defaultDraftTTL       = 30 * time.Minute
	defaultReportCacheTTL = 60 * time.Second

	defaultShippingFeeStandard = 3000
	defaultShippingFeeExpress  = 8000
)

func Load() (*Config, error) {
	cfg := &Config{
		HTTPHost:       getEnv("HTTP_HOST", "0.0.0.0"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		CommerceAPIURL: getEnv("COMMERCE_API_URL", "http://localhost:8000"),
		LogSinkURL:     getEnv("LOG_SINK_URL", "http://localhost:8000"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	var err error
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.DraftTTL, err = getDuration("CHECKOUT_DRAFT_TTL", defaultDraftTTL); err != nil {
		return nil, err
	}
	if cfg.ReportCacheTTL, err = getDuration("REPORT_CACHE_TTL", defaultReportCacheTTL); err != nil {
		return nil, err
	}
	if cfg.ShippingFeeStandard, err = getFloat("SHIPPING_FEE_STANDARD", defaultShippingFeeStandard); err != nil {
		return nil, err
	}
	if cfg.ShippingFeeExpress, err = getFloat("SHIPPING_FEE_EXPRESS", defaultShippingFeeExpress); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ShippingFee resolves a shipping method name to its fee. Unknown methods fall
// back to standard so a stale client cannot zero out the fee.
func (c *Config) ShippingFee(method string) float64 {
	if method == "express" {
		return c.ShippingFeeExpress
	}
	return c.ShippingFeeStandard
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return f, nil
}
