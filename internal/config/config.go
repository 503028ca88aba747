// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aristath/advisor/pkg/formulas"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogPretty bool
	DevMode   bool

	// Engine defaults applied when a request omits them
	RiskFreeRate       float64 // annual, percent
	Confidence         float64 // VaR / Expected Shortfall confidence level
	Years              float64 // horizon used to annualize total return
	RebalanceTolerance float64

	// API rate limiting (token bucket per client IP)
	RateLimitRPS   float64
	RateLimitBurst int

	Demo DemoConfig
}

// DemoConfig controls the seeded demo snapshot
type DemoConfig struct {
	RefreshSchedule string // cron expression with seconds field, empty disables the job
	Days            int
	Seed            uint64
	AnnualVol       float64
	Drift           float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvAsInt("ADVISOR_PORT", 8001),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", false),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		RiskFreeRate:       getEnvAsFloat("ADVISOR_RISK_FREE_RATE", formulas.DefaultRiskFreeRate),
		Confidence:         getEnvAsFloat("ADVISOR_CONFIDENCE", formulas.DefaultConfidence),
		Years:              getEnvAsFloat("ADVISOR_YEARS", formulas.DefaultYears),
		RebalanceTolerance: getEnvAsFloat("ADVISOR_REBALANCE_TOLERANCE", formulas.DefaultRebalanceTolerance),
		RateLimitRPS:       getEnvAsFloat("ADVISOR_RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvAsInt("ADVISOR_RATE_LIMIT_BURST", 40),
		Demo: DemoConfig{
			RefreshSchedule: getEnv("ADVISOR_DEMO_SCHEDULE", "0 */5 * * * *"), // every 5 minutes
			Days:            getEnvAsInt("ADVISOR_DEMO_DAYS", 756),
			Seed:            getEnvAsUint("ADVISOR_DEMO_SEED", 42),
			AnnualVol:       getEnvAsFloat("ADVISOR_DEMO_VOL", formulas.DefaultAnnualVolatility),
			Drift:           getEnvAsFloat("ADVISOR_DEMO_DRIFT", formulas.DefaultDrift),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MetricsOptions returns the engine options built from the configured defaults.
func (c *Config) MetricsOptions() formulas.MetricsOptions {
	return formulas.MetricsOptions{
		Years:        c.Years,
		RiskFreeRate: c.RiskFreeRate,
		Confidence:   c.Confidence,
	}
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1), got %g", c.Confidence)
	}
	if c.Years <= 0 {
		return fmt.Errorf("years must be positive, got %g", c.Years)
	}
	if c.RebalanceTolerance < 0 {
		return fmt.Errorf("rebalance tolerance must not be negative, got %g", c.RebalanceTolerance)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive (rps=%g, burst=%d)", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.Demo.Days < 2 {
		return fmt.Errorf("demo days must be at least 2, got %d", c.Demo.Days)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
