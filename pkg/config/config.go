// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds everything the service needs at startup.
type Config struct {
	HTTPPort        string
	DatabasePath    string
	BridgeURL       string
	ContractAddress string
	JWTSecret       string
	ConfirmTimeout  time.Duration
	BatchPace       time.Duration
}

// Load reads configuration from the environment, applying defaults where a
// value is optional. JWT_SECRET and TIMELOCK_CONTRACT_ADDRESS are required.
func Load() (*Config, error) {
	confirmTimeout, err := getEnvDuration("WALLET_CONFIRM_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	batchPace, err := getEnvDuration("BATCH_PACE", time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:        getEnvString("HTTP_PORT", "8080"),
		DatabasePath:    getEnvString("DATABASE_PATH", "payments.db"),
		BridgeURL:       getEnvString("WALLET_BRIDGE_URL", "http://localhost:8545"),
		ContractAddress: os.Getenv("TIMELOCK_CONTRACT_ADDRESS"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		ConfirmTimeout:  confirmTimeout,
		BatchPace:       batchPace,
	}

	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("TIMELOCK_CONTRACT_ADDRESS environment variable not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
