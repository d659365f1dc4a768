package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// JWTConfig holds configuration for access token signing and validation.
type JWTConfig struct {
	Secret            string
	ExpirationMinutes int
}

// NewJWTConfig creates a JWT configuration from environment variables.
// It reads SECRET_KEY (required) and ACCESS_TOKEN_EXPIRE_MINUTES (default: 30).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is required but not set")
	}

	expirationStr := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES")
	if expirationStr == "" {
		expirationStr = "30" // default
	}

	minutes, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %v", err)
	}

	config := &JWTConfig{
		Secret:            secret,
		ExpirationMinutes: minutes,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// TTL is the lifetime of an issued token.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("SECRET_KEY cannot be empty")
	}
	if c.ExpirationMinutes < 1 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be at least 1, got: %d", c.ExpirationMinutes)
	}
	return nil
}
