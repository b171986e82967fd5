package salesapi

import (
	"fmt"
	"time"
)

// Config holds the distribution company's API connection settings
type Config struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("sales api base url is required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("sales api timeout must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Timeout returns the configured timeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
