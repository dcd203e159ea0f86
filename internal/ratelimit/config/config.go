package config

import (
	"time"

	"paraiso/internal/ratelimit/models"
)

// Config holds per-IP limits by endpoint class.
type Config struct {
	IPLimits map[models.EndpointClass]Limit
}

// Limit defines rate limit parameters for an endpoint class.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// DefaultConfig keeps contact submissions tight; a visitor rarely sends
// more than a couple of messages.
func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassToken:   {RequestsPerWindow: 60, Window: time.Minute},
			models.ClassRead:    {RequestsPerWindow: 300, Window: time.Minute},
			models.ClassContact: {RequestsPerWindow: 5, Window: 10 * time.Minute},
		},
	}
}

// GetIPLimit returns the limit for class, if one is configured.
func (c *Config) GetIPLimit(class models.EndpointClass) (requests int, window time.Duration, ok bool) {
	limit, ok := c.IPLimits[class]
	if !ok || limit.RequestsPerWindow <= 0 || limit.Window <= 0 {
		return 0, 0, false
	}
	return limit.RequestsPerWindow, limit.Window, true
}
