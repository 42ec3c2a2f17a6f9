package config

import (
	"strings"
	"time"
)

// RateLimitConfig drives the Redis token bucket middleware.
type RateLimitConfig struct {
	Enabled        bool          `koanf:"rate_limit_enabled"`
	Capacity       int           `koanf:"rate_limit_capacity"`
	RefillTokens   int           `koanf:"rate_limit_refill_tokens"`
	RefillInterval time.Duration `koanf:"rate_limit_refill_interval"`
	TTL            time.Duration `koanf:"rate_limit_ttl"`
	KeyStrategy    string        `koanf:"rate_limit_key_strategy" validate:"oneof=ip route ip_route"`
	Prefix         string        `koanf:"rate_limit_prefix" validate:"required"`
	Debug          bool          `koanf:"rate_limit_debug"`

	// Burst overrides Capacity when positive.
	Burst int `koanf:"rate_limit_burst"`
	// RefillEvery, when positive, means one token per RefillEvery.
	RefillEvery time.Duration `koanf:"rate_limit_refill_every"`
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to sane values.
// Values that do not parse are an error.
func LoadRateLimitConfig() (RateLimitConfig, error) {
	cfg := RateLimitConfig{
		Enabled:        true,
		Capacity:       60,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "marks:rl",
	}
	if err := unmarshalEnv(&cfg); err != nil {
		return RateLimitConfig{}, err
	}

	if cfg.Burst > 0 {
		cfg.Capacity = cfg.Burst
	}
	if cfg.RefillEvery > 0 {
		cfg.RefillTokens = 1
		cfg.RefillInterval = cfg.RefillEvery
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	cfg.KeyStrategy = strings.ToLower(strings.TrimSpace(cfg.KeyStrategy))

	if err := validate.Struct(cfg); err != nil {
		return RateLimitConfig{}, err
	}
	return cfg, nil
}
