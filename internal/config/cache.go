package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching is disabled.
// Methods lists the HTTP methods whose responses are cached; every other method
// passing through the middleware invalidates the cache on success. TTL bounds
// the lifetime of an entry. KeyStrategy picks which parts of the request make
// up the key.
type CacheConfig struct {
	Enabled      bool            `koanf:"cache_enabled"`
	MethodList   string          `koanf:"cache_methods" validate:"required"`
	Methods      map[string]bool `koanf:"-"`
	TTL          time.Duration   `koanf:"cache_ttl"`
	KeyStrategy  string          `koanf:"cache_key_strategy" validate:"oneof=path method_path method_path_query path_query"`
	Prefix       string          `koanf:"cache_prefix" validate:"required"`
	MaxBodyBytes int             `koanf:"cache_max_body_bytes" validate:"min=0"`
}

// LoadCacheConfig reads CACHE_* variables. Defaults are used when unset;
// unparsable or out-of-range values are an error.
func LoadCacheConfig() (CacheConfig, error) {
	cfg := CacheConfig{
		Enabled:      true,
		MethodList:   "GET",
		TTL:          30 * time.Second,
		KeyStrategy:  "path_query",
		Prefix:       "marks:cache",
		MaxBodyBytes: 1 << 20,
	}
	if err := unmarshalEnv(&cfg); err != nil {
		return CacheConfig{}, err
	}

	cfg.KeyStrategy = strings.ToLower(strings.TrimSpace(cfg.KeyStrategy))
	cfg.Methods = parseMethods(cfg.MethodList)
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}

	if err := validate.Struct(cfg); err != nil {
		return CacheConfig{}, err
	}
	return cfg, nil
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
