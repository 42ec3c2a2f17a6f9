package config

// Redis backs the response cache and the distributed rate limiter. Both
// degrade to pass-through when NewRedisClient returns nil.

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned by NewRedisClient when REDIS_ENABLED is false.
var ErrRedisDisabled = errors.New("redis disabled")

// RedisConfig is read from:
//
//	REDIS_ENABLED  - set to false to skip Redis entirely (default true)
//	REDIS_HOST and REDIS_PORT - hostname and port of the Redis server
//	REDIS_ADDR     - host:port shorthand, used when host/port are not both set
//	REDIS_PASSWORD - optional password
//	REDIS_DB       - database number (default 0)
//	REDIS_TLS      - enable TLS
type RedisConfig struct {
	Enabled  bool   `koanf:"redis_enabled"`
	Host     string `koanf:"redis_host"`
	Port     string `koanf:"redis_port" validate:"omitempty,numeric"`
	Addr     string `koanf:"redis_addr" validate:"required,hostname_port"`
	Password string `koanf:"redis_password"`
	DB       int    `koanf:"redis_db" validate:"min=0"`
	TLS      bool   `koanf:"redis_tls"`
}

// LoadRedisConfig reads the REDIS_* variables.
func LoadRedisConfig() (RedisConfig, error) {
	cfg := RedisConfig{
		Enabled: true,
		Addr:    "localhost:6379",
	}
	if err := unmarshalEnv(&cfg); err != nil {
		return RedisConfig{}, err
	}
	if cfg.Host != "" && cfg.Port != "" {
		cfg.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	}
	if err := validate.Struct(cfg); err != nil {
		return RedisConfig{}, err
	}
	return cfg, nil
}

// NewRedisClient connects to the server described by cfg. The client is nil
// when Redis is disabled or the startup ping fails; the error says which.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, ErrRedisDisabled
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
