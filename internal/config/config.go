// Package config loads application configuration from environment variables.
//
// The core settings (HTTP port, datastore credentials, pool size, logging) are
// read with koanf and validated with go-playground/validator. Optional
// subsystems (Redis cache, rate limiting, RabbitMQ) have their own loaders in
// this package and fall back to defaults when their variables are unset.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the runtime configuration of the marks service. The koanf tag
// is the lower-cased name of the environment variable (PORT -> "port").
type Config struct {
	Env               string        `koanf:"app_env" validate:"required"`
	Port              string        `koanf:"port" validate:"required,numeric"`
	DBHost            string        `koanf:"db_host" validate:"required"`
	DBPort            string        `koanf:"db_port" validate:"required,numeric"`
	DBUser            string        `koanf:"db_user"`
	DBPassword        string        `koanf:"db_password"`
	DBName            string        `koanf:"db_name" validate:"required"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns" validate:"min=1"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime" validate:"min=0"`
	LogLevel          string        `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	CORSAllowOrigins  string        `koanf:"cors_allow_origins"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"min=0"`
}

// Default returns the configuration used when no environment variable
// overrides a field. The pool bound of 10 matches the datastore sizing the
// service was written against.
func Default() Config {
	return Config{
		Env:               "dev",
		Port:              "8080",
		DBHost:            "localhost",
		DBPort:            "3306",
		DBUser:            "root",
		DBName:            "student",
		DBMaxOpenConns:    10,
		DBConnMaxLifetime: 30 * time.Minute,
		LogLevel:          "info",
		CORSAllowOrigins:  "*",
		ShutdownTimeout:   10 * time.Second,
	}
}

var validate = validator.New()

// unmarshalEnv overlays the process environment on dst, which must be a
// pointer to a struct whose koanf tags are lower-cased variable names.
// Fields without a matching variable keep the value dst already holds.
func unmarshalEnv(dst interface{}) error {
	k := koanf.New(".")
	// Empty variables count as unset so the defaults survive.
	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil)
	if err != nil {
		return err
	}
	return k.Unmarshal("", dst)
}

// Load reads the environment on top of Default and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if err := unmarshalEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CORSOrigins splits CORSAllowOrigins on commas. An empty setting allows any origin.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
