// Package config loads server configuration.
//
// Precedence, lowest to highest: built-in defaults, YAML file, SQLADMIN_
// environment variables, the legacy PORT and DATABASE_URL variables, then
// command line flags that were explicitly set.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/JayJamieson/sql-admin/pkg/db"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "SQLADMIN_"

	DefaultPort                = 8001
	DefaultDriver              = db.DriverLibSQL
	DefaultDatabaseURL         = "file:data.db"
	DefaultShutdownTimeout     = 10 * time.Second
	DefaultDescribeConcurrency = 4
)

type Server struct {
	Port            int           `koanf:"port"`
	AllowOrigins    []string      `koanf:"allow_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type Database struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type Statements struct {
	// AllowCTEReads admits WITH statements to the query operation.
	AllowCTEReads bool `koanf:"allow_cte_reads"`
}

type Introspection struct {
	Concurrency int `koanf:"concurrency"`
}

type Logging struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type Config struct {
	Server        Server        `koanf:"server"`
	Database      Database      `koanf:"database"`
	Statements    Statements    `koanf:"statements"`
	Introspection Introspection `koanf:"introspection"`
	Logging       Logging       `koanf:"logging"`
}

// flagKeys maps command line flags to config keys. Flags not listed here
// are not configuration values.
var flagKeys = map[string]string{
	"port":                 "server.port",
	"driver":               "database.driver",
	"db-url":               "database.url",
	"log-level":            "logging.level",
	"log-format":           "logging.format",
	"allow-cte-reads":      "statements.allow_cte_reads",
	"describe-concurrency": "introspection.concurrency",
}

var legacyEnvKeys = map[string]string{
	"PORT":         "server.port",
	"DATABASE_URL": "database.url",
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                DefaultPort,
		"server.allow_origins":       []string{"*"},
		"server.shutdown_timeout":    DefaultShutdownTimeout.String(),
		"database.driver":            DefaultDriver,
		"database.url":               DefaultDatabaseURL,
		"database.max_open_conns":    0,
		"statements.allow_cte_reads": false,
		"introspection.concurrency":  DefaultDescribeConcurrency,
		"logging.level":              "info",
		"logging.format":             "console",
	}
}

// Load builds a Config. cfgFile and flags are both optional.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// SQLADMIN_DATABASE__MAX_OPEN_CONNS -> database.max_open_conns
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(s, v string) (string, any) {
		key, ok := legacyEnvKeys[s]
		if !ok || v == "" {
			return "", nil
		}
		return key, v
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load legacy env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := db.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Database.MaxOpenConns < 0 {
		return fmt.Errorf("database.max_open_conns must not be negative")
	}
	if c.Introspection.Concurrency < 1 {
		return fmt.Errorf("introspection.concurrency must be at least 1, got %d", c.Introspection.Concurrency)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) DBOptions(logger zerolog.Logger) db.Options {
	return db.Options{
		Driver:              c.Database.Driver,
		URL:                 c.Database.URL,
		MaxOpenConns:        c.Database.MaxOpenConns,
		ConnMaxIdleTime:     c.Database.ConnMaxIdleTime,
		AllowCTEReads:       c.Statements.AllowCTEReads,
		DescribeConcurrency: c.Introspection.Concurrency,
		Logger:              logger,
	}
}
