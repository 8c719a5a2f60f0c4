// Package config loads the application settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/tococyn/internal/database"
	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/investigator"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application-wide configuration settings.
type Config struct {
	Dice            DiceConfig                    `yaml:"dice"`
	Era             string                        `yaml:"era"`
	Multiplier      int                           `yaml:"multiplier"`
	Characteristics []investigator.Characteristic `yaml:"characteristics"`
	Database        DatabaseConfig                `yaml:"database"`
	Server          ServerConfig                  `yaml:"server"`
	Names           investigator.NameFilterConfig `yaml:"names"`
}

// DiceConfig holds randomness settings.
type DiceConfig struct {
	// Seed fixes the generator for reproducible output. 0 seeds from crypto/rand.
	Seed int64 `yaml:"seed"`

	// MaxCount caps the dice in one CLI roll and in each characteristic notation.
	MaxCount int `yaml:"max_count"`
}

// DatabaseConfig selects and configures the investigator store.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver     string         `yaml:"driver"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// ServerConfig holds the dice table WebSocket service settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":4443"
	Addr string `yaml:"addr"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy. "*" allows all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxDice caps the dice count of a single roll request.
	MaxDice int `yaml:"max_dice"`

	// TelnetAddr is the plain TCP listen address. Empty disables telnet.
	TelnetAddr string `yaml:"telnet_addr"`

	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

// RateLimitConfig caps roll and check commands per session in a sliding
// window. MaxCommands 0 disables the limit.
type RateLimitConfig struct {
	MaxCommands   int `yaml:"max_commands"`
	WindowSeconds int `yaml:"window_seconds"`
}

// ConnectionsConfig limits concurrent table sessions. 0 means unlimited.
type ConnectionsConfig struct {
	MaxPerIP int `yaml:"max_per_ip"`
	MaxTotal int `yaml:"max_total"`
}

// DefaultConfig returns a Config with the standard characteristic table.
func DefaultConfig() *Config {
	return &Config{
		Dice:            DiceConfig{MaxCount: 1000},
		Era:             "modern",
		Multiplier:      investigator.DefaultMultiplier,
		Characteristics: investigator.DefaultCharacteristics(),
		Database: DatabaseConfig{
			Driver:     string(database.DialectSQLite),
			SQLitePath: "data/tococyn.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Server: ServerConfig{
			Addr:           ":4443",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
			MaxDice:        100,
			Connections: ConnectionsConfig{
				MaxPerIP: 5,
				MaxTotal: 100,
			},
			RateLimit: RateLimitConfig{
				MaxCommands:   20,
				WindowSeconds: 10,
			},
		},
	}
}

// envOverrides holds TOCOCYN_* variables applied over the YAML file.
type envOverrides struct {
	Seed           int64    `env:"TOCOCYN_SEED"`
	Era            string   `env:"TOCOCYN_ERA"`
	DBDriver       string   `env:"TOCOCYN_DB_DRIVER"`
	SQLitePath     string   `env:"TOCOCYN_SQLITE_PATH"`
	PGHost         string   `env:"TOCOCYN_PG_HOST"`
	PGUser         string   `env:"TOCOCYN_PG_USER"`
	PGPassword     string   `env:"TOCOCYN_PG_PASSWORD"`
	PGDatabase     string   `env:"TOCOCYN_PG_DATABASE"`
	Addr           string   `env:"TOCOCYN_ADDR"`
	AllowedOrigins []string `env:"TOCOCYN_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig loads configuration from a YAML file, then applies TOCOCYN_*
// environment overrides. If the file doesn't exist, the defaults are used.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return config, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return DefaultConfig(), err
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Seed != 0 {
		c.Dice.Seed = o.Seed
	}
	setString(&c.Era, o.Era)
	setString(&c.Database.Driver, o.DBDriver)
	setString(&c.Database.SQLitePath, o.SQLitePath)
	setString(&c.Database.Postgres.Host, o.PGHost)
	setString(&c.Database.Postgres.User, o.PGUser)
	setString(&c.Database.Postgres.Password, o.PGPassword)
	setString(&c.Database.Postgres.Database, o.PGDatabase)
	setString(&c.Server.Addr, o.Addr)
	if len(o.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = o.AllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the characteristic table and limits are usable.
func (c *Config) Validate() error {
	if c.Multiplier <= 0 {
		return fmt.Errorf("%w: multiplier must be positive, got %d", ErrInvalidConfig, c.Multiplier)
	}
	if c.Dice.MaxCount <= 0 {
		return fmt.Errorf("%w: dice max_count must be positive", ErrInvalidConfig)
	}
	if len(c.Characteristics) == 0 {
		return fmt.Errorf("%w: no characteristics configured", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Characteristics))
	for _, ch := range c.Characteristics {
		code := investigator.NormalizeCode(ch.Code)
		if code == "" {
			return fmt.Errorf("%w: characteristic without code", ErrInvalidConfig)
		}
		if seen[code] {
			return fmt.Errorf("%w: duplicate characteristic %s", ErrInvalidConfig, code)
		}
		seen[code] = true
		expr, err := dice.Parse(ch.Notation)
		if err != nil {
			return fmt.Errorf("%w: characteristic %s: %w", ErrInvalidConfig, code, err)
		}
		if err := expr.Limit(c.Dice.MaxCount); err != nil {
			return fmt.Errorf("%w: characteristic %s: %w", ErrInvalidConfig, code, err)
		}
	}
	if _, err := investigator.ParseEra(c.Era); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch database.DialectType(c.Database.Driver) {
	case database.DialectSQLite, database.DialectPostgres:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Server.MaxDice <= 0 {
		return fmt.Errorf("%w: server max_dice must be positive", ErrInvalidConfig)
	}
	if c.Server.Connections.MaxPerIP < 0 || c.Server.Connections.MaxTotal < 0 {
		return fmt.Errorf("%w: connection limits cannot be negative", ErrInvalidConfig)
	}
	if rl := c.Server.RateLimit; rl.MaxCommands < 0 || (rl.MaxCommands > 0 && rl.WindowSeconds <= 0) {
		return fmt.Errorf("%w: rate_limit needs a positive window", ErrInvalidConfig)
	}
	return nil
}

// Roller returns an investigator roller built from the characteristic table.
func (c *Config) Roller(src dice.Source) *investigator.Roller {
	return &investigator.Roller{
		Source:     src,
		Table:      c.Characteristics,
		Multiplier: c.Multiplier,
	}
}

// NameFilter returns the filter applied to new investigator names.
func (c *Config) NameFilter() *investigator.NameFilter {
	return investigator.NewNameFilter(c.Names)
}

// Source returns the configured randomness source.
func (c *Config) Source() (dice.Source, error) {
	if c.Dice.Seed != 0 {
		return dice.NewSource(c.Dice.Seed), nil
	}
	return dice.NewRandomSource()
}

// DatabaseConfig converts the YAML settings into a database.Config.
func (c *Config) DatabaseConfig() database.Config {
	pg := database.DefaultPostgresConfig()
	if c.Database.Postgres.Host != "" {
		pg.Host = c.Database.Postgres.Host
	}
	if c.Database.Postgres.Port != 0 {
		pg.Port = c.Database.Postgres.Port
	}
	if c.Database.Postgres.SSLMode != "" {
		pg.SSLMode = c.Database.Postgres.SSLMode
	}
	pg.User = c.Database.Postgres.User
	pg.Password = c.Database.Postgres.Password
	pg.Database = c.Database.Postgres.Database

	return database.Config{
		Driver:     c.Database.Driver,
		SQLitePath: c.Database.SQLitePath,
		Postgres:   pg,
	}
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *ServerConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
