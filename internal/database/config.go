package database

import (
	"path/filepath"
	"strings"
	"time"
)

// Config selects the investigator store and how to reach it.
type Config struct {
	// Driver is "sqlite" or "postgres"; anything else means sqlite
	Driver string

	SQLitePath string

	Postgres PostgresConfig
}

// PostgresConfig holds PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a SQLite Config for the file at sqlitePath.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
	}
}

// DefaultPostgresConfig returns local PostgreSQL settings with a small pool.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DialectType normalizes Driver, falling back to SQLite.
func (c Config) DialectType() DialectType {
	if DialectType(strings.ToLower(strings.TrimSpace(c.Driver))) == DialectPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}

// SameSQLiteFile reports whether c is a SQLite store at path.
func (c Config) SameSQLiteFile(path string) bool {
	if c.DialectType() != DialectSQLite {
		return false
	}
	a, errA := filepath.Abs(c.SQLitePath)
	b, errB := filepath.Abs(path)
	if errA != nil || errB != nil {
		return filepath.Clean(c.SQLitePath) == filepath.Clean(path)
	}
	return a == b
}
