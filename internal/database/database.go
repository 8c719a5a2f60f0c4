// Package database provides SQLite or PostgreSQL persistence for investigators.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the connection together with the dialect it speaks.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database selected by cfg.Driver and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(cfg.DialectType())

	if _, ok := dialect.(*SQLiteDialect); ok {
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, ok := dialect.(*PostgresDialect); ok {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize database: %w\nSQL: %s", err, stmt)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect of the open connection.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	text := d.dialect.CaseInsensitiveText()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS investigators (
			id ` + d.dialect.SerialPrimaryKey() + `,
			first_name ` + text + ` NOT NULL,
			surname ` + text + ` NOT NULL,
			gender TEXT NOT NULL,
			era INTEGER NOT NULL DEFAULT 2,
			occupation TEXT NOT NULL DEFAULT '',
			birthplace TEXT NOT NULL DEFAULT '',
			residence TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(first_name, surname)
		)`,

		// rating is NULL while the characteristic is unrated
		`CREATE TABLE IF NOT EXISTS characteristics (
			investigator_id BIGINT NOT NULL REFERENCES investigators(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			description TEXT NOT NULL,
			rating INTEGER,
			position INTEGER NOT NULL,
			UNIQUE(investigator_id, code)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_characteristics_investigator_id ON characteristics(investigator_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
