package database

import (
	"strings"
)

// QueryBuilder rewrites the ? placeholders used throughout this package
// into the dialect's own form.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build numbers the placeholders for PostgreSQL and leaves SQLite queries alone.
// A ? inside a single-quoted literal is text, not a placeholder.
//
//	input:    "SELECT id FROM investigators WHERE surname = ? AND era = ?"
//	SQLite:   "SELECT id FROM investigators WHERE surname = ? AND era = ?"
//	Postgres: "SELECT id FROM investigators WHERE surname = $1 AND era = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	quoted := false

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			// '' inside a literal toggles twice and stays quoted
			quoted = !quoted
			result.WriteByte(c)
		case c == '?' && !quoted:
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// BuildWithReturning builds an INSERT that yields the new row's column,
// adding RETURNING where LastInsertId is unavailable.
//
//	input:    "INSERT INTO investigators (first_name, surname) VALUES (?, ?)", "id"
//	SQLite:   "INSERT INTO investigators (first_name, surname) VALUES (?, ?)"
//	Postgres: "INSERT INTO investigators (first_name, surname) VALUES ($1, $2) RETURNING id"
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
