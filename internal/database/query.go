package database

import (
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
// Question marks inside single-quoted literals are left alone.
//
// Example:
//
//	input:    "SELECT * FROM generations WHERE run_id = ? AND width = ?"
//	SQLite:   "SELECT * FROM generations WHERE run_id = ? AND width = ?"
//	Postgres: "SELECT * FROM generations WHERE run_id = $1 AND width = $2"
func (qb *QueryBuilder) Build(query string) string {
	if qb.dialect.Placeholder(1) == "?" {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	inLiteral := false

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inLiteral = !inLiteral
			result.WriteByte(ch)
		case ch == '?' && !inLiteral:
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		default:
			result.WriteByte(ch)
		}
	}

	return result.String()
}

// BuildWithReturning appends a RETURNING clause if the dialect requires it.
// Used for INSERT statements that need the inserted ID.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}
