package strata

import (
	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/indexes"
	"github.com/stratadb/strata/model"
	"github.com/stratadb/strata/sqlexpr"
)

// Index is a declarative definition of one database index.
// Immutable after creation except for lazy name assignment.
type Index = indexes.Index

// Option configures an index definition.
type Option = indexes.Option

// Statement is the result of rendering one DDL statement.
type Statement = indexes.Statement

// Skip explains why a statement was not produced.
type Skip = indexes.Skip

// CreateOption adjusts CREATE INDEX generation.
type CreateOption = indexes.CreateOption

// ConfigError reports an invalid index definition.
type ConfigError = indexes.ConfigError

// MalformedExpressionError reports an index expression the backend's wrapper
// rules reject.
type MalformedExpressionError = indexes.MalformedExpressionError

// Convenience reexports from the indexes package.
// See package documentation for strata/indexes.
var (
	NewIndex    = indexes.New
	Fields      = indexes.Fields
	Expressions = indexes.Expressions
	Name        = indexes.Name
	Tablespace  = indexes.Tablespace
	OpClasses   = indexes.OpClasses
	Condition   = indexes.Condition
	Include     = indexes.Include
	Using       = indexes.Using
)

// Table is a descriptor of a database table: storage name, columns and index
// definitions.
type Table = model.Table

// Column maps a Go field name to a SQL column name.
type Column = model.Column

// Meta is a type for dummy fields bearing tags for the containing structure
type Meta = model.Meta

// Convenience reexports from the model package.
var (
	TableOf  = model.TableOf
	NewTable = model.NewTable
)

// Expr is a SQL expression usable as an index key.
type Expr = sqlexpr.Expr

// OrderBy wraps an expression with an ordering.
type OrderBy = sqlexpr.OrderBy

// Predicate is a filter condition of a partial index.
type Predicate = sqlexpr.Predicate

// Null ordering of an OrderBy expression.
const (
	NullsFirst = sqlexpr.NullsFirst
	NullsLast  = sqlexpr.NullsLast
)

// Convenience reexports from the sqlexpr package.
// See package documentation for strata/sqlexpr.
var (
	Col      = sqlexpr.Col
	Call     = sqlexpr.Call
	Lit      = sqlexpr.Lit
	Asc      = sqlexpr.Asc
	Desc     = sqlexpr.Desc
	Collated = sqlexpr.Collated
	RawSQL   = sqlexpr.RawSQL

	Eq  = sqlexpr.Eq
	Ne  = sqlexpr.Ne
	Gt  = sqlexpr.Gt
	Ge  = sqlexpr.Ge
	Lt  = sqlexpr.Lt
	Le  = sqlexpr.Le
	In  = sqlexpr.In
	And = sqlexpr.And
	Or  = sqlexpr.Or
	Not = sqlexpr.Not
)

// Backend renders dialect-specific DDL.
type Backend = dialect.Backend

// Convenience reexports from the dialect package.
var (
	Postgres = dialect.Postgres
	MySQL    = dialect.MySQL
	SQLite   = dialect.SQLite
)
