// Package sqlexpr contains the expression and predicate trees used in index
// definitions.
//
// Expressions describe index keys: column references, function calls,
// literals, and the ordering and collation wrappers that may be stacked on
// top of them. Predicates describe partial-index conditions. Both serialize
// to tagged JSON so that definitions can be persisted and diffed.
//
// The set of expression variants is closed. Consumers switch on Kind and
// treat an unknown kind as a programming error.
package sqlexpr

import "fmt"

// Kind identifies an expression variant.
type Kind string

// Expression variants
const (
	KindColumn  Kind = "column"
	KindFunc    Kind = "func"
	KindValue   Kind = "value"
	KindOrderBy Kind = "order_by"
	KindCollate Kind = "collate"
	KindRaw     Kind = "raw"
	KindParen   Kind = "paren"
)

// Expr is an expression tree node. The set of implementations is closed:
// Column, Func, Value, OrderBy, Collate, Raw and Paren.
type Expr interface {
	Kind() Kind
	sealed()
}

// Column references a column of the indexed table by its logical field name.
type Column struct {
	Field string
}

// Func is a function call over zero or more argument expressions.
type Func struct {
	Name string
	Args []Expr
}

// Value is a literal rendered directly into the generated SQL.
type Value struct {
	V any
}

// Nulls selects the placement of NULL values in an ordered index key.
type Nulls string

// Nulls placements
const (
	NullsDefault Nulls = ""
	NullsFirst   Nulls = "first"
	NullsLast    Nulls = "last"
)

// OrderBy wraps an expression with an ordering direction.
type OrderBy struct {
	Expr  Expr
	Desc  bool
	Nulls Nulls
}

// Collate wraps an expression with an explicit collation.
type Collate struct {
	Expr      Expr
	Collation string
}

// Raw is a SQL fragment with ? placeholders and matching positional
// parameters.
type Raw struct {
	SQL    string
	Params []any
}

// Paren marks an expression for parenthesized rendering. It is inserted
// during index-expression normalization and does not normally appear in user
// input.
type Paren struct {
	Expr Expr
}

// Kind implements Expr
func (Column) Kind() Kind { return KindColumn }

// Kind implements Expr
func (Func) Kind() Kind { return KindFunc }

// Kind implements Expr
func (Value) Kind() Kind { return KindValue }

// Kind implements Expr
func (OrderBy) Kind() Kind { return KindOrderBy }

// Kind implements Expr
func (Collate) Kind() Kind { return KindCollate }

// Kind implements Expr
func (Raw) Kind() Kind { return KindRaw }

// Kind implements Expr
func (Paren) Kind() Kind { return KindParen }

func (Column) sealed()  {}
func (Func) sealed()    {}
func (Value) sealed()   {}
func (OrderBy) sealed() {}
func (Collate) sealed() {}
func (Raw) sealed()     {}
func (Paren) sealed()   {}

// Col returns a column reference.
func Col(field string) Column {
	return Column{Field: field}
}

// Call returns a function call over the given arguments.
func Call(name string, args ...Expr) Func {
	return Func{Name: name, Args: args}
}

// Lit returns a literal value.
func Lit(v any) Value {
	return Value{V: v}
}

// Asc wraps an expression with ascending ordering.
func Asc(e Expr) OrderBy {
	return OrderBy{Expr: e}
}

// Desc wraps an expression with descending ordering.
func Desc(e Expr) OrderBy {
	return OrderBy{Expr: e, Desc: true}
}

// Collated wraps an expression with a collation.
func Collated(e Expr, collation string) Collate {
	return Collate{Expr: e, Collation: collation}
}

// RawSQL returns a raw SQL fragment with ? placeholders bound to params.
func RawSQL(sql string, params ...any) Raw {
	return Raw{SQL: sql, Params: params}
}

// Flatten returns the expression and all its descendants in depth-first
// order. A nil node is returned as such so that callers can report it.
func Flatten(e Expr) []Expr {
	out := []Expr{e}
	switch e := e.(type) {
	case nil, Column, Value, Raw:
	case Func:
		for _, arg := range e.Args {
			out = append(out, Flatten(arg)...)
		}
	case OrderBy:
		out = append(out, Flatten(e.Expr)...)
	case Collate:
		out = append(out, Flatten(e.Expr)...)
	case Paren:
		out = append(out, Flatten(e.Expr)...)
	default:
		panic(fmt.Sprintf("unhandled expression kind %q", e.Kind()))
	}
	return out
}

// IsLiteral reports whether an expression renders to a constant: it contains
// no column references, function calls or raw fragments.
func IsLiteral(e Expr) bool {
	switch e := e.(type) {
	case Value:
		return true
	case OrderBy:
		return IsLiteral(e.Expr)
	case Collate:
		return IsLiteral(e.Expr)
	case Paren:
		return IsLiteral(e.Expr)
	default:
		return false
	}
}
