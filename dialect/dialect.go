// Package dialect renders index DDL for particular SQL dialects.
//
// A Backend knows how to quote identifiers and literals, which index
// features the server supports, and how to assemble CREATE INDEX and DROP
// INDEX statements from a resolved definition. Feature decisions live here;
// the index definitions themselves are dialect-agnostic.
package dialect

import (
	"fmt"
	"strings"

	"github.com/stratadb/strata/sqlexpr"
)

// Features reports which index capabilities a backend supports.
type Features struct {
	ExpressionIndexes bool
	PartialIndexes    bool
	CoveringIndexes   bool
	OpClasses         bool
	IndexTablespaces  bool
}

// CreateIndex is a resolved index definition ready to be assembled into a
// CREATE INDEX statement. Either Columns or Expressions is filled in, never
// both. All names are unquoted storage names.
type CreateIndex struct {
	Table        string
	Name         string
	Columns      []string // key column names
	ColSuffixes  []string // per-column ordering ("" or "DESC"), parallel to Columns
	Expressions  []string // rendered key expressions
	ExprSuffixes []string // per-expression ordering, parallel to Expressions
	OpClasses    []string // per-key operator classes; empty entries select the default
	Using        string   // index method, empty for the backend default
	Condition    string   // partial-index predicate, literals already inlined
	Include      []string // covering column names
	Tablespace   string
}

// Backend renders index DDL for one SQL dialect.
type Backend interface {
	Name() string
	Features() Features

	// QuoteIdent quotes an identifier, escaping embedded quote characters.
	QuoteIdent(name string) string
	// QuoteLiteral quotes a string value for direct embedding into SQL.
	QuoteLiteral(value string) string

	// WrapperPriority returns the expression kinds that must form the
	// topmost chain of an indexed expression, outermost first. Kinds not
	// listed render as part of the expression itself.
	WrapperPriority() []sqlexpr.Kind

	CreateIndexSQL(ci CreateIndex) (string, error)
	DropIndexSQL(table, name string) (string, error)
}

// checkFeatures rejects definitions using clauses the backend does not
// support. Expression support is not checked here: unsupported expression
// indexes are skipped upstream rather than failing generation.
func checkFeatures(b Backend, ci CreateIndex) error {
	f := b.Features()
	switch {
	case ci.Condition != "" && !f.PartialIndexes:
		return fmt.Errorf("%s does not support partial indexes", b.Name())
	case len(ci.Include) > 0 && !f.CoveringIndexes:
		return fmt.Errorf("%s does not support covering indexes", b.Name())
	case hasOpClasses(ci.OpClasses) && !f.OpClasses:
		return fmt.Errorf("%s does not support operator classes", b.Name())
	case ci.Tablespace != "" && !f.IndexTablespaces:
		return fmt.Errorf("%s does not support index tablespaces", b.Name())
	}
	return nil
}

func hasOpClasses(opclasses []string) bool {
	for _, opclass := range opclasses {
		if opclass != "" {
			return true
		}
	}
	return false
}

// keyParts assembles the parenthesized key list of a CREATE INDEX statement:
// each key is a quoted column or a rendered expression, followed by its
// operator class and ordering when present.
func keyParts(quote func(string) string, ci CreateIndex) []string {
	var keys []string
	at := func(list []string, i int) string {
		if i < len(list) {
			return list[i]
		}
		return ""
	}
	for i, column := range ci.Columns {
		keys = append(keys, joinKey(quote(column), at(ci.OpClasses, i), at(ci.ColSuffixes, i)))
	}
	for i, expr := range ci.Expressions {
		keys = append(keys, joinKey(expr, at(ci.OpClasses, i), at(ci.ExprSuffixes, i)))
	}
	return keys
}

func joinKey(parts ...string) string {
	key := parts[0]
	for _, part := range parts[1:] {
		if part != "" {
			key += " " + part
		}
	}
	return key
}

// quoteQualified quotes a possibly schema-qualified name part by part,
// stripping any quoting the caller already applied.
func quoteQualified(quote func(string) string, name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quote(strings.Trim(part, "\"`"))
	}
	return strings.Join(parts, ".")
}
