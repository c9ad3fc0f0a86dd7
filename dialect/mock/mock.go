// Package mock provides a configurable dialect backend to be used in
// unittests.
package mock

import (
	"strings"

	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/sqlexpr"
)

// Backend is a dialect backend with adjustable feature flags and canned
// errors. It records every definition passed to CreateIndexSQL and
// DropIndexSQL. The zero value is not useful; use New.
type Backend struct {
	DialectName string
	Support     dialect.Features
	Priority    []sqlexpr.Kind
	CreateErr   error
	DropErr     error

	Created []dialect.CreateIndex
	Dropped [][2]string // table, index name
}

// New returns a mock backend with every feature enabled.
func New() *Backend {
	return &Backend{
		DialectName: "mock",
		Support: dialect.Features{
			ExpressionIndexes: true,
			PartialIndexes:    true,
			CoveringIndexes:   true,
			OpClasses:         true,
			IndexTablespaces:  true,
		},
		Priority: []sqlexpr.Kind{sqlexpr.KindOrderBy, sqlexpr.KindCollate},
	}
}

// Name implements dialect.Backend
func (b *Backend) Name() string {
	return b.DialectName
}

// Features implements dialect.Backend
func (b *Backend) Features() dialect.Features {
	return b.Support
}

// QuoteIdent implements dialect.Backend
func (b *Backend) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral implements dialect.Backend
func (b *Backend) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// WrapperPriority implements dialect.Backend
func (b *Backend) WrapperPriority() []sqlexpr.Kind {
	return b.Priority
}

// CreateIndexSQL implements dialect.Backend. The statement is rendered in a
// fixed PostgreSQL-like shape so that tests can assert on complete SQL.
func (b *Backend) CreateIndexSQL(ci dialect.CreateIndex) (string, error) {
	b.Created = append(b.Created, ci)
	if b.CreateErr != nil {
		return "", b.CreateErr
	}
	var keys []string
	at := func(list []string, i int) string {
		if i < len(list) {
			return list[i]
		}
		return ""
	}
	for i, column := range ci.Columns {
		key := b.QuoteIdent(column)
		if opclass := at(ci.OpClasses, i); opclass != "" {
			key += " " + opclass
		}
		if suffix := at(ci.ColSuffixes, i); suffix != "" {
			key += " " + suffix
		}
		keys = append(keys, key)
	}
	for i, expr := range ci.Expressions {
		key := expr
		if opclass := at(ci.OpClasses, i); opclass != "" {
			key += " " + opclass
		}
		if suffix := at(ci.ExprSuffixes, i); suffix != "" {
			key += " " + suffix
		}
		keys = append(keys, key)
	}
	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	sb.WriteString(b.QuoteIdent(ci.Name))
	sb.WriteString(" ON ")
	sb.WriteString(b.QuoteIdent(ci.Table))
	if ci.Using != "" {
		sb.WriteString(" USING ")
		sb.WriteString(ci.Using)
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(keys, ", "))
	sb.WriteString(")")
	if len(ci.Include) > 0 {
		include := make([]string, len(ci.Include))
		for i, column := range ci.Include {
			include[i] = b.QuoteIdent(column)
		}
		sb.WriteString(" INCLUDE (")
		sb.WriteString(strings.Join(include, ", "))
		sb.WriteString(")")
	}
	if ci.Tablespace != "" {
		sb.WriteString(" TABLESPACE ")
		sb.WriteString(b.QuoteIdent(ci.Tablespace))
	}
	if ci.Condition != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(ci.Condition)
	}
	return sb.String(), nil
}

// DropIndexSQL implements dialect.Backend
func (b *Backend) DropIndexSQL(table, name string) (string, error) {
	b.Dropped = append(b.Dropped, [2]string{table, name})
	if b.DropErr != nil {
		return "", b.DropErr
	}
	return "DROP INDEX " + b.QuoteIdent(name), nil
}
