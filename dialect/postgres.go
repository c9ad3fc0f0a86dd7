package dialect

import (
	"strings"

	"github.com/lib/pq"
	"github.com/stratadb/strata/sqlexpr"
)

type postgres struct{}

// Postgres returns the PostgreSQL backend. It supports the full feature set:
// expression and partial indexes, covering columns, operator classes and
// tablespaces.
func Postgres() Backend {
	return postgres{}
}

func (postgres) Name() string {
	return "postgres"
}

func (postgres) Features() Features {
	return Features{
		ExpressionIndexes: true,
		PartialIndexes:    true,
		CoveringIndexes:   true,
		OpClasses:         true,
		IndexTablespaces:  true,
	}
}

func (postgres) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func (postgres) QuoteLiteral(value string) string {
	return pq.QuoteLiteral(value)
}

func (postgres) WrapperPriority() []sqlexpr.Kind {
	return []sqlexpr.Kind{sqlexpr.KindOrderBy, sqlexpr.KindCollate}
}

func (b postgres) CreateIndexSQL(ci CreateIndex) (string, error) {
	if err := checkFeatures(b, ci); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	sb.WriteString(pq.QuoteIdentifier(ci.Name))
	sb.WriteString(" ON ")
	sb.WriteString(quoteQualified(pq.QuoteIdentifier, ci.Table))
	if ci.Using != "" {
		sb.WriteString(" USING ")
		sb.WriteString(ci.Using)
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(keyParts(pq.QuoteIdentifier, ci), ", "))
	sb.WriteString(")")
	if len(ci.Include) > 0 {
		include := make([]string, len(ci.Include))
		for i, column := range ci.Include {
			include[i] = pq.QuoteIdentifier(column)
		}
		sb.WriteString(" INCLUDE (")
		sb.WriteString(strings.Join(include, ", "))
		sb.WriteString(")")
	}
	if ci.Tablespace != "" {
		sb.WriteString(" TABLESPACE ")
		sb.WriteString(pq.QuoteIdentifier(ci.Tablespace))
	}
	if ci.Condition != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(ci.Condition)
	}
	return sb.String(), nil
}

func (postgres) DropIndexSQL(table, name string) (string, error) {
	return "DROP INDEX " + pq.QuoteIdentifier(name), nil
}
