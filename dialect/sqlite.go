package dialect

import (
	"fmt"
	"strings"

	"github.com/stratadb/strata/sqlexpr"
)

type sqlite struct{}

// SQLite returns the SQLite backend. Expression and partial indexes are
// supported; covering columns, operator classes, tablespaces and explicit
// index methods are not.
func SQLite() Backend {
	return sqlite{}
}

func (sqlite) Name() string {
	return "sqlite"
}

func (sqlite) Features() Features {
	return Features{
		ExpressionIndexes: true,
		PartialIndexes:    true,
	}
}

func (sqlite) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqlite) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (sqlite) WrapperPriority() []sqlexpr.Kind {
	return []sqlexpr.Kind{sqlexpr.KindOrderBy, sqlexpr.KindCollate}
}

func (b sqlite) CreateIndexSQL(ci CreateIndex) (string, error) {
	if err := checkFeatures(b, ci); err != nil {
		return "", err
	}
	if ci.Using != "" {
		return "", fmt.Errorf("sqlite does not support index methods")
	}
	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	sb.WriteString(b.QuoteIdent(ci.Name))
	sb.WriteString(" ON ")
	sb.WriteString(quoteQualified(b.QuoteIdent, ci.Table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(keyParts(b.QuoteIdent, ci), ", "))
	sb.WriteString(")")
	if ci.Condition != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(ci.Condition)
	}
	return sb.String(), nil
}

func (b sqlite) DropIndexSQL(table, name string) (string, error) {
	return "DROP INDEX " + b.QuoteIdent(name), nil
}
