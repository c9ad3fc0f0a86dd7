package dialect

import (
	"strings"

	"github.com/stratadb/strata/sqlexpr"
)

type mysql struct {
	version Version
}

// MySQL returns a MySQL backend for the given server version. Expression
// indexes (functional key parts) require 8.0.13; older servers get such
// indexes skipped.
func MySQL(version string) (Backend, error) {
	v, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return mysql{version: v}, nil
}

func (mysql) Name() string {
	return "mysql"
}

func (b mysql) Features() Features {
	return Features{
		ExpressionIndexes: b.version.AtLeast(Version{Major: 8, Minor: 0, Patch: 13}),
	}
}

func (mysql) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var mysqlLiteralEscaper = strings.NewReplacer(
	`\`, `\\`,
	"'", `\'`,
	"\x00", `\0`,
	"\n", `\n`,
	"\r", `\r`,
	"\x1a", `\Z`,
)

func (mysql) QuoteLiteral(value string) string {
	return "'" + mysqlLiteralEscaper.Replace(value) + "'"
}

// COLLATE is not an ordering wrapper on MySQL: a collated key is a
// functional key part and renders as part of the expression.
func (mysql) WrapperPriority() []sqlexpr.Kind {
	return []sqlexpr.Kind{sqlexpr.KindOrderBy}
}

func (b mysql) CreateIndexSQL(ci CreateIndex) (string, error) {
	if err := checkFeatures(b, ci); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("CREATE INDEX ")
	sb.WriteString(b.QuoteIdent(ci.Name))
	sb.WriteString(" ON ")
	sb.WriteString(quoteQualified(b.QuoteIdent, ci.Table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(keyParts(b.QuoteIdent, ci), ", "))
	sb.WriteString(")")
	if ci.Using != "" {
		sb.WriteString(" USING ")
		sb.WriteString(ci.Using)
	}
	return sb.String(), nil
}

func (b mysql) DropIndexSQL(table, name string) (string, error) {
	return "DROP INDEX " + b.QuoteIdent(name) + " ON " + quoteQualified(b.QuoteIdent, table), nil
}
