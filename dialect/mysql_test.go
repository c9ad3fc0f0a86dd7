package dialect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMySQLCreateIndex(t *testing.T) {
	b, err := MySQL("8.0.21")
	require.NoError(t, err)
	sql, err := b.CreateIndexSQL(CreateIndex{
		Table:       "app_user",
		Name:        "app_user_email_idx",
		Columns:     []string{"email", "joined"},
		ColSuffixes: []string{"", "DESC"},
	})
	require.NoError(t, err)
	require.Equal(t, "CREATE INDEX `app_user_email_idx` ON `app_user` (`email`, `joined` DESC)", sql)
}

func TestMySQLCreateIndexUsing(t *testing.T) {
	b, err := MySQL("8.0.21")
	require.NoError(t, err)
	sql, err := b.CreateIndexSQL(CreateIndex{
		Table:   "app_user",
		Name:    "idx",
		Columns: []string{"email"},
		Using:   "hash",
	})
	require.NoError(t, err)
	require.Equal(t, "CREATE INDEX `idx` ON `app_user` (`email`) USING hash", sql)
}

func TestMySQLExpressionSupport(t *testing.T) {
	old, err := MySQL("5.7.42")
	require.NoError(t, err)
	require.False(t, old.Features().ExpressionIndexes)

	boundary, err := MySQL("8.0.13")
	require.NoError(t, err)
	require.True(t, boundary.Features().ExpressionIndexes)

	sql, err := boundary.CreateIndexSQL(CreateIndex{
		Table:       "app_user",
		Name:        "lower_email_idx",
		Expressions: []string{"(LOWER(`email`))"},
	})
	require.NoError(t, err)
	require.Equal(t, "CREATE INDEX `lower_email_idx` ON `app_user` ((LOWER(`email`)))", sql)
}

func TestMySQLUnsupportedClauses(t *testing.T) {
	b, err := MySQL("8.0.21")
	require.NoError(t, err)

	_, err = b.CreateIndexSQL(CreateIndex{Table: "t", Name: "i", Columns: []string{"a"}, Condition: "`a` = 1"})
	require.EqualError(t, err, "mysql does not support partial indexes")
	_, err = b.CreateIndexSQL(CreateIndex{Table: "t", Name: "i", Columns: []string{"a"}, Include: []string{"b"}})
	require.EqualError(t, err, "mysql does not support covering indexes")
	_, err = b.CreateIndexSQL(CreateIndex{Table: "t", Name: "i", Columns: []string{"a"}, OpClasses: []string{"varchar_ops"}})
	require.EqualError(t, err, "mysql does not support operator classes")
	_, err = b.CreateIndexSQL(CreateIndex{Table: "t", Name: "i", Columns: []string{"a"}, Tablespace: "fast"})
	require.EqualError(t, err, "mysql does not support index tablespaces")
}

func TestMySQLDropIndex(t *testing.T) {
	b, err := MySQL("8.0.21")
	require.NoError(t, err)
	sql, err := b.DropIndexSQL("app_user", "idx")
	require.NoError(t, err)
	require.Equal(t, "DROP INDEX `idx` ON `app_user`", sql)
}

func TestMySQLQuoting(t *testing.T) {
	b, err := MySQL("8.0.21")
	require.NoError(t, err)
	require.Equal(t, "`wei``rd`", b.QuoteIdent("wei`rd"))
	require.Equal(t, `'o\'clock'`, b.QuoteLiteral("o'clock"))
	require.Equal(t, `'a\\b'`, b.QuoteLiteral(`a\b`))
}
