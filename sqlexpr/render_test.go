package sqlexpr

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testColumns map[string]string

func (c testColumns) ResolveColumn(field string) (string, error) {
	if column, ok := c[field]; ok {
		return column, nil
	}
	return "", fmt.Errorf("unknown column %s", field)
}

type testQuoter struct{}

func (testQuoter) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (testQuoter) QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

var testTable = testColumns{
	"Email":  "email",
	"Name":   "name",
	"Status": "status",
}

func TestRenderColumn(t *testing.T) {
	sql, ordering, err := Render(Col("Email"), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `"email"`, sql)
	require.Empty(t, ordering)

	_, _, err = Render(Col("Missing"), testTable, testQuoter{})
	require.Error(t, err)
}

func TestRenderFunc(t *testing.T) {
	sql, ordering, err := Render(Call("LOWER", Col("Email")), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `LOWER("email")`, sql)
	require.Empty(t, ordering)

	sql, _, err = Render(Call("COALESCE", Col("Name"), Lit("unknown")), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `COALESCE("name", 'unknown')`, sql)

	sql, _, err = Render(Call("NOW"), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, "NOW()", sql)
}

func TestRenderOrderBy(t *testing.T) {
	sql, ordering, err := Render(Desc(Col("Email")), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `"email"`, sql)
	require.Equal(t, "DESC", ordering)

	sql, ordering, err = Render(Asc(Col("Email")), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `"email"`, sql)
	require.Equal(t, "ASC", ordering)

	o := OrderBy{Expr: Col("Email"), Desc: true, Nulls: NullsLast}
	_, ordering, err = Render(o, testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, "DESC NULLS LAST", ordering)

	// ordering below the root renders inline
	sql, ordering, err = Render(Call("GREATEST", Desc(Col("Email"))), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `GREATEST("email" DESC)`, sql)
	require.Empty(t, ordering)
}

func TestRenderCollate(t *testing.T) {
	sql, _, err := Render(Collated(Col("Name"), "de_DE"), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `"name" COLLATE "de_DE"`, sql)
}

func TestRenderParen(t *testing.T) {
	sql, _, err := Render(Paren{Expr: Call("LOWER", Col("Email"))}, testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `(LOWER("email"))`, sql)
}

func TestRenderRaw(t *testing.T) {
	sql, _, err := Render(RawSQL("height / ?", 2), testTable, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, "height / 2", sql)
}

func TestRenderNil(t *testing.T) {
	_, _, err := Render(OrderBy{}, testTable, testQuoter{})
	require.Error(t, err)
}

func TestLiteral(t *testing.T) {
	for _, test := range []struct {
		value    any
		expected string
	}{
		{nil, "NULL"},
		{"o'clock", "'o''clock'"},
		{true, "TRUE"},
		{false, "FALSE"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{3.5, "3.5"},
		{float64(42), "42"},
		{time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC), "'2024-05-17 10:30:00'"},
	} {
		lit, err := Literal(testQuoter{}, test.value)
		require.NoError(t, err)
		require.Equal(t, test.expected, lit)
	}

	_, err := Literal(testQuoter{}, struct{}{})
	require.Error(t, err)
}

func TestInlineParams(t *testing.T) {
	sql, err := InlineParams("status = ? AND age > ?", []any{"active", 21}, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, "status = 'active' AND age > 21", sql)

	// placeholders inside quoted regions are preserved
	sql, err = InlineParams(`"weird?" = ? AND note = 'what?'`, []any{1}, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `"weird?" = 1 AND note = 'what?'`, sql)

	// doubled quotes do not close the region
	sql, err = InlineParams(`name = 'it''s?' OR id = ?`, []any{7}, testQuoter{})
	require.NoError(t, err)
	require.Equal(t, `name = 'it''s?' OR id = 7`, sql)

	_, err = InlineParams("a = ?", nil, testQuoter{})
	require.Error(t, err)
	_, err = InlineParams("a = ?", []any{1, 2}, testQuoter{})
	require.Error(t, err)
	_, err = InlineParams("a = 'unterminated", []any{}, testQuoter{})
	require.Error(t, err)
}

func TestFlatten(t *testing.T) {
	e := Desc(Collated(Call("LOWER", Col("Email")), "de_DE"))
	flat := Flatten(e)
	require.Len(t, flat, 4)
	require.Equal(t, KindOrderBy, flat[0].Kind())
	require.Equal(t, KindCollate, flat[1].Kind())
	require.Equal(t, KindFunc, flat[2].Kind())
	require.Equal(t, KindColumn, flat[3].Kind())
}

func TestIsLiteral(t *testing.T) {
	require.True(t, IsLiteral(Lit(1)))
	require.True(t, IsLiteral(Desc(Lit("a"))))
	require.True(t, IsLiteral(Collated(Lit("a"), "C")))
	require.False(t, IsLiteral(Col("Email")))
	require.False(t, IsLiteral(Call("NOW")))
	require.False(t, IsLiteral(RawSQL("1")))
	require.False(t, IsLiteral(Desc(Col("Email"))))
}
