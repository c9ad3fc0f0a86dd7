package sqlexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, p Predicate) (string, []any) {
	sql, params, err := ResolvePredicate(p, testTable, testQuoter{})
	require.NoError(t, err)
	return sql, params
}

func TestPredicateComparisons(t *testing.T) {
	for _, test := range []struct {
		pred     Predicate
		expected string
	}{
		{Eq("Status", "active"), `"status" = ?`},
		{Ne("Status", "active"), `"status" <> ?`},
		{Gt("Status", 1), `"status" > ?`},
		{Ge("Status", 1), `"status" >= ?`},
		{Lt("Status", 1), `"status" < ?`},
		{Le("Status", 1), `"status" <= ?`},
	} {
		sql, params := resolve(t, test.pred)
		require.Equal(t, test.expected, sql)
		require.Len(t, params, 1)
	}
}

func TestPredicateNull(t *testing.T) {
	sql, params := resolve(t, Eq("Status", nil))
	require.Equal(t, `"status" IS NULL`, sql)
	require.Empty(t, params)

	sql, params = resolve(t, Ne("Status", nil))
	require.Equal(t, `"status" IS NOT NULL`, sql)
	require.Empty(t, params)

	_, _, err := ResolvePredicate(Gt("Status", nil), testTable, testQuoter{})
	require.Error(t, err)
}

func TestPredicateIn(t *testing.T) {
	sql, params := resolve(t, In("Status", "new", "active"))
	require.Equal(t, `"status" IN (?, ?)`, sql)
	require.Equal(t, []any{"new", "active"}, params)

	_, _, err := ResolvePredicate(In("Status"), testTable, testQuoter{})
	require.Error(t, err)
}

func TestPredicateGroups(t *testing.T) {
	sql, params := resolve(t, And(Eq("Status", "active"), Gt("Name", "a")))
	require.Equal(t, `("status" = ? AND "name" > ?)`, sql)
	require.Equal(t, []any{"active", "a"}, params)

	sql, _ = resolve(t, Or(Eq("Status", "a"), Eq("Status", "b"), Eq("Status", "c")))
	require.Equal(t, `("status" = ? OR "status" = ? OR "status" = ?)`, sql)

	// a group of one resolves without parentheses
	sql, _ = resolve(t, And(Eq("Status", "active")))
	require.Equal(t, `"status" = ?`, sql)

	_, _, err := ResolvePredicate(And(), testTable, testQuoter{})
	require.Error(t, err)
}

func TestPredicateNot(t *testing.T) {
	sql, params := resolve(t, Not(Eq("Status", "active")))
	require.Equal(t, `NOT ("status" = ?)`, sql)
	require.Equal(t, []any{"active"}, params)
}

func TestPredicateUnknownColumn(t *testing.T) {
	_, _, err := ResolvePredicate(Eq("Missing", 1), testTable, testQuoter{})
	require.Error(t, err)
	_, _, err = ResolvePredicate(In("Missing", 1), testTable, testQuoter{})
	require.Error(t, err)
}
