package indexes

import (
	"fmt"
	"strings"

	"github.com/stratadb/strata/sqlexpr"
	"golang.org/x/exp/slices"
)

// normalizeExpression canonicalizes the wrapper nesting of an indexed
// expression. Wrappers (the expression kinds in the backend's priority list,
// ordering and collation for most dialects) must form the topmost chain of
// the tree, appear at most once each, and be nested in priority order; any
// other arrangement is rejected. A non-column root is parenthesized because
// dialects require parentheses around computed expressions in an index key
// list.
func normalizeExpression(e sqlexpr.Expr, priority []sqlexpr.Kind) (sqlexpr.Expr, error) {
	flat := sqlexpr.Flatten(e)
	var wrappers []int
	for i, node := range flat {
		if node == nil {
			return nil, MalformedExpressionError("nil node in indexed expression")
		}
		if slices.Contains(priority, node.Kind()) {
			wrappers = append(wrappers, i)
		}
	}

	seen := map[sqlexpr.Kind]bool{}
	for _, i := range wrappers {
		kind := flat[i].Kind()
		if seen[kind] {
			return nil, MalformedExpressionError(fmt.Sprintf(
				"multiple references to %s cannot be used in an indexed expression", kind))
		}
		seen[kind] = true
	}

	// The wrappers must occupy the first positions of the depth-first
	// order (anything else means one is buried inside the expression) and
	// appear in priority order.
	last := -1
	for pos, i := range wrappers {
		rank := slices.Index(priority, flat[i].Kind())
		if i != pos || rank < last {
			return nil, MalformedExpressionError(fmt.Sprintf(
				"%s wrappers must be the topmost parts of an indexed expression, nested in priority order",
				kindList(priority)))
		}
		last = rank
	}

	root := flat[len(wrappers)]
	if root.Kind() != sqlexpr.KindColumn && root.Kind() != sqlexpr.KindParen {
		root = sqlexpr.Paren{Expr: root}
	}
	for pos := len(wrappers) - 1; pos >= 0; pos-- {
		switch w := flat[pos].(type) {
		case sqlexpr.OrderBy:
			w.Expr = root
			root = w
		case sqlexpr.Collate:
			w.Expr = root
			root = w
		default:
			panic(fmt.Sprintf("unhandled wrapper kind %q", flat[pos].Kind()))
		}
	}
	return root, nil
}

func kindList(kinds []sqlexpr.Kind) string {
	parts := make([]string, len(kinds))
	for i, kind := range kinds {
		parts[i] = string(kind)
	}
	return strings.Join(parts, ", ")
}
