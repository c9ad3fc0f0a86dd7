package sqlexpr

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Predicate is a boolean condition tree over table fields, used for
// partial-index conditions. Construct predicates with Eq, Ne, Gt, Ge, Lt,
// Le, In, And, Or and Not; the node types themselves are opaque.
type Predicate interface {
	json.Marshaler
	sealedPredicate()
}

type cmp struct {
	field string
	op    string
	value any
}

type in struct {
	field  string
	values []any
}

type group struct {
	op    string
	preds []Predicate
}

type not struct {
	pred Predicate
}

func (cmp) sealedPredicate()   {}
func (in) sealedPredicate()    {}
func (group) sealedPredicate() {}
func (not) sealedPredicate()   {}

// Eq matches rows where the field equals the value. A nil value matches
// NULL.
func Eq(field string, value any) Predicate {
	return cmp{field: field, op: "eq", value: value}
}

// Ne matches rows where the field differs from the value. A nil value
// matches non-NULL rows.
func Ne(field string, value any) Predicate {
	return cmp{field: field, op: "ne", value: value}
}

// Gt matches rows where the field is greater than the value.
func Gt(field string, value any) Predicate {
	return cmp{field: field, op: "gt", value: value}
}

// Ge matches rows where the field is greater than or equal to the value.
func Ge(field string, value any) Predicate {
	return cmp{field: field, op: "ge", value: value}
}

// Lt matches rows where the field is less than the value.
func Lt(field string, value any) Predicate {
	return cmp{field: field, op: "lt", value: value}
}

// Le matches rows where the field is less than or equal to the value.
func Le(field string, value any) Predicate {
	return cmp{field: field, op: "le", value: value}
}

// In matches rows where the field equals one of the values.
func In(field string, values ...any) Predicate {
	return in{field: field, values: values}
}

// And matches rows satisfying every predicate.
func And(preds ...Predicate) Predicate {
	return group{op: "and", preds: preds}
}

// Or matches rows satisfying at least one predicate.
func Or(preds ...Predicate) Predicate {
	return group{op: "or", preds: preds}
}

// Not matches rows not satisfying the predicate.
func Not(pred Predicate) Predicate {
	return not{pred: pred}
}

var cmpSQL = map[string]string{
	"eq": "=",
	"ne": "<>",
	"gt": ">",
	"ge": ">=",
	"lt": "<",
	"le": "<=",
}

// ResolvePredicate resolves a predicate tree to SQL text with ?
// placeholders, plus the matching positional parameters. Values are not
// rendered here; DDL embedding inlines them separately (see InlineParams).
func ResolvePredicate(p Predicate, columns Columns, q Quoter) (string, []any, error) {
	switch p := p.(type) {
	case nil:
		return "", nil, fmt.Errorf("nil predicate")
	case cmp:
		column, err := columns.ResolveColumn(p.field)
		if err != nil {
			return "", nil, err
		}
		ident := q.QuoteIdent(column)
		if p.value == nil {
			switch p.op {
			case "eq":
				return ident + " IS NULL", nil, nil
			case "ne":
				return ident + " IS NOT NULL", nil, nil
			default:
				return "", nil, fmt.Errorf("cannot order %s against NULL", p.field)
			}
		}
		return ident + " " + cmpSQL[p.op] + " ?", []any{p.value}, nil
	case in:
		if len(p.values) == 0 {
			return "", nil, fmt.Errorf("IN predicate on %s requires at least one value", p.field)
		}
		column, err := columns.ResolveColumn(p.field)
		if err != nil {
			return "", nil, err
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(p.values)), ", ")
		return q.QuoteIdent(column) + " IN (" + placeholders + ")", slices.Clone(p.values), nil
	case group:
		if len(p.preds) == 0 {
			return "", nil, fmt.Errorf("empty %s predicate", strings.ToUpper(p.op))
		}
		if len(p.preds) == 1 {
			return ResolvePredicate(p.preds[0], columns, q)
		}
		parts := make([]string, 0, len(p.preds))
		var params []any
		for _, sub := range p.preds {
			sql, subParams, err := ResolvePredicate(sub, columns, q)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, subParams...)
		}
		op := " AND "
		if p.op == "or" {
			op = " OR "
		}
		return "(" + strings.Join(parts, op) + ")", params, nil
	case not:
		sql, params, err := ResolvePredicate(p.pred, columns, q)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", params, nil
	default:
		panic(fmt.Sprintf("unhandled predicate type %T", p))
	}
}
