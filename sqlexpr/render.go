package sqlexpr

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Columns resolves logical field names to storage column names. Implemented
// by table descriptors.
type Columns interface {
	ResolveColumn(field string) (string, error)
}

// Quoter renders identifiers and string literals for a particular SQL
// dialect. Implemented by dialect backends.
type Quoter interface {
	QuoteIdent(name string) string
	QuoteLiteral(value string) string
}

// Render resolves an expression to SQL text plus a trailing ordering suffix
// ("ASC", "DESC", optionally followed by a NULLS placement). The suffix is
// returned separately because index DDL places ordering after any operator
// class.
func Render(e Expr, columns Columns, q Quoter) (sql, ordering string, err error) {
	if o, ok := e.(OrderBy); ok {
		inner, err := renderInline(o.Expr, columns, q)
		if err != nil {
			return "", "", err
		}
		return inner, orderSuffix(o), nil
	}
	inner, err := renderInline(e, columns, q)
	return inner, "", err
}

func orderSuffix(o OrderBy) string {
	ordering := "ASC"
	if o.Desc {
		ordering = "DESC"
	}
	switch o.Nulls {
	case NullsFirst:
		ordering += " NULLS FIRST"
	case NullsLast:
		ordering += " NULLS LAST"
	}
	return ordering
}

func renderInline(e Expr, columns Columns, q Quoter) (string, error) {
	switch e := e.(type) {
	case nil:
		return "", fmt.Errorf("nil expression")
	case Column:
		column, err := columns.ResolveColumn(e.Field)
		if err != nil {
			return "", err
		}
		return q.QuoteIdent(column), nil
	case Func:
		args := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			s, err := renderInline(arg, columns, q)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		return e.Name + "(" + strings.Join(args, ", ") + ")", nil
	case Value:
		return Literal(q, e.V)
	case OrderBy:
		inner, err := renderInline(e.Expr, columns, q)
		if err != nil {
			return "", err
		}
		return inner + " " + orderSuffix(e), nil
	case Collate:
		inner, err := renderInline(e.Expr, columns, q)
		if err != nil {
			return "", err
		}
		return inner + " COLLATE " + q.QuoteIdent(e.Collation), nil
	case Raw:
		return InlineParams(e.SQL, e.Params, q)
	case Paren:
		inner, err := renderInline(e.Expr, columns, q)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	default:
		panic(fmt.Sprintf("unhandled expression kind %q", e.Kind()))
	}
}

// Literal renders a Go value as a SQL literal. String quoting is delegated
// to the dialect; other primitives render in their canonical SQL spelling.
func Literal(q Quoter, v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return q.QuoteLiteral(v), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return q.QuoteLiteral(v.UTC().Format("2006-01-02 15:04:05.999999")), nil
	default:
		return "", fmt.Errorf("cannot render %T as a SQL literal", v)
	}
}

// InlineParams replaces each ? placeholder with the corresponding parameter
// rendered as a dialect-quoted literal. DDL statements cannot bind
// parameters, so partial-index conditions are embedded this way. This is the
// only place where values are spliced into SQL text. Placeholders inside
// quoted regions are left alone; a quote character is escaped by doubling it.
func InlineParams(sql string, params []any, q Quoter) (string, error) {
	var b strings.Builder
	next := 0
	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; c {
		case '\'', '"', '`':
			end, err := skipQuoted(sql, i)
			if err != nil {
				return "", err
			}
			b.WriteString(sql[i:end])
			i = end - 1
		case '?':
			if next >= len(params) {
				return "", fmt.Errorf("not enough parameters for placeholders in %q", sql)
			}
			lit, err := Literal(q, params[next])
			if err != nil {
				return "", err
			}
			b.WriteString(lit)
			next++
		default:
			b.WriteByte(c)
		}
	}
	if next != len(params) {
		return "", fmt.Errorf("%d unused parameters for placeholders in %q", len(params)-next, sql)
	}
	return b.String(), nil
}

// skipQuoted returns the position just past the quoted region opening at i.
func skipQuoted(sql string, i int) (int, error) {
	quote := sql[i]
	for j := i + 1; j < len(sql); j++ {
		if sql[j] != quote {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == quote {
			j++
			continue
		}
		return j + 1, nil
	}
	return 0, fmt.Errorf("unterminated quote in %q", sql)
}
