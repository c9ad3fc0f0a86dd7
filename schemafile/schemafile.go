// Package schemafile loads table and index declarations from TOML files.
//
// A schema file declares tables, their columns and their indexes:
//
//	[[table]]
//	name = "app_user"
//
//	[[table.column]]
//	name = "Email"
//	storage = "email"
//
//	[[table.index]]
//	fields = ["Email"]
//
// Declarations translate into the same model.Table and indexes.Index values
// that Go code builds directly, so the generated DDL and index names are
// identical either way.
package schemafile

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/stratadb/strata/indexes"
	"github.com/stratadb/strata/model"
	"github.com/stratadb/strata/sqlexpr"
)

// File is the top-level structure of a schema file.
type File struct {
	Tables []TableDecl `toml:"table"`
}

// TableDecl declares one table.
type TableDecl struct {
	Name       string       `toml:"name"`
	Tablespace string       `toml:"tablespace"`
	Columns    []ColumnDecl `toml:"column"`
	Indexes    []IndexDecl  `toml:"index"`
}

// ColumnDecl declares one column. Name is the field name indexes refer to,
// storage is the SQL column name. Either may be omitted to match the other.
type ColumnDecl struct {
	Name    string `toml:"name"`
	Storage string `toml:"storage"`
}

// IndexDecl declares one index of a table.
type IndexDecl struct {
	Name       string      `toml:"name"`
	Fields     []string    `toml:"fields"`
	Exprs      []ExprDecl  `toml:"expr"`
	Where      []WhereDecl `toml:"where"`
	Include    []string    `toml:"include"`
	OpClasses  []string    `toml:"opclasses"`
	Tablespace string      `toml:"tablespace"`
}

// ExprDecl declares one key of an expression index: a field, optionally
// wrapped in a function call, a collation and an ordering.
type ExprDecl struct {
	Field   string `toml:"field"`
	Func    string `toml:"func"`
	Collate string `toml:"collate"`
	Desc    bool   `toml:"desc"`
	Nulls   string `toml:"nulls"`
}

// WhereDecl declares one comparison of a partial index predicate. Multiple
// declarations are combined with AND. Op defaults to eq; the op in takes the
// values list instead of a single value.
type WhereDecl struct {
	Field  string `toml:"field"`
	Op     string `toml:"op"`
	Value  any    `toml:"value"`
	Values []any  `toml:"values"`
}

// Load reads a schema file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	f, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return f, nil
}

// Parse parses schema declarations from TOML source. Unknown keys are
// rejected.
func Parse(data string) (*File, error) {
	var f File
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, err
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown schema keys: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

// Build translates the declarations into table descriptors.
func (f *File) Build() ([]*model.Table, error) {
	tables := make([]*model.Table, 0, len(f.Tables))
	for _, decl := range f.Tables {
		table, err := buildTable(decl)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func buildTable(decl TableDecl) (*model.Table, error) {
	columns := make([]model.Column, 0, len(decl.Columns))
	for _, c := range decl.Columns {
		columns = append(columns, model.Column{GoName: c.Name, Name: c.Storage})
	}

	defs := make([]*indexes.Index, 0, len(decl.Indexes))
	for _, d := range decl.Indexes {
		def, err := buildIndex(d)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", decl.Name, err)
		}
		defs = append(defs, def)
	}

	table, err := model.NewTable(decl.Name, columns, defs...)
	if err != nil {
		return nil, err
	}
	if decl.Tablespace != "" {
		table = table.WithTablespace(decl.Tablespace)
	}
	return table, nil
}

func buildIndex(decl IndexDecl) (*indexes.Index, error) {
	var options []indexes.Option
	if decl.Name != "" {
		options = append(options, indexes.Name(decl.Name))
	}
	if len(decl.Fields) > 0 {
		options = append(options, indexes.Fields(decl.Fields...))
	}
	if len(decl.Exprs) > 0 {
		exprs := make([]sqlexpr.Expr, 0, len(decl.Exprs))
		for _, d := range decl.Exprs {
			e, err := buildExpr(d)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		options = append(options, indexes.Expressions(exprs...))
	}
	if len(decl.Where) > 0 {
		condition, err := buildWhere(decl.Where)
		if err != nil {
			return nil, err
		}
		options = append(options, indexes.Condition(condition))
	}
	if len(decl.Include) > 0 {
		options = append(options, indexes.Include(decl.Include...))
	}
	if len(decl.OpClasses) > 0 {
		options = append(options, indexes.OpClasses(decl.OpClasses...))
	}
	if decl.Tablespace != "" {
		options = append(options, indexes.Tablespace(decl.Tablespace))
	}
	return indexes.New(options...)
}

func buildExpr(decl ExprDecl) (sqlexpr.Expr, error) {
	if decl.Field == "" {
		return nil, fmt.Errorf("index expression requires a field")
	}
	var e sqlexpr.Expr = sqlexpr.Col(decl.Field)
	if decl.Func != "" {
		e = sqlexpr.Call(decl.Func, e)
	}
	if decl.Collate != "" {
		e = sqlexpr.Collated(e, decl.Collate)
	}
	var nulls sqlexpr.Nulls
	switch decl.Nulls {
	case "":
		nulls = sqlexpr.NullsDefault
	case "first":
		nulls = sqlexpr.NullsFirst
	case "last":
		nulls = sqlexpr.NullsLast
	default:
		return nil, fmt.Errorf("nulls must be one of: first, last")
	}
	if decl.Desc || nulls != sqlexpr.NullsDefault {
		e = sqlexpr.OrderBy{Expr: e, Desc: decl.Desc, Nulls: nulls}
	}
	return e, nil
}

func buildWhere(decls []WhereDecl) (sqlexpr.Predicate, error) {
	preds := make([]sqlexpr.Predicate, 0, len(decls))
	for _, d := range decls {
		p, err := buildComparison(d)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return sqlexpr.And(preds...), nil
}

func buildComparison(decl WhereDecl) (sqlexpr.Predicate, error) {
	if decl.Field == "" {
		return nil, fmt.Errorf("where requires a field")
	}
	op := decl.Op
	if op == "" {
		op = "eq"
	}
	if op == "in" {
		if len(decl.Values) == 0 {
			return nil, fmt.Errorf("where op in on %s requires values", decl.Field)
		}
		return sqlexpr.In(decl.Field, decl.Values...), nil
	}
	if len(decl.Values) > 0 {
		return nil, fmt.Errorf("where op %s on %s takes value, not values", op, decl.Field)
	}
	switch op {
	case "eq":
		return sqlexpr.Eq(decl.Field, decl.Value), nil
	case "ne":
		return sqlexpr.Ne(decl.Field, decl.Value), nil
	case "gt":
		return sqlexpr.Gt(decl.Field, decl.Value), nil
	case "ge":
		return sqlexpr.Ge(decl.Field, decl.Value), nil
	case "lt":
		return sqlexpr.Lt(decl.Field, decl.Value), nil
	case "le":
		return sqlexpr.Le(decl.Field, decl.Value), nil
	default:
		return nil, fmt.Errorf("unknown where op %q", op)
	}
}
