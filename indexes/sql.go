package indexes

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/sqlexpr"
	"github.com/stratadb/strata/tlog"
	"go.uber.org/zap"
)

// Statement is the result of rendering one DDL statement. A nil Skipped
// means SQL was produced; otherwise the statement was deliberately skipped
// and Skipped carries the reason.
type Statement struct {
	Table   string
	Index   string
	SQL     string
	Skipped *Skip
}

// OK reports whether the statement was produced.
func (s Statement) OK() bool {
	return s.Skipped == nil
}

// Skip explains why no statement was produced.
type Skip struct {
	Reason string
}

// CreateOption adjusts CREATE INDEX generation.
type CreateOption func(p *createParams)

type createParams struct {
	using string
}

// Using selects an explicit index method (such as "gin" or "hash") on
// backends with a USING clause.
func Using(method string) CreateOption {
	return func(p *createParams) { p.using = method }
}

// CreateSQL renders the CREATE INDEX statement for this index on the given
// table, assigning the canonical name first if the index has none. The
// context carries the logger.
//
// When the backend does not support expression indexes and the key contains
// computed expressions, no statement is produced: the result carries a Skip
// with the reason and a warning is logged, and schema generation is expected
// to continue without this index. All other unsupported clauses are hard
// errors.
func (ix *Index) CreateSQL(ctx context.Context, table Table, backend dialect.Backend, options ...CreateOption) (Statement, error) {
	var p createParams
	for _, opt := range options {
		opt(&p)
	}
	if err := ix.AssignName(table); err != nil {
		return Statement{}, err
	}
	statement := Statement{Table: table.StorageName(), Index: ix.name}

	if !backend.Features().ExpressionIndexes && ix.ContainsExpressions() {
		tlog.Get(ctx).Warn("Skipping index: expression indexes not supported by backend",
			zap.String("index", ix.name),
			zap.String("table", table.StorageName()),
			zap.String("backend", backend.Name()))
		statement.Skipped = &Skip{Reason: fmt.Sprintf("%s does not support expression indexes", backend.Name())}
		return statement, nil
	}

	ci := dialect.CreateIndex{
		Table:      table.StorageName(),
		Name:       ix.name,
		OpClasses:  ix.opclasses,
		Using:      p.using,
		Tablespace: ix.tablespace,
	}
	// The table's default tablespace is a preference, not a requirement:
	// backends without tablespace support render the index without it. An
	// explicit index tablespace on such backends stays an error.
	if ci.Tablespace == "" && backend.Features().IndexTablespaces {
		if ts, ok := table.(Tablespacer); ok {
			ci.Tablespace = ts.DefaultTablespace()
		}
	}

	for i, fieldName := range ix.fieldNames {
		column, err := table.ResolveColumn(fieldName)
		if err != nil {
			return Statement{}, err
		}
		ci.Columns = append(ci.Columns, column)
		if strings.HasPrefix(ix.fields[i], "-") {
			ci.ColSuffixes = append(ci.ColSuffixes, "DESC")
		} else {
			ci.ColSuffixes = append(ci.ColSuffixes, "")
		}
	}

	for _, e := range ix.expressions {
		normalized, err := normalizeExpression(e, backend.WrapperPriority())
		if err != nil {
			return Statement{}, err
		}
		sql, ordering, err := sqlexpr.Render(normalized, table, backend)
		if err != nil {
			return Statement{}, err
		}
		ci.Expressions = append(ci.Expressions, sql)
		ci.ExprSuffixes = append(ci.ExprSuffixes, ordering)
	}

	if ix.condition != nil {
		sql, params, err := sqlexpr.ResolvePredicate(ix.condition, table, backend)
		if err != nil {
			return Statement{}, err
		}
		if ci.Condition, err = sqlexpr.InlineParams(sql, params, backend); err != nil {
			return Statement{}, err
		}
	}

	for _, fieldName := range ix.include {
		column, err := table.ResolveColumn(fieldName)
		if err != nil {
			return Statement{}, err
		}
		ci.Include = append(ci.Include, column)
	}

	sql, err := backend.CreateIndexSQL(ci)
	if err != nil {
		return Statement{}, err
	}
	statement.SQL = sql
	return statement, nil
}

// DropSQL renders the DROP INDEX statement for this index, assigning the
// canonical name first if the index has none.
func (ix *Index) DropSQL(table Table, backend dialect.Backend) (string, error) {
	if err := ix.AssignName(table); err != nil {
		return "", err
	}
	return backend.DropIndexSQL(table.StorageName(), ix.name)
}
