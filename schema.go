package strata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ridge/must/v2"
	"github.com/stratadb/strata/catalog"
	"github.com/stratadb/strata/dialect"
	"github.com/stratadb/strata/history"
	"github.com/stratadb/strata/indexes"
	"github.com/stratadb/strata/model"
	"github.com/stratadb/strata/transform"
	"golang.org/x/exp/slices"
)

// Schema is a named bundle of tables whose index definitions are tracked in
// a catalog. Index names share one namespace across the whole schema.
type Schema struct {
	name    string
	tables  []*model.Table
	catalog *catalog.Catalog
}

// NewSchema builds a schema from table descriptors. Unnamed indexes are
// assigned their canonical names, and every index is registered in the
// schema catalog. Duplicate index names are an error, including across
// tables.
func NewSchema(name string, tables ...*model.Table) (*Schema, error) {
	s := &Schema{name: name, tables: tables, catalog: catalog.New()}
	session, control := s.catalog.Edit()
	defer control.Abort()
	for _, table := range tables {
		if err := table.EnsureNames(); err != nil {
			return nil, err
		}
		for _, def := range table.Indexes() {
			err := session.Define(catalog.Entry{
				Name:       def.Name(),
				Table:      table.StorageName(),
				Definition: def.Deconstruct(),
			})
			if err != nil {
				return nil, err
			}
		}
	}
	control.Commit()
	return s, nil
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Tables returns the schema's tables in declaration order.
func (s *Schema) Tables() []*model.Table {
	return slices.Clone(s.tables)
}

// Catalog returns a read-only snapshot of the index catalog.
func (s *Schema) Catalog() catalog.Snapshot {
	return s.catalog.Snapshot()
}

// CreateSQL renders the CREATE INDEX statements for all indexes of the
// schema, in table declaration order. Indexes the backend cannot express are
// returned as skipped statements rather than dropped silently.
func (s *Schema) CreateSQL(ctx context.Context, backend dialect.Backend, options ...indexes.CreateOption) ([]indexes.Statement, error) {
	var statements []indexes.Statement
	for _, table := range s.tables {
		for _, def := range table.Indexes() {
			statement, err := def.CreateSQL(ctx, table, backend, options...)
			if err != nil {
				return nil, fmt.Errorf("index %s on table %s: %w", def.Name(), table.StorageName(), err)
			}
			statements = append(statements, statement)
		}
	}
	return statements, nil
}

// DropSQL renders the DROP INDEX statements for all indexes of the schema,
// in reverse creation order. An index whose creation the backend would have
// skipped is skipped here too, so that create and drop scripts stay
// symmetric.
func (s *Schema) DropSQL(backend dialect.Backend) ([]indexes.Statement, error) {
	var statements []indexes.Statement
	for i := len(s.tables) - 1; i >= 0; i-- {
		table := s.tables[i]
		defs := table.Indexes()
		for j := len(defs) - 1; j >= 0; j-- {
			def := defs[j]
			statement := indexes.Statement{Table: table.StorageName(), Index: def.Name()}
			if !backend.Features().ExpressionIndexes && def.ContainsExpressions() {
				statement.Skipped = &indexes.Skip{Reason: fmt.Sprintf("%s does not support expression indexes", backend.Name())}
			} else {
				sql, err := def.DropSQL(table, backend)
				if err != nil {
					return nil, fmt.Errorf("index %s on table %s: %w", def.Name(), table.StorageName(), err)
				}
				statement.SQL = sql
			}
			statements = append(statements, statement)
		}
	}
	return statements, nil
}

// Manifest captures the serialized definitions of all indexes of the schema
// for history tracking.
func (s *Schema) Manifest(now time.Time) history.Manifest {
	var records []history.Record
	transform.Collect(transform.Map(s.Catalog().All(), func(e catalog.Entry) history.Record {
		return history.Record{
			Table:      e.Table,
			Index:      e.Name,
			Definition: must.OK1(json.Marshal(e.Definition)),
		}
	}), &records)
	return history.NewManifest(now, records)
}
