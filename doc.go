// Package strata is a library for declaring database indexes next to Go
// table definitions and generating deterministic DDL for them.
//
// The name comes from geology: strata are layers of sedimentary rock, and a
// schema's index history accumulates the same way, one generated layer at a
// time.
//
// # Declaring tables
//
// A table is described by a Go structure. Each exported field becomes a
// column; the SQL column name defaults to the Go field name and can be
// overridden with a tag. Because Go does not allow structure-level tags,
// they are attached to an anonymous strata.Meta field. The strata.Meta type
// itself has zero size.
//
//	type User struct {
//	    strata.Meta `strata:"table=app_user"`
//
//	    Email    string `strata:"name=email"`
//	    Status   string `strata:"name=status"`
//	    JoinedAt time.Time `strata:"name=joined_at"`
//	}
//
// The value of a strata tag is a comma-separated list of options:
//
// * table=NAME: sets the table's storage name (structure-level, required).
//
// * tablespace=NAME: sets the table's default tablespace (structure-level,
// optional). Indexes without their own tablespace inherit it on backends
// with tablespace support.
//
// * name=NAME: sets the SQL column name of the field. By default the column
// name is the same as the Go field name.
//
// * - (hyphen): skips the field. Unexported fields must be skipped
// explicitly.
//
// Anonymous embedded structures are surveyed recursively, so shared column
// sets can be declared once and embedded where needed.
//
// Tables can also be built without a structure, from data such as a schema
// file, using NewTable with an explicit column list. Both paths produce the
// same descriptors and the same DDL.
//
// # Defining indexes
//
// An index is declared with NewIndex and attached to a table with TableOf
// (or NewTable):
//
//	table := strata.TableOf(User{},
//	    must.OK1(strata.NewIndex(strata.Fields("Email", "-JoinedAt"))),
//	)
//
// Fields name columns by Go field name; a leading "-" orders that key
// descending. Expression indexes are declared with Expressions and the
// sqlexpr constructors:
//
//	strata.NewIndex(
//	    strata.Name("app_user_email_lower_idx"),
//	    strata.Expressions(strata.Desc(strata.Call("LOWER", strata.Col("Email")))),
//	)
//
// Options combine: Condition makes a partial index, Include adds covering
// columns, OpClasses attaches operator classes, Tablespace pins the index to
// a tablespace. Indexes using expressions, conditions, covering columns or
// opclasses must be named explicitly.
//
// # Index names
//
// An index declared without a name receives a canonical one when it is first
// bound to its table: a digest of the table name and the ordered column
// list, packed with truncated fragments of both into at most 30 characters.
// The same definition always produces the same name, on every machine, so
// generated DDL is reproducible and diffable.
//
// # Generating DDL
//
// CreateSQL renders a CREATE INDEX statement against a dialect backend:
// Postgres(), MySQL(version) or SQLite(). Backends differ in feature
// support; unsupported partial indexes, covering columns, opclasses and
// tablespaces are hard errors. Expression indexes degrade instead: on a
// backend without expression support the statement is returned as skipped,
// with the reason attached, and a warning is logged. Schema generation
// continues without the index.
//
// # Schemas and history
//
// NewSchema bundles tables and registers every index in a catalog, which
// enforces one namespace of index names across the whole schema.
// Schema.CreateSQL and Schema.DropSQL render the full DDL script;
// Schema.Manifest captures every index definition in serialized form. The
// history package writes manifests to disk, reads them back and diffs them,
// classifying each index as added, changed, removed or unchanged, so that
// index drift is caught in review rather than in production.
//
// # Schema files
//
// The schemafile package loads the same declarations from TOML, for setups
// where the schema is data rather than code. See its package documentation
// for the file format.
//
// # Command line
//
// The strata command generates DDL from a schema file:
//
//	strata --schema schema.toml --dialect postgres --out create.sql
//	strata --schema schema.toml --dialect mysql --mysql-version 8.0.11
//	strata --schema schema.toml --drop --out drop.sql
//	strata --schema schema.toml --history indexes.json
//	strata --schema schema.toml --diff indexes.json
//	strata --schema schema.toml --watch --out create.sql
//
// Importing the run package adds the following options to the global set of
// command-line flags:
//
//	--log-format string   Log format (json|text)
//	--log-color string    Colored logs (yes|no|auto)
//	-v, --verbose         Enable verbose (debug level) messages
package strata
