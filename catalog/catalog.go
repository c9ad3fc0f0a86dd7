// Package catalog tracks the set of defined indexes while a schema is
// assembled: which names are taken, which table owns each index, and the
// serialized definition behind it. Index names share one namespace across
// the whole schema, so registration catches cross-table collisions that
// per-table checks cannot.
package catalog

import (
	"fmt"

	"github.com/hashicorp/go-memdb"
	"github.com/ridge/must/v2"
	"github.com/stratadb/strata/indexes"
	"github.com/stratadb/strata/transform"
)

// Entry is one defined index.
type Entry struct {
	Name       string // index name, unique schema-wide
	Table      string // owning table storage name
	Definition indexes.Deconstructed
}

const tableIndexes = "indexes"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableIndexes: {
			Name: tableIndexes,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
				"table": {
					Name:    "table",
					Indexer: &memdb.StringFieldIndex{Field: "Table"},
				},
			},
		},
	},
}

// Catalog is a transactional registry of defined indexes.
type Catalog struct {
	db *memdb.MemDB
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{db: must.OK1(memdb.NewMemDB(schema))}
}

// Snapshot returns a read-only view of the catalog's current state. The view
// is unaffected by later edits.
func (c *Catalog) Snapshot() Snapshot {
	return Snapshot{txn: c.db.Txn(false)}
}

// Edit returns a writable session over the catalog, along with the control
// interface that commits or aborts it. Changes become visible to new
// snapshots on Commit.
func (c *Catalog) Edit() (Session, Control) {
	txn := c.db.Txn(true)
	return Session{Snapshot{txn: txn}}, Control{txn: txn}
}

// Control manages the lifetime of an edit session.
type Control struct {
	txn *memdb.Txn
}

// Commit publishes the session's changes. The session must not be used
// afterwards.
func (c Control) Commit() {
	c.txn.Commit()
}

// Abort discards the session's changes. Safe to call on a session that has
// already been committed or aborted.
func (c Control) Abort() {
	c.txn.Abort()
}

// Snapshot is a read-only view of the catalog.
type Snapshot struct {
	txn *memdb.Txn
}

// Get returns the entry for an index name.
func (s Snapshot) Get(name string) (Entry, bool) {
	obj := must.OK1(s.txn.First(tableIndexes, "id", name))
	if obj == nil {
		return Entry{}, false
	}
	return obj.(Entry), true
}

// ByTable iterates over the entries of one table, ordered by index name.
func (s Snapshot) ByTable(table string) transform.Iterator {
	return iterator(must.OK1(s.txn.Get(tableIndexes, "table", table)))
}

// All iterates over all entries, ordered by index name.
func (s Snapshot) All() transform.Iterator {
	return iterator(must.OK1(s.txn.Get(tableIndexes, "id")))
}

func iterator(res memdb.ResultIterator) transform.Iterator {
	return func(ptr any) bool {
		obj := res.Next()
		if obj == nil {
			return false
		}
		if ptr != nil {
			*ptr.(*Entry) = obj.(Entry)
		}
		return true
	}
}

// Session is a writable view of the catalog.
type Session struct {
	Snapshot
}

// Define adds an entry. The index name must not be taken, by any table.
func (s Session) Define(entry Entry) error {
	if existing, ok := s.Get(entry.Name); ok {
		return fmt.Errorf("duplicate index name %q: already defined on table %s", entry.Name, existing.Table)
	}
	must.OK(s.txn.Insert(tableIndexes, entry))
	return nil
}

// Remove deletes the entry with the given index name.
func (s Session) Remove(name string) error {
	entry, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("index %q is not defined", name)
	}
	must.OK(s.txn.Delete(tableIndexes, entry))
	return nil
}
