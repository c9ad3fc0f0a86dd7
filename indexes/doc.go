// Package indexes contains declarative definitions of database indexes.
//
// An Index value describes one index: its key fields or expressions, the
// optional partial-index condition, covering columns, operator classes and
// tablespace. Definitions are validated on construction and are independent
// of any particular database; rendering them to DDL is delegated to a
// dialect backend.
//
// An index that is not explicitly named receives a canonical name derived
// from its table and key columns the first time a concrete identifier is
// needed. The synthesized name is deterministic, so repeated runs over the
// same schema produce identical DDL.
//
// Definitions round-trip through a serialized form (Deconstruct,
// FromDeconstructed) used to persist them in history manifests and to
// compare schema revisions.
package indexes
