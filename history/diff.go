package history

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Op classifies the difference between two manifest records
type Op string

// Representing op of the diff result
const (
	Added     Op = "added"
	Changed   Op = "changed"
	Removed   Op = "removed"
	Unchanged Op = "unchanged"
)

// Change is the comparison result for one index. Old is set unless the index
// was added, New is set unless it was removed.
type Change struct {
	Op    Op
	Table string
	Index string
	Old   json.RawMessage
	New   json.RawMessage
}

// Diff compares two manifests and reports the state of every index mentioned
// by either, ordered by table, then index name. Records are matched by the
// (table, index) pair: an index that moved between tables is reported as
// removed from one and added to the other.
func Diff(before, after Manifest) []Change {
	recordsOld := make([]Record, len(before.Records))
	copy(recordsOld, before.Records)
	sortRecords(recordsOld)
	recordsNew := make([]Record, len(after.Records))
	copy(recordsNew, after.Records)
	sortRecords(recordsNew)

	var changes []Change
	i, j := 0, 0
	for i < len(recordsOld) || j < len(recordsNew) {
		switch {
		case j == len(recordsNew) || i < len(recordsOld) && recordLess(recordsOld[i], recordsNew[j]):
			changes = append(changes, Change{Op: Removed, Table: recordsOld[i].Table, Index: recordsOld[i].Index, Old: recordsOld[i].Definition})
			i++
		case i == len(recordsOld) || recordLess(recordsNew[j], recordsOld[i]):
			changes = append(changes, Change{Op: Added, Table: recordsNew[j].Table, Index: recordsNew[j].Index, New: recordsNew[j].Definition})
			j++
		default:
			op := Unchanged
			if !equalDefinitions(recordsOld[i].Definition, recordsNew[j].Definition) {
				op = Changed
			}
			changes = append(changes, Change{Op: op, Table: recordsNew[j].Table, Index: recordsNew[j].Index, Old: recordsOld[i].Definition, New: recordsNew[j].Definition})
			i++
			j++
		}
	}
	return changes
}

func recordLess(a, b Record) bool {
	if a.Table != b.Table {
		return a.Table < b.Table
	}
	return a.Index < b.Index
}

// equalDefinitions compares two serialized definitions structurally, so that
// formatting and key order don't matter.
func equalDefinitions(a, b json.RawMessage) bool {
	var va, vb any
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}

// Drift converts a comparison result into an error. Returns nil when every
// index is unchanged, and an ErrMismatch summarizing the differences
// otherwise.
func Drift(changes []Change) error {
	var added, changed, removed int
	for _, c := range changes {
		switch c.Op {
		case Added:
			added++
		case Changed:
			changed++
		case Removed:
			removed++
		}
	}
	if added == 0 && changed == 0 && removed == 0 {
		return nil
	}
	return ErrMismatch(fmt.Sprintf("schema drift: %d added, %d changed, %d removed", added, changed, removed))
}
