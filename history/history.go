// Package history persists the serialized index definitions of a schema as a
// manifest file, and compares manifests across schema revisions. The manifest
// is the durable record of what a schema looked like when its DDL was last
// generated; comparing it against the current schema reveals index drift.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ridge/must/v2"
)

// Version is the current manifest format version. Read rejects manifests
// written by an incompatible release.
const Version = 1

// Record is the manifest entry of one index.
type Record struct {
	Table      string          `json:"table"`
	Index      string          `json:"index"`
	Definition json.RawMessage `json:"definition"`
}

// Manifest is the saved state of all indexes of a schema.
type Manifest struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	Records     []Record  `json:"records"`
}

// NewManifest builds a manifest from index records. Records are sorted by
// table, then index name, so that the serialized form is deterministic.
func NewManifest(now time.Time, records []Record) Manifest {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sortRecords(sorted)
	return Manifest{
		Version:     Version,
		GeneratedAt: now.UTC(),
		Records:     sorted,
	}
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Table != records[j].Table {
			return records[i].Table < records[j].Table
		}
		return records[i].Index < records[j].Index
	})
}

// Write saves the manifest to a file, overwriting it if it exists.
func Write(path string, m Manifest) error {
	data := append(must.OK1(json.MarshalIndent(m, "", "  ")), '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest from a file. Returns ErrMismatch if the manifest was
// written by an incompatible release.
func Read(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.Version != Version {
		return Manifest{}, ErrVersionMismatch(Version, m.Version)
	}
	return m, nil
}

// ErrMismatch is an error type for fatal manifest problems:
// * manifest version mismatch
// * schema drift
type ErrMismatch string

func (err ErrMismatch) Error() string {
	return string(err)
}

// ExitCode fulfils run.WithExitCode.
//
// ErrMismatch is expected during schema maintenance such as reviewing index
// changes before a release. To distinguish it from other errors, it causes
// the process to exit with code 100.
func (ErrMismatch) ExitCode() int {
	return 100
}

// ErrVersionMismatch returns an ErrMismatch error for the situation when the
// manifest version doesn't match the expectation
func ErrVersionMismatch(expected, actual int) ErrMismatch {
	return ErrMismatch(fmt.Sprintf("version mismatch: expected %d, actual %d", expected, actual))
}
