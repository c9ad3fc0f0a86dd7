package indexes

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ridge/must/v2"
	"github.com/stratadb/strata/sqlexpr"
	"golang.org/x/exp/slices"
)

// Path identifies the definition type in serialized form.
const Path = "strata.Index"

// Deconstructed is the serialized form of an index definition: the path of
// the definition type, the key expressions, and the keyword arguments needed
// to reconstruct the definition. It marshals to the JSON stored in history
// manifests.
type Deconstructed struct {
	Path   string       `json:"path"`
	Exprs  sqlexpr.List `json:"expressions,omitempty"`
	Kwargs Kwargs       `json:"kwargs"`
}

// Kwargs holds the keyword arguments of a deconstructed index. Zero-valued
// arguments are omitted from the serialized form; Name is always present.
type Kwargs struct {
	Name       string            `json:"name"`
	Fields     []string          `json:"fields,omitempty"`
	Tablespace string            `json:"db_tablespace,omitempty"`
	OpClasses  []string          `json:"opclasses,omitempty"`
	Condition  sqlexpr.Predicate `json:"condition,omitempty"`
	Include    []string          `json:"include,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. The condition needs tagged
// decoding into its concrete predicate type.
func (k *Kwargs) UnmarshalJSON(data []byte) error {
	var dto struct {
		Name       string          `json:"name"`
		Fields     []string        `json:"fields"`
		Tablespace string          `json:"db_tablespace"`
		OpClasses  []string        `json:"opclasses"`
		Condition  json.RawMessage `json:"condition"`
		Include    []string        `json:"include"`
	}
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	*k = Kwargs{
		Name:       dto.Name,
		Fields:     dto.Fields,
		Tablespace: dto.Tablespace,
		OpClasses:  dto.OpClasses,
		Include:    dto.Include,
	}
	if len(dto.Condition) > 0 && string(dto.Condition) != "null" {
		condition, err := sqlexpr.UnmarshalPredicate(dto.Condition)
		if err != nil {
			return err
		}
		k.Condition = condition
	}
	return nil
}

// Deconstruct returns the serialized form of the index.
func (ix *Index) Deconstruct() Deconstructed {
	return Deconstructed{
		Path:  Path,
		Exprs: sqlexpr.List(slices.Clone(ix.expressions)),
		Kwargs: Kwargs{
			Name:       ix.name,
			Fields:     slices.Clone(ix.fields),
			Tablespace: ix.tablespace,
			OpClasses:  slices.Clone(ix.opclasses),
			Condition:  ix.condition,
			Include:    slices.Clone(ix.include),
		},
	}
}

// FromDeconstructed reconstructs an index from its serialized form, running
// the full construction-time validation.
func FromDeconstructed(d Deconstructed) (*Index, error) {
	if d.Path != Path {
		return nil, ConfigError(fmt.Sprintf("unsupported index definition path %q", d.Path))
	}
	var options []Option
	if d.Kwargs.Name != "" {
		options = append(options, Name(d.Kwargs.Name))
	}
	if len(d.Kwargs.Fields) > 0 {
		options = append(options, Fields(d.Kwargs.Fields...))
	}
	if len(d.Exprs) > 0 {
		options = append(options, Expressions(d.Exprs...))
	}
	if d.Kwargs.Tablespace != "" {
		options = append(options, Tablespace(d.Kwargs.Tablespace))
	}
	if len(d.Kwargs.OpClasses) > 0 {
		options = append(options, OpClasses(d.Kwargs.OpClasses...))
	}
	if d.Kwargs.Condition != nil {
		options = append(options, Condition(d.Kwargs.Condition))
	}
	if len(d.Kwargs.Include) > 0 {
		options = append(options, Include(d.Kwargs.Include...))
	}
	return New(options...)
}

// Clone returns an independent copy of the index, round-tripped through the
// serialized form.
func (ix *Index) Clone() *Index {
	return must.OK1(FromDeconstructed(ix.Deconstruct()))
}

// Equal reports whether two definitions serialize identically.
func (ix *Index) Equal(other *Index) bool {
	return reflect.DeepEqual(ix.Deconstruct(), other.Deconstruct())
}
