package indexes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stratadb/strata/sqlexpr"
	"golang.org/x/exp/slices"
)

// Index is a declarative description of a database index.
//
// An Index is immutable after construction except for its name, which may be
// assigned lazily once the owning table is known (see AssignName).
type Index struct {
	fields      []string // logical field names, "-" prefix marks descending order
	fieldNames  []string // fields with order markers stripped
	expressions []sqlexpr.Expr
	name        string
	tablespace  string
	opclasses   []string
	condition   sqlexpr.Predicate
	include     []string
}

// Table describes the owning table of an index: its storage name and the
// mapping from logical field names to storage column names.
type Table interface {
	StorageName() string
	ResolveColumn(field string) (string, error)
}

// Tablespacer is implemented by table descriptors that carry a default
// tablespace for their indexes.
type Tablespacer interface {
	DefaultTablespace() string
}

// Option configures an index definition.
type Option func(ix *Index)

// Fields sets the ordered key fields. A "-" prefix marks descending order.
func Fields(fields ...string) Option {
	return func(ix *Index) { ix.fields = fields }
}

// Expressions sets the ordered key expressions. Mutually exclusive with
// Fields; an expression index must be explicitly named.
func Expressions(exprs ...sqlexpr.Expr) Option {
	return func(ix *Index) { ix.expressions = exprs }
}

// Name sets an explicit index name.
func Name(name string) Option {
	return func(ix *Index) { ix.name = name }
}

// Tablespace sets the storage location for backends that support index
// tablespaces.
func Tablespace(tablespace string) Option {
	return func(ix *Index) { ix.tablespace = tablespace }
}

// OpClasses sets per-key operator classes. When used, one entry is required
// per key; an empty string selects the backend default for that position.
func OpClasses(opclasses ...string) Option {
	return func(ix *Index) { ix.opclasses = opclasses }
}

// Condition restricts the index to rows matching the predicate, making it a
// partial index.
func Condition(condition sqlexpr.Predicate) Option {
	return func(ix *Index) { ix.condition = condition }
}

// Include adds covering columns: stored in the index, not part of the key.
func Include(fields ...string) Option {
	return func(ix *Index) { ix.include = fields }
}

// New validates the options and returns the index definition.
func New(options ...Option) (*Index, error) {
	ix := &Index{}
	for _, opt := range options {
		opt(ix)
	}
	if err := ix.validate(); err != nil {
		return nil, err
	}
	ix.fieldNames = make([]string, len(ix.fields))
	for i, field := range ix.fields {
		ix.fieldNames[i] = strings.TrimPrefix(field, "-")
	}
	return ix, nil
}

func (ix *Index) validate() error {
	switch {
	case len(ix.opclasses) > 0 && ix.name == "":
		return ConfigError("an index must be named to use opclasses")
	case ix.condition != nil && ix.name == "":
		return ConfigError("an index must be named to use condition")
	case len(ix.fields) == 0 && len(ix.expressions) == 0:
		return ConfigError("at least one field or expression is required to define an index")
	}
	for _, field := range ix.fields {
		if strings.TrimPrefix(field, "-") == "" {
			return ConfigError("fields must only contain non-empty column names")
		}
	}
	switch {
	case len(ix.fields) > 0 && len(ix.expressions) > 0:
		return ConfigError("fields cannot be used together with expressions")
	case len(ix.expressions) > 0 && ix.name == "":
		return ConfigError("an index must be named to use expressions")
	}
	if len(ix.opclasses) > 0 {
		keys, kind := len(ix.fields), "fields"
		if len(ix.expressions) > 0 {
			keys, kind = len(ix.expressions), "expressions"
		}
		if len(ix.opclasses) != keys {
			return ConfigError(fmt.Sprintf("%s and opclasses must have the same number of elements", kind))
		}
	}
	if len(ix.include) > 0 && ix.name == "" {
		return ConfigError("a covering index must be named")
	}
	for _, field := range ix.include {
		if field == "" {
			return ConfigError("include must only contain non-empty column names")
		}
	}
	return validateName(ix.name)
}

// validateName checks an explicit name against the portability rules that
// synthesized names satisfy by construction.
func validateName(name string) error {
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ConfigError(fmt.Sprintf("index name %q cannot be longer than %d characters", name, MaxNameLength))
	}
	first, _ := utf8.DecodeRuneInString(name)
	if first == '_' || unicode.IsDigit(first) {
		return ConfigError(fmt.Sprintf("index name %q cannot start with an underscore or a digit", name))
	}
	return nil
}

// Name returns the index name, empty until one is set or assigned.
func (ix *Index) Name() string {
	return ix.name
}

// Fields returns the key fields, order markers included.
func (ix *Index) Fields() []string {
	return slices.Clone(ix.fields)
}

// FieldNames returns the key fields with order markers stripped.
func (ix *Index) FieldNames() []string {
	return slices.Clone(ix.fieldNames)
}

// Expressions returns the key expressions.
func (ix *Index) Expressions() []sqlexpr.Expr {
	return slices.Clone(ix.expressions)
}

// Include returns the covering columns.
func (ix *Index) Include() []string {
	return slices.Clone(ix.include)
}

// Tablespace returns the index tablespace, empty when the table default
// applies.
func (ix *Index) Tablespace() string {
	return ix.tablespace
}

// Condition returns the partial-index predicate, nil for a full index.
func (ix *Index) Condition() sqlexpr.Predicate {
	return ix.condition
}

// ContainsExpressions reports whether the index key includes a computed
// expression. Keys consisting of constants only do not count: they need no
// expression support from the backend.
func (ix *Index) ContainsExpressions() bool {
	for _, e := range ix.expressions {
		if !sqlexpr.IsLiteral(e) {
			return true
		}
	}
	return false
}

func (ix *Index) String() string {
	var parts []string
	if ix.name != "" {
		parts = append(parts, "name="+ix.name)
	}
	if len(ix.fields) > 0 {
		parts = append(parts, fmt.Sprintf("fields=%v", ix.fields))
	}
	if len(ix.expressions) > 0 {
		parts = append(parts, fmt.Sprintf("expressions=%v", ix.expressions))
	}
	if ix.condition != nil {
		parts = append(parts, "partial")
	}
	if len(ix.include) > 0 {
		parts = append(parts, fmt.Sprintf("include=%v", ix.include))
	}
	return "<Index: " + strings.Join(parts, " ") + ">"
}
