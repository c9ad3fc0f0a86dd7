// Package model describes tables for index definition: storage names, the
// mapping from logical fields to storage columns, and the indexes attached
// to each table.
//
// Tables are declared in one of two ways. TableOf surveys a Go struct type
// whose strata tags name the table and its columns; declaration mistakes are
// programming errors and panic. NewTable builds a table from data, for
// declarations loaded from schema files, and reports mistakes as errors.
package model

import (
	"fmt"
	"reflect"

	"github.com/stratadb/strata/indexes"
	"golang.org/x/exp/slices"
)

func panicf(format string, a ...any) {
	panic(fmt.Sprintf(format, a...))
}

// Meta is a type for dummy fields bearing table-level tags for the
// containing structure:
//
//	type User struct {
//	    strata.Meta `strata:"table=app_user,tablespace=fast_ssd"`
//	    ...
//	}
type Meta struct{}

var metaType = reflect.TypeOf(Meta{})

// Column maps a logical field to its storage column.
type Column struct {
	GoName string // logical name, as referenced by index definitions
	Name   string // storage column name
}

// String returns the logical and storage column names
func (c Column) String() string {
	if c.Name != "" && c.Name != c.GoName {
		return fmt.Sprintf("%s (%s)", c.GoName, c.Name)
	}
	return c.GoName
}

// Table describes a table and owns its index definitions.
type Table struct {
	name       string
	tablespace string
	columns    []Column
	byField    map[string]string
	indexes    []*indexes.Index
}

// TableOf builds a table descriptor from an example of a struct type. The
// table name and optional default tablespace are tagged on an embedded Meta
// field; column storage names default to the field name and can be
// overridden with a name tag:
//
//	type User struct {
//	    strata.Meta `strata:"table=app_user"`
//	    Email    string    `strata:"name=email"`
//	    Joined   time.Time `strata:"name=joined_at"`
//	    internal []byte    `strata:"-"`
//	}
//
// Invalid declarations panic: the descriptor is part of the program, not
// input. Index definitions passed here must reference declared fields.
func TableOf(example any, defs ...*indexes.Index) *Table {
	t := reflect.TypeOf(example)
	if t == nil || t.Kind() != reflect.Struct {
		panicf("%v expected to be a struct type", t)
	}
	table := &Table{byField: map[string]string{}}
	table.surveyFields(t)
	if table.name == "" {
		panicf("missing table name setting in struct %v", t)
	}
	for _, def := range defs {
		if err := table.resolvable(def); err != nil {
			panic(err.Error())
		}
		table.indexes = append(table.indexes, def)
	}
	return table
}

func (table *Table) setName(name string) {
	if name == "" || table.name == name {
		return
	}
	if table.name != "" {
		panicf("conflicting table name settings: %s vs. %s", table.name, name)
	}
	table.name = name
}

func (table *Table) setTablespace(tablespace string) {
	if tablespace == "" || table.tablespace == tablespace {
		return
	}
	if table.tablespace != "" {
		panicf("conflicting tablespace settings for table %s: %s vs. %s", table.name, table.tablespace, tablespace)
	}
	table.tablespace = tablespace
}

func (table *Table) surveyFields(t reflect.Type) {
loop:
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		options := parseTag(f.Tag)
		switch {
		case f.Type == metaType:
			for _, opt := range options {
				switch opt.key {
				case "table=":
					table.setName(opt.value)
				case "tablespace=":
					table.setTablespace(opt.value)
				default:
					panicf("invalid table-level option for %v: %s", t, opt)
				}
			}
		case f.Anonymous:
			for _, opt := range options {
				switch opt.key {
				case "-":
					if len(options) != 1 {
						panicf("option - for field %v.%s cannot be combined with other options", t, f.Name)
					}
					continue loop
				default:
					panicf("invalid option for embedded field %v.%s: %s", t, f.Name, opt)
				}
			}
			if f.Type.Kind() != reflect.Struct {
				panicf("embedded field %v.%s expected to be a struct", t, f.Name)
			}
			table.surveyFields(f.Type)
		default:
			column := Column{GoName: f.Name}
			for _, opt := range options {
				switch opt.key {
				case "-":
					if len(options) != 1 {
						panicf("option - for field %v.%s cannot be combined with other options", t, f.Name)
					}
					continue loop
				case "name=":
					column.Name = opt.value
				default:
					panicf("invalid option for field %v.%s: %s", t, f.Name, opt)
				}
			}
			if !f.IsExported() {
				panicf("unexported field %v.%s must be skipped using a strata:\"-\" tag", t, f.Name)
			}
			if column.Name == "" {
				column.Name = column.GoName
			}
			table.addColumn(column)
		}
	}
}

func (table *Table) addColumn(column Column) {
	if _, ok := table.byField[column.GoName]; ok {
		panicf("duplicate field %s", column.GoName)
	}
	for _, existing := range table.columns {
		if existing.Name == column.Name {
			panicf("duplicate column name %s for fields %s and %s", column.Name, existing.GoName, column.GoName)
		}
	}
	table.columns = append(table.columns, column)
	table.byField[column.GoName] = column.Name
}

// NewTable builds a table descriptor from data. A column's logical name
// defaults to its storage name and vice versa, so either may be omitted.
func NewTable(name string, columns []Column, defs ...*indexes.Index) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	table := &Table{name: name, byField: map[string]string{}}
	for _, column := range columns {
		if column.Name == "" && column.GoName == "" {
			return nil, fmt.Errorf("table %s: column with no name", name)
		}
		if column.GoName == "" {
			column.GoName = column.Name
		}
		if column.Name == "" {
			column.Name = column.GoName
		}
		if _, ok := table.byField[column.GoName]; ok {
			return nil, fmt.Errorf("table %s: duplicate field %s", name, column.GoName)
		}
		for _, existing := range table.columns {
			if existing.Name == column.Name {
				return nil, fmt.Errorf("table %s: duplicate column name %s", name, column.Name)
			}
		}
		table.columns = append(table.columns, column)
		table.byField[column.GoName] = column.Name
	}
	for _, def := range defs {
		if err := table.resolvable(def); err != nil {
			return nil, err
		}
		table.indexes = append(table.indexes, def)
	}
	return table, nil
}

// WithTablespace sets the default tablespace for the table's indexes and
// returns the table.
func (table *Table) WithTablespace(tablespace string) *Table {
	table.tablespace = tablespace
	return table
}

// resolvable checks that every field the index references by name exists.
// Fields referenced from expressions are resolved at rendering time.
func (table *Table) resolvable(def *indexes.Index) error {
	for _, fieldName := range def.FieldNames() {
		if _, err := table.ResolveColumn(fieldName); err != nil {
			return fmt.Errorf("index on table %s: %w", table.name, err)
		}
	}
	for _, fieldName := range def.Include() {
		if _, err := table.ResolveColumn(fieldName); err != nil {
			return fmt.Errorf("index on table %s: %w", table.name, err)
		}
	}
	return nil
}

// StorageName implements indexes.Table
func (table *Table) StorageName() string {
	return table.name
}

// DefaultTablespace implements indexes.Tablespacer
func (table *Table) DefaultTablespace() string {
	return table.tablespace
}

// ResolveColumn implements indexes.Table. Storage names are accepted as a
// fallback so that data-driven declarations can reference columns directly.
func (table *Table) ResolveColumn(field string) (string, error) {
	if column, ok := table.byField[field]; ok {
		return column, nil
	}
	for _, column := range table.columns {
		if column.Name == field {
			return column.Name, nil
		}
	}
	return "", fmt.Errorf("unknown column %s in table %s", field, table.name)
}

// Columns returns the table's columns in declaration order.
func (table *Table) Columns() []Column {
	return slices.Clone(table.columns)
}

// Indexes returns the table's index definitions in declaration order.
func (table *Table) Indexes() []*indexes.Index {
	return slices.Clone(table.indexes)
}

// EnsureNames assigns canonical names to the indexes that have none.
func (table *Table) EnsureNames() error {
	for _, def := range table.indexes {
		if err := def.AssignName(table); err != nil {
			return err
		}
	}
	return nil
}
