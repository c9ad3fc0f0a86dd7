package model

import (
	"testing"
	"time"

	"github.com/ridge/must/v2"
	"github.com/stratadb/strata/indexes"
	"github.com/stretchr/testify/require"
)

type user struct {
	Meta    `strata:"table=app_user,tablespace=bulk_storage"`
	Email   string    `strata:"name=email"`
	Name    string    `strata:"name=name"`
	Joined  time.Time `strata:"name=joined_at"`
	Status  string
	scratch []byte `strata:"-"`
}

func TestTableOf(t *testing.T) {
	table := TableOf(user{})
	require.Equal(t, "app_user", table.StorageName())
	require.Equal(t, "bulk_storage", table.DefaultTablespace())
	require.Equal(t, []Column{
		{GoName: "Email", Name: "email"},
		{GoName: "Name", Name: "name"},
		{GoName: "Joined", Name: "joined_at"},
		{GoName: "Status", Name: "Status"},
	}, table.Columns())

	column, err := table.ResolveColumn("Joined")
	require.NoError(t, err)
	require.Equal(t, "joined_at", column)

	// storage names resolve as a fallback
	column, err = table.ResolveColumn("joined_at")
	require.NoError(t, err)
	require.Equal(t, "joined_at", column)

	_, err = table.ResolveColumn("Missing")
	require.Error(t, err)
}

func TestTableOfIndexes(t *testing.T) {
	ix := must.OK1(indexes.New(indexes.Fields("Email", "-Joined")))
	table := TableOf(user{}, ix)
	require.Equal(t, []*indexes.Index{ix}, table.Indexes())

	require.NoError(t, table.EnsureNames())
	require.NotEmpty(t, ix.Name())

	// unresolvable index fields are programming errors
	bad := must.OK1(indexes.New(indexes.Fields("Missing")))
	require.Panics(t, func() { TableOf(user{}, bad) })
}

type auditSection struct {
	Extra string `strata:"name=extra"`
}

type composite struct {
	Meta `strata:"table=composite"`
	auditSection
	ID string `strata:"name=id"`
}

func TestTableOfEmbedded(t *testing.T) {
	table := TableOf(composite{})
	require.Equal(t, []Column{
		{GoName: "Extra", Name: "extra"},
		{GoName: "ID", Name: "id"},
	}, table.Columns())
}

func TestTableOfInvalid(t *testing.T) {
	require.Panics(t, func() { TableOf(42) })
	require.Panics(t, func() { TableOf(struct{ A string }{}) }) // no table name
	require.Panics(t, func() {
		type bad struct {
			Meta `strata:"flavor=vanilla"`
		}
		TableOf(bad{})
	})
	require.Panics(t, func() {
		type bad struct {
			Meta `strata:"table=bad"`
			A    string `strata:"sortable"`
		}
		TableOf(bad{})
	})
	require.Panics(t, func() {
		type bad struct {
			Meta `strata:"table=bad"`
			a    string
		}
		TableOf(bad{})
	})
	require.Panics(t, func() {
		type bad struct {
			Meta `strata:"table=bad"`
			A    string `strata:"name=dup"`
			B    string `strata:"name=dup"`
		}
		TableOf(bad{})
	})
	require.Panics(t, func() {
		type conflicting struct {
			Meta `strata:"table=another"`
		}
		type bad struct {
			Meta `strata:"table=one"`
			conflicting
		}
		TableOf(bad{})
	})
}

func TestNewTable(t *testing.T) {
	ix := must.OK1(indexes.New(indexes.Fields("email")))
	table, err := NewTable("app_user", []Column{
		{Name: "email"},
		{GoName: "Joined", Name: "joined_at"},
	}, ix)
	require.NoError(t, err)
	require.Equal(t, "app_user", table.StorageName())

	column, err := table.ResolveColumn("email")
	require.NoError(t, err)
	require.Equal(t, "email", column)
	column, err = table.ResolveColumn("Joined")
	require.NoError(t, err)
	require.Equal(t, "joined_at", column)

	require.Empty(t, table.DefaultTablespace())
	table.WithTablespace("fast_ssd")
	require.Equal(t, "fast_ssd", table.DefaultTablespace())
}

func TestNewTableErrors(t *testing.T) {
	_, err := NewTable("", nil)
	require.EqualError(t, err, "table name is required")

	_, err = NewTable("t", []Column{{}})
	require.EqualError(t, err, "table t: column with no name")

	_, err = NewTable("t", []Column{{Name: "a"}, {Name: "a"}})
	require.EqualError(t, err, "table t: duplicate field a")

	_, err = NewTable("t", []Column{{GoName: "A", Name: "x"}, {GoName: "B", Name: "x"}})
	require.EqualError(t, err, "table t: duplicate column name x")

	bad := must.OK1(indexes.New(indexes.Fields("missing")))
	_, err = NewTable("t", []Column{{Name: "a"}}, bad)
	require.Error(t, err)
}

func TestColumnString(t *testing.T) {
	require.Equal(t, "Email (email)", Column{GoName: "Email", Name: "email"}.String())
	require.Equal(t, "email", Column{GoName: "email", Name: "email"}.String())
}
