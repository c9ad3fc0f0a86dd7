package catalog

import (
	"testing"

	"github.com/stratadb/strata/indexes"
	"github.com/stratadb/strata/transform"
	"github.com/stretchr/testify/require"
)

func entry(table, name string, fields ...string) Entry {
	return Entry{
		Name:  name,
		Table: table,
		Definition: indexes.Deconstructed{
			Path:   indexes.Path,
			Kwargs: indexes.Kwargs{Name: name, Fields: fields},
		},
	}
}

func testEnv() *Catalog {
	c := New()
	session, control := c.Edit()
	for _, e := range []Entry{
		entry("app_user", "app_user_email_4a499e_idx", "email"),
		entry("billing_invoice", "billing_total_idx", "total"),
		entry("app_user", "app_user_name_idx", "name"),
	} {
		if err := session.Define(e); err != nil {
			panic(err)
		}
	}
	control.Commit()
	return c
}

func checkSnapshot(t *testing.T, s Snapshot) {
	e, ok := s.Get("app_user_name_idx")
	require.True(t, ok)
	require.Equal(t, entry("app_user", "app_user_name_idx", "name"), e)

	_, ok = s.Get("no_such_idx")
	require.False(t, ok)

	var entries []Entry
	require.Equal(t, 3, transform.Collect(s.All(), &entries))
	require.Equal(t, []Entry{
		entry("app_user", "app_user_email_4a499e_idx", "email"),
		entry("app_user", "app_user_name_idx", "name"),
		entry("billing_invoice", "billing_total_idx", "total"),
	}, entries)

	entries = nil
	require.Equal(t, 2, transform.Collect(s.ByTable("app_user"), &entries))
	require.Equal(t, []Entry{
		entry("app_user", "app_user_email_4a499e_idx", "email"),
		entry("app_user", "app_user_name_idx", "name"),
	}, entries)

	require.True(t, transform.IsEmpty(s.ByTable("no_such_table")))
}

func TestSnapshot(t *testing.T) {
	c := testEnv()
	checkSnapshot(t, c.Snapshot())
}

func TestEdit(t *testing.T) {
	c := testEnv()
	before := c.Snapshot()

	session, control := c.Edit()
	checkSnapshot(t, session.Snapshot)

	require.NoError(t, session.Define(entry("billing_invoice", "billing_status_idx", "status")))
	require.NoError(t, session.Remove("app_user_name_idx"))

	e, ok := session.Get("billing_status_idx")
	require.True(t, ok)
	require.Equal(t, entry("billing_invoice", "billing_status_idx", "status"), e)
	_, ok = session.Get("app_user_name_idx")
	require.False(t, ok)

	checkSnapshot(t, before)
	checkSnapshot(t, c.Snapshot())

	control.Commit()
	control.Abort() // no-op after commit

	checkSnapshot(t, before)
	s := c.Snapshot()
	require.Equal(t, 3, transform.Count(s.All()))
	_, ok = s.Get("billing_status_idx")
	require.True(t, ok)
	_, ok = s.Get("app_user_name_idx")
	require.False(t, ok)
}

func TestEditAborted(t *testing.T) {
	c := testEnv()

	session, control := c.Edit()
	require.NoError(t, session.Define(entry("billing_invoice", "billing_status_idx", "status")))
	control.Abort()

	checkSnapshot(t, c.Snapshot())
}

func TestDefineDuplicate(t *testing.T) {
	c := testEnv()
	session, control := c.Edit()
	defer control.Abort()

	err := session.Define(entry("billing_invoice", "app_user_name_idx", "name"))
	require.EqualError(t, err, `duplicate index name "app_user_name_idx": already defined on table app_user`)
}

func TestRemoveMissing(t *testing.T) {
	c := testEnv()
	session, control := c.Edit()
	defer control.Abort()

	require.EqualError(t, session.Remove("no_such_idx"), `index "no_such_idx" is not defined`)
}
