package indexes

import (
	"encoding/json"
	"testing"

	"github.com/ridge/must/v2"
	"github.com/ridge/tj"
	"github.com/stratadb/strata/sqlexpr"
	"github.com/stretchr/testify/require"
)

func TestDeconstruct(t *testing.T) {
	ix, err := New(
		Name("active_user_email_idx"),
		Fields("email", "-joined_at"),
		OpClasses("varchar_pattern_ops", ""),
		Condition(sqlexpr.Eq("status", "active")),
		Include("name"),
		Tablespace("fast_ssd"),
	)
	require.NoError(t, err)

	var decoded any
	must.OK(json.Unmarshal(must.OK1(json.Marshal(ix.Deconstruct())), &decoded))
	require.Equal(t, tj.O{
		"path": "strata.Index",
		"kwargs": tj.O{
			"name":          "active_user_email_idx",
			"fields":        tj.A{"email", "-joined_at"},
			"db_tablespace": "fast_ssd",
			"opclasses":     tj.A{"varchar_pattern_ops", ""},
			"condition":     tj.O{"op": "eq", "field": "status", "value": "active"},
			"include":       tj.A{"name"},
		},
	}, decoded)
}

func TestDeconstructOmitsDefaults(t *testing.T) {
	ix, err := New(Fields("email"))
	require.NoError(t, err)

	var decoded any
	must.OK(json.Unmarshal(must.OK1(json.Marshal(ix.Deconstruct())), &decoded))
	require.Equal(t, tj.O{
		"path": "strata.Index",
		"kwargs": tj.O{
			"name":   "",
			"fields": tj.A{"email"},
		},
	}, decoded)
}

func TestSerializedRoundTrip(t *testing.T) {
	ix, err := New(
		Name("active_user_email_idx"),
		Fields("email"),
		Condition(sqlexpr.And(sqlexpr.Eq("status", "active"), sqlexpr.Ne("email", nil))),
		Include("name", "status"),
	)
	require.NoError(t, err)

	data := must.OK1(json.Marshal(ix.Deconstruct()))
	var d Deconstructed
	must.OK(json.Unmarshal(data, &d))
	back, err := FromDeconstructed(d)
	require.NoError(t, err)
	require.True(t, ix.Equal(back))
}

func TestSerializedRoundTripExpressions(t *testing.T) {
	ix, err := New(
		Name("lower_email_idx"),
		Expressions(
			sqlexpr.Desc(sqlexpr.Call("LOWER", sqlexpr.Col("email"))),
			sqlexpr.Collated(sqlexpr.Col("name"), "de_DE"),
		),
	)
	require.NoError(t, err)

	data := must.OK1(json.Marshal(ix.Deconstruct()))
	var d Deconstructed
	must.OK(json.Unmarshal(data, &d))
	back, err := FromDeconstructed(d)
	require.NoError(t, err)
	require.True(t, ix.Equal(back))
}

func TestSerializedRoundTripNumbers(t *testing.T) {
	// numeric condition values decode as float64; the JSON form is stable
	// even though the in-memory value type changes
	ix, err := New(Name("adult_idx"), Fields("email"), Condition(sqlexpr.Ge("age", 21)))
	require.NoError(t, err)

	data := must.OK1(json.Marshal(ix.Deconstruct()))
	var d Deconstructed
	must.OK(json.Unmarshal(data, &d))
	back, err := FromDeconstructed(d)
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(must.OK1(json.Marshal(back.Deconstruct()))))
}

func TestFromDeconstructedValidates(t *testing.T) {
	_, err := FromDeconstructed(Deconstructed{Path: "other.Definition"})
	require.EqualError(t, err, `unsupported index definition path "other.Definition"`)

	_, err = FromDeconstructed(Deconstructed{Path: Path})
	require.EqualError(t, err, "at least one field or expression is required to define an index")

	_, err = FromDeconstructed(Deconstructed{
		Path:   Path,
		Exprs:  sqlexpr.List{sqlexpr.Col("email")},
		Kwargs: Kwargs{},
	})
	require.EqualError(t, err, "an index must be named to use expressions")
}

func TestClone(t *testing.T) {
	ix, err := New(
		Name("active_user_email_idx"),
		Fields("email"),
		Condition(sqlexpr.Eq("status", "active")),
	)
	require.NoError(t, err)

	clone := ix.Clone()
	require.NotSame(t, ix, clone)
	require.True(t, ix.Equal(clone))

	// assigning a name to the clone does not affect the original
	unnamed, err := New(Fields("email"))
	require.NoError(t, err)
	clone = unnamed.Clone()
	require.NoError(t, clone.AssignName(userTable))
	require.Empty(t, unnamed.Name())
	require.NotEmpty(t, clone.Name())
}

func TestEqual(t *testing.T) {
	a, err := New(Name("x_idx"), Fields("email"))
	require.NoError(t, err)
	b, err := New(Name("x_idx"), Fields("email"))
	require.NoError(t, err)
	c, err := New(Name("x_idx"), Fields("-email"))
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestKwargsNullCondition(t *testing.T) {
	var k Kwargs
	must.OK(json.Unmarshal([]byte(`{"name":"x_idx","condition":null}`), &k))
	require.Nil(t, k.Condition)
	require.Equal(t, "x_idx", k.Name)
}
