package transform

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	iter := FromSlice([]int{1, 2, 3})
	var v int
	require.True(t, iter(&v))
	require.Equal(t, 1, v)
	require.True(t, iter(nil))
	require.True(t, iter(&v))
	require.Equal(t, 3, v)
	require.False(t, iter(&v))
	require.Equal(t, 3, v)
	require.False(t, iter(&v))

	iter = FromSlice([]int{})
	require.False(t, iter(&v))
	require.Equal(t, 3, v)
}

func TestIsEmpty(t *testing.T) {
	require.True(t, IsEmpty(FromSlice([]int{})))
	require.False(t, IsEmpty(FromSlice([]int{1, 2, 3})))
}

func TestCount(t *testing.T) {
	require.Equal(t, 0, Count(FromSlice([]int{})))
	require.Equal(t, 3, Count(FromSlice([]int{1, 2, 3})))
}

func TestCollect(t *testing.T) {
	var s []int
	require.Equal(t, 3, Collect(FromSlice([]int{1, 2, 3}), &s))
	require.Equal(t, []int{1, 2, 3}, s)
	require.Equal(t, 2, Collect(FromSlice([]int{4, 5}), &s))
	require.Equal(t, []int{1, 2, 3, 4, 5}, s)
}

func TestMap(t *testing.T) {
	iter := Map(FromSlice([]int{1, 2, 3}), strconv.Itoa)
	var s string
	require.True(t, iter(&s))
	require.Equal(t, "1", s)
	require.True(t, iter(&s))
	require.Equal(t, "2", s)
	require.True(t, iter(&s))
	require.Equal(t, "3", s)
	require.False(t, iter(&s))

	iter = Map(FromSlice([]int{1, 2, 3}), func(v int, index int) string {
		return strconv.Itoa(index) + ":" + strconv.Itoa(v)
	})
	require.True(t, iter(&s))
	require.Equal(t, "0:1", s)
	require.True(t, iter(&s))
	require.Equal(t, "1:2", s)
	require.True(t, iter(&s))
	require.Equal(t, "2:3", s)
	require.False(t, iter(&s))
}
