package tree_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/kubeyaml/tree"
)

// decode parses a YAML fragment into an ordered mapping.
func decode(tb testing.TB, src string) yaml.MapSlice {
	tb.Helper()

	var v interface{}

	require.NoError(
		tb,
		yaml.UnmarshalWithOptions(
			[]byte(src), &v, yaml.UseOrderedMap(),
		),
	)

	ms, ok := tree.Mapping(v)
	require.True(tb, ok)

	return ms
}

func TestLookup(t *testing.T) {
	t.Parallel()

	ms := decode(t, "a: 1\nb: two\n")

	v, ok := tree.Lookup(ms, "b")
	require.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = tree.Lookup(ms, "missing")
	assert.False(t, ok)
}

func TestSet_existing_key_only(t *testing.T) {
	t.Parallel()

	ms := decode(t, "a: 1\nb: two\n")

	assert.True(t, tree.Set(ms, "b", "three"))

	v, ok := tree.Lookup(ms, "b")
	require.True(t, ok)
	assert.Equal(t, "three", v)

	assert.False(t, tree.Set(ms, "missing", "x"))
	assert.False(t, tree.Has(ms, "missing"))
}

func TestUpsert_appends_and_overwrites(t *testing.T) {
	t.Parallel()

	ms := decode(t, "a: 1\n")

	ms = tree.Upsert(ms, "b", "two")
	ms = tree.Upsert(ms, "a", "one")

	require.Len(t, ms, 2)
	assert.Equal(t, "a", ms[0].Key)
	assert.Equal(t, "one", ms[0].Value)
	assert.Equal(t, "b", ms[1].Key)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ms := decode(t, "a: 1\nb: 2\nc: 3\n")

	ms = tree.Delete(ms, "b")
	require.Len(t, ms, 2)
	assert.False(t, tree.Has(ms, "b"))
	assert.Equal(t, "a", ms[0].Key)
	assert.Equal(t, "c", ms[1].Key)

	// Absent keys are tolerated.
	assert.Len(t, tree.Delete(ms, "nope"), 2)
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	ms := decode(t, `
web:
  image: x
  version: y
count: 3
`)

	v, ok := tree.GetPath(ms, "web.image")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = tree.GetPath(ms, "web.missing")
	assert.False(t, ok)

	_, ok = tree.GetPath(ms, "missing.image")
	assert.False(t, ok)

	// Scalar intermediates are absent, not errors.
	_, ok = tree.GetPath(ms, "count.deeper")
	assert.False(t, ok)
}

func TestSetPath(t *testing.T) {
	t.Parallel()

	ms := decode(t, `
web:
  image: x
  replicas: 2
`)

	assert.True(t, tree.SetPath(ms, "web.image", "z"))

	v, ok := tree.GetPath(ms, "web.image")
	require.True(t, ok)
	assert.Equal(t, "z", v)

	// Missing intermediate: no write.
	assert.False(t, tree.SetPath(ms, "api.image", "z"))

	// Missing final key: no write.
	assert.False(t, tree.SetPath(ms, "web.tag", "z"))
	assert.False(t, tree.Has(mustMapping(t, ms, "web"), "tag"))

	// Non-string target: no write.
	assert.False(t, tree.SetPath(ms, "web.replicas", "9"))
}

func mustMapping(
	tb testing.TB,
	ms yaml.MapSlice,
	key string,
) yaml.MapSlice {
	tb.Helper()

	v, ok := tree.Lookup(ms, key)
	require.True(tb, ok)

	m, ok := tree.Mapping(v)
	require.True(tb, ok)

	return m
}
