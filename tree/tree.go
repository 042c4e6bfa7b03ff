package tree

import (
	"strings"

	"github.com/goccy/go-yaml"
)

// Mapping reports v as an ordered mapping.
func Mapping(v interface{}) (yaml.MapSlice, bool) {
	ms, ok := v.(yaml.MapSlice)

	return ms, ok
}

// Sequence reports v as a sequence.
func Sequence(v interface{}) ([]interface{}, bool) {
	sq, ok := v.([]interface{})

	return sq, ok
}

// Str reports v as a string scalar.
func Str(v interface{}) (string, bool) {
	s, ok := v.(string)

	return s, ok
}

// Lookup returns the value stored under key.
func Lookup(
	ms yaml.MapSlice,
	key string,
) (interface{}, bool) {
	for i := range ms {
		if k, ok := ms[i].Key.(string); ok && k == key {
			return ms[i].Value, true
		}
	}

	return nil, false
}

// Has reports whether key exists in ms.
func Has(ms yaml.MapSlice, key string) bool {
	_, ok := Lookup(ms, key)

	return ok
}

// Set overwrites the value of an existing key in place.
// It reports false, without mutating, when the key is
// absent.
func Set(
	ms yaml.MapSlice,
	key string,
	value interface{},
) bool {
	for i := range ms {
		if k, ok := ms[i].Key.(string); ok && k == key {
			ms[i].Value = value

			return true
		}
	}

	return false
}

// Upsert overwrites key when present and appends it
// otherwise. The returned slice must replace the
// caller's copy.
func Upsert(
	ms yaml.MapSlice,
	key string,
	value interface{},
) yaml.MapSlice {
	if Set(ms, key, value) {
		return ms
	}

	return append(ms, yaml.MapItem{Key: key, Value: value})
}

// Delete removes key, tolerating its absence. The
// returned slice must replace the caller's copy.
func Delete(ms yaml.MapSlice, key string) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(ms))

	for _, item := range ms {
		if k, ok := item.Key.(string); ok && k == key {
			continue
		}

		out = append(out, item)
	}

	return out
}

// GetPath walks a dot-separated path of nested mappings.
// A missing key or non-mapping intermediate at any depth
// yields ok == false.
func GetPath(
	ms yaml.MapSlice,
	path string,
) (interface{}, bool) {
	var cur interface{} = ms

	for _, key := range strings.Split(path, ".") {
		m, ok := Mapping(cur)
		if !ok {
			return nil, false
		}

		cur, ok = Lookup(m, key)
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// SetPath overwrites the string value at a dot-separated
// path. All intermediate keys must already exist and the
// final key must already hold a string; otherwise
// nothing is written and false is returned.
func SetPath(
	ms yaml.MapSlice,
	path string,
	value string,
) bool {
	keys := strings.Split(path, ".")
	cur := ms

	for _, key := range keys[:len(keys)-1] {
		v, ok := Lookup(cur, key)
		if !ok {
			return false
		}

		cur, ok = Mapping(v)
		if !ok {
			return false
		}
	}

	last := keys[len(keys)-1]

	v, ok := Lookup(cur, last)
	if !ok {
		return false
	}

	if _, ok := Str(v); !ok {
		return false
	}

	return Set(cur, last, value)
}
