package manifest

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/kubeyaml/tree"
)

// Selector identifies the manifest, and optionally the
// container within it, that an edit applies to.
type Selector struct {
	Namespace string
	Kind      string
	Name      string
	Container string
}

// Manifests expands a decoded document into its
// manifests: a kind ending in "List" yields the
// mappings under items, anything else yields the
// document itself.
func Manifests(doc yaml.MapSlice) []yaml.MapSlice {
	if !strings.HasSuffix(stringAt(doc, "kind"), "List") {
		return []yaml.MapSlice{doc}
	}

	items, ok := sequenceAt(doc, "items")
	if !ok {
		return nil
	}

	out := make([]yaml.MapSlice, 0, len(items))

	for _, item := range items {
		if m, ok := tree.Mapping(item); ok {
			out = append(out, m)
		}
	}

	return out
}

// Match reports whether m satisfies sel. Kind compares
// case-insensitively and a manifest without a namespace
// counts as "default". A manifest missing any required
// field never matches.
func Match(sel Selector, m yaml.MapSlice) bool {
	kind := stringAt(m, "kind")
	if kind == "" || !strings.EqualFold(kind, sel.Kind) {
		return false
	}

	meta, ok := mappingAt(m, "metadata")
	if !ok {
		return false
	}

	namespace := stringAt(meta, "namespace")
	if namespace == "" {
		namespace = "default"
	}

	if namespace != sel.Namespace {
		return false
	}

	name := stringAt(meta, "name")

	return name != "" && name == sel.Name
}

// stringAt returns the string under key, or "" when the
// key is absent or holds anything else.
func stringAt(ms yaml.MapSlice, key string) string {
	v, ok := tree.Lookup(ms, key)
	if !ok {
		return ""
	}

	s, _ := tree.Str(v)

	return s
}

func mappingAt(
	ms yaml.MapSlice,
	key string,
) (yaml.MapSlice, bool) {
	v, ok := tree.Lookup(ms, key)
	if !ok {
		return nil, false
	}

	return tree.Mapping(v)
}

func sequenceAt(
	ms yaml.MapSlice,
	key string,
) ([]interface{}, bool) {
	v, ok := tree.Lookup(ms, key)
	if !ok {
		return nil, false
	}

	return tree.Sequence(v)
}
