package manifest

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/kubeyaml/tree"
)

// Annotation keys mapping logical container names to dot
// paths inside Helm release values. The suffix after the
// prefix names the container; the annotation value is the
// path.
const (
	registryAnnotationPrefix   = "registry.flux.weave.works/"
	repositoryAnnotationPrefix = "repository.flux.weave.works/"
	tagAnnotationPrefix        = "tag.flux.weave.works/"
)

// Annotation is one metadata annotation edit. An empty
// value deletes the key.
type Annotation struct {
	Key   string
	Value string
}

// PathMapping holds the dot paths declared for one
// logical container by annotations. Fields left empty
// were not declared.
type PathMapping struct {
	Registry   string
	Repository string
	Tag        string
}

type namedMapping struct {
	name    string
	mapping PathMapping
}

// pathMappings collects annotation-declared path
// mappings in annotation order, merging registry,
// repository and tag keys that share a container name.
func pathMappings(m yaml.MapSlice) []namedMapping {
	meta, ok := mappingAt(m, "metadata")
	if !ok {
		return nil
	}

	annotations, ok := mappingAt(meta, "annotations")
	if !ok {
		return nil
	}

	var (
		order  []string
		byName = map[string]*PathMapping{}
	)

	ensure := func(name string) *PathMapping {
		if pm, ok := byName[name]; ok {
			return pm
		}

		pm := &PathMapping{}
		byName[name] = pm
		order = append(order, name)

		return pm
	}

	for _, item := range annotations {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}

		path, ok := tree.Str(item.Value)
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(key, registryAnnotationPrefix):
			name := strings.TrimPrefix(key, registryAnnotationPrefix)
			ensure(name).Registry = path
		case strings.HasPrefix(key, repositoryAnnotationPrefix):
			name := strings.TrimPrefix(key, repositoryAnnotationPrefix)
			ensure(name).Repository = path
		case strings.HasPrefix(key, tagAnnotationPrefix):
			name := strings.TrimPrefix(key, tagAnnotationPrefix)
			ensure(name).Tag = path
		}
	}

	out := make([]namedMapping, 0, len(order))

	for _, name := range order {
		out = append(out, namedMapping{
			name:    name,
			mapping: *byName[name],
		})
	}

	return out
}

// ApplyAnnotations applies the edits to
// metadata.annotations, creating the mapping on demand.
// An empty value deletes its key, tolerating absence; if
// no annotations remain afterwards the annotations key
// itself is removed from metadata. It reports false when
// the manifest has no metadata at all.
func ApplyAnnotations(
	m yaml.MapSlice,
	notes []Annotation,
) bool {
	meta, ok := mappingAt(m, "metadata")
	if !ok {
		return false
	}

	annotations, _ := mappingAt(meta, "annotations")

	for _, note := range notes {
		if note.Value == "" {
			annotations = tree.Delete(annotations, note.Key)
		} else {
			annotations = tree.Upsert(
				annotations, note.Key, note.Value,
			)
		}
	}

	if len(annotations) == 0 {
		meta = tree.Delete(meta, "annotations")
	} else {
		meta = tree.Upsert(meta, "annotations", annotations)
	}

	return tree.Set(m, "metadata", meta)
}
