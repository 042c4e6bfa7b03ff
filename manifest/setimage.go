package manifest

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/kubeyaml/image"
	"github.com/byte4ever/kubeyaml/tree"
)

// SetImage rewrites the image of the named container in
// place. It reports false when the manifest has no
// applicable container or mapping.
func SetImage(m yaml.MapSlice, name, img string) bool {
	if isHelmRelease(m) {
		return setHelmImage(m, name, img)
	}

	return setPodImage(m, name, img)
}

func setPodImage(m yaml.MapSlice, name, img string) bool {
	spec, ok := podSpec(m)
	if !ok {
		return false
	}

	for _, key := range podContainerKeys {
		seq, ok := sequenceAt(spec, key)
		if !ok {
			continue
		}

		for i := range seq {
			c, ok := tree.Mapping(seq[i])
			if !ok {
				continue
			}

			if stringAt(c, "name") != name {
				continue
			}

			seq[i] = tree.Upsert(c, "image", img)

			return true
		}
	}

	return false
}

// setHelmImage writes the image back through whichever
// form produced the container, checked in the same
// priority order as resolution: the synthetic
// chart-image container first, then annotation path
// mappings, then nested image mappings.
func setHelmImage(m yaml.MapSlice, name, img string) bool {
	values, ok := helmValues(m)
	if !ok {
		return false
	}

	ref := image.Parse(img)

	if name == ChartContainer && tree.Has(values, "image") {
		setComposedImage(values, ref, img)

		return true
	}

	spec, _ := mappingAt(m, "spec")

	for _, nm := range pathMappings(m) {
		if nm.name == name && nm.mapping.Repository != "" {
			setMappedImage(spec, nm.mapping, ref, img)

			return true
		}
	}

	for _, item := range values {
		key, ok := item.Key.(string)
		if !ok || key != name {
			continue
		}

		sub, ok := tree.Mapping(item.Value)
		if !ok {
			continue
		}

		if tree.Has(sub, "image") {
			setComposedImage(sub, ref, img)

			return true
		}
	}

	return false
}

// setComposedImage writes ref into a values mapping,
// splitting it across whichever of the registry and tag
// sibling keys exist. raw is the unparsed reference for
// the no-siblings case, written verbatim.
func setComposedImage(
	values yaml.MapSlice,
	ref image.Ref,
	raw string,
) {
	imageKey := "image"

	if v, ok := tree.Lookup(values, "image"); ok {
		if sub, ok := tree.Mapping(v); ok &&
			tree.Has(sub, "repository") {
			values = sub
			imageKey = "repository"
		}
	}

	hasRegistry := tree.Has(values, "registry")
	hasTag := tree.Has(values, "tag")

	switch {
	case hasRegistry && hasTag:
		tree.Set(values, "registry", ref.Registry)
		tree.Set(values, imageKey, ref.Repository)
		tree.Set(values, "tag", ref.Tag)
	case hasRegistry:
		tree.Set(values, "registry", ref.Registry)
		tree.Set(
			values, imageKey,
			joinNonEmpty(":", ref.Repository, ref.Tag),
		)
	case hasTag:
		tree.Set(
			values, imageKey,
			joinNonEmpty("/", ref.Registry, ref.Repository),
		)
		tree.Set(values, "tag", ref.Tag)
	default:
		tree.Set(values, imageKey, raw)
	}
}

// setMappedImage writes ref through annotation-declared
// dot paths, anchored at the spec mapping. Paths that no
// longer resolve to string values are skipped rather
// than failing the edit.
func setMappedImage(
	spec yaml.MapSlice,
	pm PathMapping,
	ref image.Ref,
	raw string,
) {
	switch {
	case pm.Registry != "" && pm.Tag != "":
		tree.SetPath(spec, pm.Registry, ref.Registry)
		tree.SetPath(spec, pm.Repository, ref.Repository)
		tree.SetPath(spec, pm.Tag, ref.Tag)
	case pm.Registry != "":
		tree.SetPath(spec, pm.Registry, ref.Registry)
		tree.SetPath(
			spec, pm.Repository,
			ref.Repository+":"+ref.Tag,
		)
	case pm.Tag != "":
		tree.SetPath(spec, pm.Repository, ref.Repository)
		tree.SetPath(spec, pm.Tag, ref.Tag)
	default:
		tree.SetPath(spec, pm.Repository, raw)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string

	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, sep)
}
