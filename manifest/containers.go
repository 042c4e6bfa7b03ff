package manifest

import (
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/kubeyaml/tree"
)

// ChartContainer is the fixed name given to the
// synthetic container for an image supplied at the top
// level of Helm release values.
const ChartContainer = "chart-image"

// podContainerKeys are the pod-spec lists holding
// literal containers, in enumeration order.
var podContainerKeys = []string{
	"containers",
	"initContainers",
}

// Container is one logical container of a manifest: a
// literal pod-spec entry or a synthetic one derived from
// Helm release values.
type Container struct {
	Name  string
	Image string
}

// Containers lists the logical containers of a manifest.
// Helm release kinds are sniffed out of spec.values;
// every other kind reads as a pod-template workload.
// Missing structure yields an empty list.
func Containers(m yaml.MapSlice) []Container {
	if isHelmRelease(m) {
		return helmContainers(m)
	}

	spec, ok := podSpec(m)
	if !ok {
		return nil
	}

	var out []Container

	for _, key := range podContainerKeys {
		seq, ok := sequenceAt(spec, key)
		if !ok {
			continue
		}

		for _, item := range seq {
			c, ok := tree.Mapping(item)
			if !ok {
				continue
			}

			name := stringAt(c, "name")
			if name == "" {
				continue
			}

			out = append(out, Container{
				Name:  name,
				Image: stringAt(c, "image"),
			})
		}
	}

	return out
}

func isHelmRelease(m yaml.MapSlice) bool {
	kind := stringAt(m, "kind")

	return kind == "FluxHelmRelease" || kind == "HelmRelease"
}

// podSpec returns the pod spec of a workload manifest.
// Bare Pods hold it directly under spec, CronJobs nest
// the template one level deeper, everything else reads
// as a generic pod-template workload.
func podSpec(m yaml.MapSlice) (yaml.MapSlice, bool) {
	var path string

	switch stringAt(m, "kind") {
	case "Pod":
		path = "spec"
	case "CronJob":
		path = "spec.jobTemplate.spec.template.spec"
	default:
		path = "spec.template.spec"
	}

	v, ok := tree.GetPath(m, path)
	if !ok {
		return nil, false
	}

	return tree.Mapping(v)
}

func helmValues(m yaml.MapSlice) (yaml.MapSlice, bool) {
	v, ok := tree.GetPath(m, "spec.values")
	if !ok {
		return nil, false
	}

	return tree.Mapping(v)
}

// There are different ways Helm release values can
// describe images, so resolution sniffs in three tiers.
// Later tiers replace same-named entries but never
// remove earlier ones. Annotation-declared dot paths
// anchor at the manifest's spec mapping, so they start
// with "values.".
func helmContainers(m yaml.MapSlice) []Container {
	values, ok := helmValues(m)
	if !ok {
		return nil
	}

	spec, ok := mappingAt(m, "spec")
	if !ok {
		return nil
	}

	var out []Container

	// Tier one: values has a top-level image key. The
	// image can appear in any template, so the container
	// gets a fixed name.
	if tree.Has(values, "image") {
		out = append(out, Container{
			Name:  ChartContainer,
			Image: composeImage(values),
		})
	}

	// Tier two: every top-level mapping with its own
	// image key reads as a container named for its key.
	for _, item := range values {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}

		sub, ok := tree.Mapping(item.Value)
		if !ok {
			continue
		}

		if tree.Has(sub, "image") {
			out = append(out, Container{
				Name:  key,
				Image: composeImage(sub),
			})
		}
	}

	// Tier three: annotation-declared dot paths into the
	// values tree.
	for _, nm := range pathMappings(m) {
		img, ok := imageAtPaths(spec, nm.mapping)
		if !ok {
			continue
		}

		out = replaceByName(out, Container{
			Name:  nm.name,
			Image: img,
		})
	}

	return out
}

// composeImage builds the image string described by a
// values mapping holding an image key with optional
// registry and tag siblings. An image sub-mapping with a
// repository key becomes the value source itself.
func composeImage(values yaml.MapSlice) string {
	v, _ := tree.Lookup(values, "image")

	if sub, ok := tree.Mapping(v); ok &&
		tree.Has(sub, "repository") {
		values = sub
		v, _ = tree.Lookup(sub, "repository")
	}

	img, _ := tree.Str(v)

	if registry := stringAt(values, "registry"); registry != "" {
		img = registry + "/" + img
	}

	if tag := stringAt(values, "tag"); tag != "" {
		img = img + ":" + tag
	}

	return img
}

// imageAtPaths resolves a path mapping against the spec
// mapping holding the values tree. A mapping without a
// repository path, or whose declared paths resolve to
// anything but non-empty strings, contributes nothing.
func imageAtPaths(
	spec yaml.MapSlice,
	pm PathMapping,
) (string, bool) {
	if pm.Repository == "" {
		return "", false
	}

	v, ok := tree.GetPath(spec, pm.Repository)
	if !ok {
		return "", false
	}

	repository, ok := tree.Str(v)
	if !ok || repository == "" {
		return "", false
	}

	if pm.Tag == "" {
		return repository, true
	}

	v, ok = tree.GetPath(spec, pm.Tag)
	if !ok {
		return "", false
	}

	tag, ok := tree.Str(v)
	if !ok || tag == "" {
		return "", false
	}

	return repository + ":" + tag, true
}

func replaceByName(
	list []Container,
	c Container,
) []Container {
	for i := range list {
		if list[i].Name == c.Name {
			list[i] = c

			return list
		}
	}

	return append(list, c)
}
