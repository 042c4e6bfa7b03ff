package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/kubeyaml/manifest"
	"github.com/byte4ever/kubeyaml/tree"
)

func TestSetImage_deployment(t *testing.T) {
	t.Parallel()

	m := decode(t, deploymentSrc)

	require.True(t, manifest.SetImage(m, "app", "repo/app:v2"))

	cs := manifest.Containers(m)
	require.Len(t, cs, 1)
	assert.Equal(t, "repo/app:v2", cs[0].Image)
}

func TestSetImage_init_container(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: Deployment
metadata:
  name: web
spec:
  template:
    spec:
      containers:
      - name: app
        image: repo/app:v1
      initContainers:
      - name: init
        image: repo/init:v1
`)

	require.True(t, manifest.SetImage(m, "init", "repo/init:v2"))

	assert.Equal(t, []manifest.Container{
		{Name: "app", Image: "repo/app:v1"},
		{Name: "init", Image: "repo/init:v2"},
	}, manifest.Containers(m))
}

func TestSetImage_unknown_container(t *testing.T) {
	t.Parallel()

	m := decode(t, deploymentSrc)

	assert.False(t, manifest.SetImage(m, "nope", "x:y"))
}

func TestSetImage_helm_repository_and_tag(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    image:
      repository: foo
      tag: "1.0"
    replicaCount: 2
`)

	require.True(t, manifest.SetImage(
		m, manifest.ChartContainer, "bar:2.0",
	))

	v, ok := tree.GetPath(m, "spec.values.image.repository")
	require.True(t, ok)
	assert.Equal(t, "bar", v)

	v, ok = tree.GetPath(m, "spec.values.image.tag")
	require.True(t, ok)
	assert.Equal(t, "2.0", v)

	// Untouched siblings stay put.
	v, ok = tree.GetPath(m, "spec.values.replicaCount")
	require.True(t, ok)
	assert.EqualValues(t, 2, v)
}

func TestSetImage_helm_registry_only_folds_tag(
	t *testing.T,
) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    registry: old.example.com
    image: foo
`)

	require.True(t, manifest.SetImage(
		m, manifest.ChartContainer, "reg.example.com/bar:2.0",
	))

	v, _ := tree.GetPath(m, "spec.values.registry")
	assert.Equal(t, "reg.example.com", v)

	v, _ = tree.GetPath(m, "spec.values.image")
	assert.Equal(t, "bar:2.0", v)
}

func TestSetImage_helm_tag_only_folds_registry(
	t *testing.T,
) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    image: foo
    tag: "1.0"
`)

	require.True(t, manifest.SetImage(
		m, manifest.ChartContainer, "reg.example.com/bar:2.0",
	))

	v, _ := tree.GetPath(m, "spec.values.image")
	assert.Equal(t, "reg.example.com/bar", v)

	v, _ = tree.GetPath(m, "spec.values.tag")
	assert.Equal(t, "2.0", v)
}

func TestSetImage_helm_plain_string(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    image: foo:1.0
`)

	require.True(t, manifest.SetImage(
		m, manifest.ChartContainer, "reg.example.com/bar:2.0",
	))

	v, _ := tree.GetPath(m, "spec.values.image")
	assert.Equal(t, "reg.example.com/bar:2.0", v)
}

func TestSetImage_helm_nested_mapping(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    web:
      image: repo/web:v1
    api:
      image: repo/api:v1
`)

	require.True(t, manifest.SetImage(m, "api", "repo/api:v2"))

	v, _ := tree.GetPath(m, "spec.values.api.image")
	assert.Equal(t, "repo/api:v2", v)

	v, _ = tree.GetPath(m, "spec.values.web.image")
	assert.Equal(t, "repo/web:v1", v)
}

func TestSetImage_helm_annotation_paths(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
  annotations:
    repository.flux.weave.works/web: values.web.image
    tag.flux.weave.works/web: values.web.version
spec:
  values:
    web:
      image: x
      version: y
`)

	require.True(t, manifest.SetImage(m, "web", "z:9"))

	v, _ := tree.GetPath(m, "spec.values.web.image")
	assert.Equal(t, "z", v)

	v, _ = tree.GetPath(m, "spec.values.web.version")
	assert.Equal(t, "9", v)
}

// With a tag path but no registry path, the repository
// path receives the bare repository and the new ref's
// registry is dropped.
func TestSetImage_helm_annotation_tag_path_drops_registry(
	t *testing.T,
) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
  annotations:
    repository.flux.weave.works/web: values.web.image
    tag.flux.weave.works/web: values.web.version
spec:
  values:
    web:
      image: x
      version: y
`)

	require.True(t, manifest.SetImage(
		m, "web", "reg.example.com/z:9",
	))

	v, _ := tree.GetPath(m, "spec.values.web.image")
	assert.Equal(t, "z", v)

	v, _ = tree.GetPath(m, "spec.values.web.version")
	assert.Equal(t, "9", v)
}

// Annotation mappings win over a same-named nested image
// mapping on write-back.
func TestSetImage_helm_annotation_priority(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
  annotations:
    repository.flux.weave.works/web: values.custom.img
spec:
  values:
    custom:
      img: old/web
    web:
      image: repo/web:v1
`)

	require.True(t, manifest.SetImage(m, "web", "new/web:v2"))

	v, _ := tree.GetPath(m, "spec.values.custom.img")
	assert.Equal(t, "new/web:v2", v)

	v, _ = tree.GetPath(m, "spec.values.web.image")
	assert.Equal(t, "repo/web:v1", v)
}

func TestSetImage_helm_unknown_container(t *testing.T) {
	t.Parallel()

	m := decode(t, `
kind: HelmRelease
metadata:
  name: rel
spec:
  values:
    replicaCount: 2
`)

	assert.False(t, manifest.SetImage(
		m, manifest.ChartContainer, "x:y",
	))
}
