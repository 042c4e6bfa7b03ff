// Package image models docker-style container image references split
// into registry, repository and tag components. Parse accepts the loose
// reference grammar used in manifests (registry and tag optional) and
// Ref.String reassembles a reference without further normalization.
package image
