// Package manifest locates and edits workloads inside decoded
// Kubernetes documents. It expands *List documents into their items,
// matches manifests against a selector, enumerates logical containers
// (literal pod-spec entries or synthetic ones sniffed out of Helm
// release values) and writes container images and metadata annotations
// back in place.
package manifest
