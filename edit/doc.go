// Package edit applies a single targeted mutation to a multi-document
// Kubernetes YAML stream: updating one container image or one
// manifest's metadata annotations. The stream is decoded in full
// before anything is written, so a failed edit produces no output at
// all; on success every document is re-emitted in order, at most one
// of them changed.
package edit
