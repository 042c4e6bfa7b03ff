package image

import (
	"regexp"
	"strings"
)

// Ref is a parsed image reference. Registry and Tag may
// be empty; Repository holds everything in between.
type Ref struct {
	Registry   string
	Repository string
	Tag        string
}

const domainComponent = `([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9])`

// domainRE decides whether the first path segment of a
// two-segment reference is a registry host: "localhost"
// or at least two dot-separated labels, optionally
// followed by a port.
var domainRE = regexp.MustCompile(
	`^(localhost|` +
		domainComponent +
		`([.]` + domainComponent + `)+` +
		`)(:[0-9]+)?$`,
)

// Parse splits a reference into registry, repository and
// tag. A two-segment path whose first segment does not
// look like a registry host reads as namespace/image. A
// repository with more than two colons is left as-is
// with an empty tag rather than rejected.
func Parse(s string) Ref {
	var ref Ref

	segments := strings.Split(s, "/")

	switch {
	case len(segments) == 1:
		ref.Repository = s
	case len(segments) == 2:
		if domainRE.MatchString(segments[0]) {
			ref.Registry = segments[0]
			ref.Repository = segments[1]
		} else {
			ref.Repository = s
		}
	default:
		ref.Registry = segments[0]
		ref.Repository = strings.Join(segments[1:], "/")
	}

	pieces := strings.Split(ref.Repository, ":")

	switch len(pieces) {
	case 2:
		ref.Repository = pieces[0]
		ref.Tag = pieces[1]
	case 3:
		// A port folded into the repository by the split
		// above surfaces here as an extra colon.
		ref.Repository = pieces[0] + ":" + pieces[1]
		ref.Tag = pieces[2]
	}

	return ref
}

// String reassembles the reference, omitting an empty
// registry and an empty tag.
func (r Ref) String() string {
	s := r.Repository

	if r.Registry != "" {
		s = r.Registry + "/" + s
	}

	if r.Tag != "" {
		s += ":" + r.Tag
	}

	return s
}
