package edit

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/kubeyaml/manifest"
)

// ErrNotFound reports that no manifest in the stream
// satisfied the selector (for image updates: none both
// matched and held the requested container).
var ErrNotFound = errors.New("manifest not found")

// UpdateImage sets the image of the selected container
// in the first matching manifest and re-emits the whole
// stream to out. Nothing is written on error.
func UpdateImage(
	in io.Reader,
	out io.Writer,
	sel manifest.Selector,
	img string,
) error {
	const errCtx = "updating image"

	docs, err := decodeAll(in)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	found := false

	for _, doc := range docs {
		ms, ok := doc.(yaml.MapSlice)
		if !ok {
			continue
		}

		for _, m := range manifest.Manifests(ms) {
			if !manifest.Match(sel, m) {
				continue
			}

			if !hasContainer(m, sel.Container) {
				continue
			}

			if !manifest.SetImage(m, sel.Container, img) {
				return fmt.Errorf(
					"%s: %w", errCtx, ErrNotFound,
				)
			}

			found = true

			break
		}

		if found {
			break
		}
	}

	if !found {
		return fmt.Errorf("%s: %w", errCtx, ErrNotFound)
	}

	if err := encodeAll(out, docs); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// UpdateAnnotations applies the annotation edits to the
// first matching manifest and re-emits the whole stream
// to out. Nothing is written on error.
func UpdateAnnotations(
	in io.Reader,
	out io.Writer,
	sel manifest.Selector,
	notes []manifest.Annotation,
) error {
	const errCtx = "updating annotations"

	docs, err := decodeAll(in)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	found := false

	for _, doc := range docs {
		ms, ok := doc.(yaml.MapSlice)
		if !ok {
			continue
		}

		for _, m := range manifest.Manifests(ms) {
			if !manifest.Match(sel, m) {
				continue
			}

			if !manifest.ApplyAnnotations(m, notes) {
				continue
			}

			found = true

			break
		}

		if found {
			break
		}
	}

	if !found {
		return fmt.Errorf("%s: %w", errCtx, ErrNotFound)
	}

	if err := encodeAll(out, docs); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func hasContainer(m yaml.MapSlice, name string) bool {
	for _, c := range manifest.Containers(m) {
		if c.Name == name {
			return true
		}
	}

	return false
}

// decodeAll reads every document in the stream. Mappings
// decode as ordered yaml.MapSlice values so untouched
// documents re-encode with their key order intact. Empty
// documents are dropped.
//
// The stream is cut at its start-of-document markers
// before decoding: feeding the whole stream to one
// decoder would stop at the first empty document, since
// an empty document decodes to io.EOF, and every manifest
// after it would be lost.
func decodeAll(in io.Reader) ([]interface{}, error) {
	const errCtx = "decoding yaml"

	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var docs []interface{}

	for _, chunk := range splitDocuments(raw) {
		var doc interface{}

		err := yaml.UnmarshalWithOptions(
			chunk,
			&doc,
			yaml.UseOrderedMap(),
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		if doc == nil {
			continue
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// splitDocuments cuts a multi-document stream at each
// line beginning a new document. A marker line carrying
// content on the same line keeps that content at the head
// of its chunk.
func splitDocuments(raw []byte) [][]byte {
	var (
		chunks [][]byte
		start  int
		offset int
	)

	marker := []byte("---")

	for _, line := range bytes.SplitAfter(raw, []byte("\n")) {
		bare := bytes.TrimRight(line, "\r\n")

		switch {
		case bytes.Equal(bare, marker):
			chunks = append(chunks, raw[start:offset])
			start = offset + len(line)
		case bytes.HasPrefix(line, []byte("--- ")):
			chunks = append(chunks, raw[start:offset])
			start = offset + len("--- ")
		}

		offset += len(line)
	}

	return append(chunks, raw[start:])
}

// encodeAll writes every document behind an explicit
// start-of-document marker. No end-of-document marker is
// ever emitted.
func encodeAll(out io.Writer, docs []interface{}) error {
	const errCtx = "encoding yaml"

	for _, doc := range docs {
		if _, err := out.Write([]byte("---\n")); err != nil {
			return fmt.Errorf(
				"%s: writing marker: %w", errCtx, err,
			)
		}

		buf, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf(
				"%s: marshaling document: %w", errCtx, err,
			)
		}

		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf(
				"%s: writing document: %w", errCtx, err,
			)
		}
	}

	return nil
}
