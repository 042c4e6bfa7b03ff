// Package main provides the kubeyaml CLI that applies one targeted
// edit to a Kubernetes YAML stream read from stdin and written to
// stdout: "image" updates a single container image, "annotate"
// updates one manifest's metadata annotations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/byte4ever/kubeyaml/edit"
	"github.com/byte4ever/kubeyaml/manifest"
	"github.com/byte4ever/kubeyaml/stamper"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)

	return nil
}

func run() error {
	const errCtx = "kubeyaml"

	if len(os.Args) < 2 {
		return fmt.Errorf(
			"%s: expected an image or annotate subcommand",
			errCtx,
		)
	}

	switch os.Args[1] {
	case "image":
		return runImage(os.Args[2:])
	case "annotate":
		return runAnnotate(os.Args[2:])
	default:
		return fmt.Errorf(
			"%s: unknown subcommand %q",
			errCtx, os.Args[1],
		)
	}
}

// selectorFlags registers the flags shared by both
// subcommands.
func selectorFlags(
	fs *flag.FlagSet,
	sel *manifest.Selector,
	stampInfoFiles *arrayFlags,
) {
	fs.StringVar(
		&sel.Namespace, "namespace", "",
		"namespace of the manifest to update",
	)

	fs.StringVar(
		&sel.Kind, "kind", "",
		"kind of the manifest to update",
	)

	fs.StringVar(
		&sel.Name, "name", "",
		"name of the manifest to update",
	)

	fs.Var(
		stampInfoFiles, "stamp-info-file",
		"workspace status file for {VAR} substitution (repeatable)",
	)
}

func checkSelector(sel manifest.Selector) error {
	const errCtx = "validating selector"

	if sel.Namespace == "" || sel.Kind == "" || sel.Name == "" {
		return fmt.Errorf(
			"%s: namespace, kind and name are required",
			errCtx,
		)
	}

	if errs := validation.IsDNS1123Label(
		sel.Namespace,
	); len(errs) > 0 {
		return fmt.Errorf(
			"%s: namespace %q: %s",
			errCtx, sel.Namespace,
			strings.Join(errs, "; "),
		)
	}

	return nil
}

// loadStamps reads the given stamp files, or returns nil
// when there are none so expansion is skipped entirely.
func loadStamps(infoFiles arrayFlags) (stamper.Stamps, error) {
	if len(infoFiles) == 0 {
		return nil, nil
	}

	return stamper.Load(infoFiles)
}

func runImage(args []string) error {
	const errCtx = "image"

	fs := flag.NewFlagSet("image", flag.ContinueOnError)

	var (
		sel            manifest.Selector
		img            string
		stampInfoFiles arrayFlags
	)

	selectorFlags(fs, &sel, &stampInfoFiles)

	fs.StringVar(
		&sel.Container, "container", "",
		"name of the container to update",
	)

	fs.StringVar(
		&img, "image", "",
		"new image reference",
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := checkSelector(sel); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if sel.Container == "" || img == "" {
		return fmt.Errorf(
			"%s: container and image are required",
			errCtx,
		)
	}

	stamps, err := loadStamps(stampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if stamps != nil {
		img = stamps.Expand(img)
	}

	if err := edit.UpdateImage(
		os.Stdin, os.Stdout, sel, img,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func runAnnotate(args []string) error {
	const errCtx = "annotate"

	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)

	var (
		sel            manifest.Selector
		stampInfoFiles arrayFlags
	)

	selectorFlags(fs, &sel, &stampInfoFiles)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := checkSelector(sel); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if fs.NArg() == 0 {
		return fmt.Errorf(
			"%s: at least one KEY=VALUE argument is required",
			errCtx,
		)
	}

	stamps, err := loadStamps(stampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	notes := make([]manifest.Annotation, 0, fs.NArg())

	for _, arg := range fs.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf(
				"%s: annotation %q must be KEY=VALUE",
				errCtx, arg,
			)
		}

		if errs := validation.IsQualifiedName(
			key,
		); len(errs) > 0 {
			return fmt.Errorf(
				"%s: annotation key %q: %s",
				errCtx, key, strings.Join(errs, "; "),
			)
		}

		if stamps != nil {
			value = stamps.Expand(value)
		}

		notes = append(notes, manifest.Annotation{
			Key:   key,
			Value: value,
		})
	}

	if err := edit.UpdateAnnotations(
		os.Stdin, os.Stdout, sel, notes,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, edit.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "manifest not found")
			os.Exit(2)
		}

		slog.Error(err.Error())
		os.Exit(1)
	}
}
