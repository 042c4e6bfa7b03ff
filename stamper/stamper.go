package stamper

import (
	"fmt"
	"os"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Stamps maps workspace status variable names to their
// values.
type Stamps map[string]interface{}

// Load reads workspace status files and merges them into
// a single Stamps map, later files overriding earlier
// ones. Each line is "KEY VALUE" with the first space as
// delimiter. Lines without a space are silently skipped.
func Load(infoFiles []string) (Stamps, error) {
	const errCtx = "loading stamps"

	stamps := make(Stamps)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) == 2 {
				stamps[parts[0]] = parts[1]
			}
		}
	}

	return stamps, nil
}

// Expand substitutes {VAR} placeholders in value.
// Unknown variables are preserved as-is.
func (st Stamps) Expand(value string) string {
	return fasttemplate.ExecuteStringStd(
		value, "{", "}", st,
	)
}
