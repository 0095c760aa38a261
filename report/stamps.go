package report

import (
	"fmt"
	"os"
	"strings"
)

// LoadStamps reads workspace status files and merges them into a
// single variable map. Each line is "KEY VALUE" split at the
// first space; later files override earlier ones. Lines without
// a space are skipped.
func LoadStamps(
	infoFiles []string,
) (map[string]interface{}, error) {
	const errCtx = "loading stamps"

	stamps := make(map[string]interface{})

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		for _, line := range strings.Split(string(content), "\n") {
			key, val, ok := strings.Cut(strings.TrimRight(line, "\r"), " ")
			if ok && key != "" {
				stamps[key] = val
			}
		}
	}

	return stamps, nil
}
