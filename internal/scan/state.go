package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"charscan/internal/outputs"
)

// Inspect reads the marker ledger of one dataset without changing it. It
// reports the outcome recorded by the last scan along with the marker's
// reason text; ok is false when no marker exists yet. A success marker wins
// over any failure marker left beside it.
func Inspect(paths outputs.Paths) (outcome Outcome, reason string, ok bool, err error) {
	candidates := []struct {
		outcome Outcome
		path    string
	}{
		{Succeeded, paths.Success},
		{NoFiles, paths.NoFiles},
		{ExtractFailed, paths.ExtractError},
		{WriteFailed, paths.WriteError},
	}
	for _, c := range candidates {
		data, readErr := os.ReadFile(c.path)
		if readErr != nil {
			if errors.Is(readErr, fs.ErrNotExist) {
				continue
			}
			return "", "", false, fmt.Errorf("read marker %s: %w", c.path, readErr)
		}
		return c.outcome, strings.TrimSpace(string(data)), true, nil
	}
	return "", "", false, nil
}
