package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

const sourcePattern = SourceStem + ".*"

// FindSource returns a previously fetched source.* file in dir. Partial
// downloads are hidden and never match. When several candidates exist the
// lexically first is returned.
func FindSource(dir string) (string, bool, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), sourcePattern)
	if err != nil {
		return "", false, fmt.Errorf("glob %s: %w", sourcePattern, err)
	}
	sort.Strings(matches)
	for _, match := range matches {
		path := filepath.Join(dir, filepath.FromSlash(match))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return path, true, nil
	}
	return "", false, nil
}
