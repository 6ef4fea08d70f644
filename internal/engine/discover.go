package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// discover returns the regular files directly inside folder that match any
// of patterns. Matching is non-recursive, directories are dropped, and the
// result is de-duplicated and sorted lexicographically so batches run in a
// deterministic order.
func discover(folder string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if strings.ContainsRune(pattern, '/') || strings.ContainsRune(pattern, filepath.Separator) {
			return nil, fmt.Errorf("invalid pattern %q: must match names directly inside the folder", pattern)
		}
		matches, err := filepath.Glob(filepath.Join(folder, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[path] = true
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}
