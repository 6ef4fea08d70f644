package safety

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CleanBaseName validates a single path element produced from an input
// filename. It rejects empty names, "." and "..", and anything carrying a
// separator.
func CleanBaseName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name is empty")
	}
	if name == "." || name == ".." {
		return "", fmt.Errorf("name resolves to a directory reference: %q", name)
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return "", fmt.Errorf("name contains a path separator: %q", name)
	}
	return name, nil
}

// JoinUnder joins a validated base name under root and verifies the final
// path remains inside root.
func JoinUnder(root, name string) (string, error) {
	clean, err := CleanBaseName(name)
	if err != nil {
		return "", err
	}
	return EnsureUnderRoot(root, filepath.Join(root, clean))
}

// EnsureUnderRoot verifies candidate resolves under root and returns
// an absolute normalized path.
func EnsureUnderRoot(root, candidate string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	candAbs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve candidate: %w", err)
	}

	rel, err := filepath.Rel(rootAbs, candAbs)
	if err != nil {
		return "", fmt.Errorf("compare paths: %w", err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root: %q", candidate)
	}
	return candAbs, nil
}
