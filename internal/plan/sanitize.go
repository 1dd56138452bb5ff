package plan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Characters rejected by at least one of the filesystems the destination
// tree may live on (NTFS is the strictest of the common set).
const invalidPathChars = `<>:"\|?*/`

// SanitizeFilename folds every invalid or control character in name to a
// space and collapses the resulting whitespace runs. The compound-tag
// separator & is legal and passes through untouched.
func SanitizeFilename(name string) (string, error) {
	folded := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 || strings.ContainsRune(invalidPathChars, r) {
			return ' '
		}
		return r
	}, name)
	out := strings.Join(strings.Fields(folded), " ")
	if out == "" {
		return "", fmt.Errorf("name %q is empty after sanitization", name)
	}
	return out, nil
}

// SanitizeRelPath sanitizes each component of a relative path, keeping
// the separators between them.
func SanitizeRelPath(path string) (string, error) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		clean, err := SanitizeFilename(part)
		if err != nil {
			return "", fmt.Errorf("sanitizing path %q: %w", path, err)
		}
		parts[i] = clean
	}
	return filepath.Join(parts...), nil
}
