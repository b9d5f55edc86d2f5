// Package discovery enumerates candidate recordings under a source root.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirectoryNotFound indicates the search root does not exist or is not a
// directory.
var ErrDirectoryNotFound = errors.New("search directory not found")

// Discover walks root recursively and returns the absolute path of every
// regular file whose name ends with ext. The extension match is
// case-sensitive and ext is normalized to carry a leading dot. Order of the
// returned slice is filesystem-dependent.
func Discover(root, ext string) ([]string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("%w: empty root", ErrDirectoryNotFound)
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}

	ext = normalizeExt(ext)

	var matches []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !strings.HasSuffix(entry.Name(), ext) {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return fmt.Errorf("resolve %s: %w", path, absErr)
		}
		matches = append(matches, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return matches, nil
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ext
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
