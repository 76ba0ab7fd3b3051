// Package filex holds filesystem helpers for locating local state.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataFile makes sure the directory for a data file exists and returns
// the file's absolute path. A relative dir is resolved against the working
// directory; an empty dir means the working directory itself.
func EnsureDataFile(dir, name string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return filepath.Join(dir, name), nil
}
