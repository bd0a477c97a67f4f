// Package project locates the root of a Svelte project.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// markers are checked in order in every directory; svelte.config.* wins over
// package.json so a workspace package.json above the app is not picked.
var markers = []string{
	"svelte.config.js",
	"svelte.config.ts",
	"svelte.config.mjs",
	"svelte.config.cjs",
	"package.json",
}

// FindMarker walks up from startDir to locate the nearest directory holding
// one of the project markers and returns that marker's path.
func FindMarker(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range markers {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing a project marker, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	markerPath, ok, err := FindMarker(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(markerPath), true, nil
}
