// Package adapter contains the storage, scheduling and file adapters the
// vpiscope engine and CLI are built on.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpectationSuffix names the files picked up from directories.
const ExpectationSuffix = "_expect.yaml"

// ExpectationFinder resolves command line patterns to expectation files.
type ExpectationFinder interface {
	// Find expands patterns in order. A file is taken as is, a directory
	// contributes its *_expect.yaml files, and dir/... also descends into
	// subdirectories.
	Find(patterns []string) ([]string, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalExpectationFinder searches the local filesystem.
type LocalExpectationFinder struct{}

// NewLocalExpectationFinder constructs a LocalExpectationFinder.
func NewLocalExpectationFinder() *LocalExpectationFinder {
	return &LocalExpectationFinder{}
}

// Find implements ExpectationFinder. Each file appears once.
func (a *LocalExpectationFinder) Find(patterns []string) ([]string, error) {
	seen := make(map[string]bool)

	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] {
			return
		}

		seen[clean] = true
		files = append(files, clean)
	}

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", pattern, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = a.Walk(root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && strings.HasSuffix(info.Name(), ExpectationSuffix) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
	}

	return files, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalExpectationFinder) Walk(root string, recursive bool, fn FilepathWalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != root {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// splitPattern turns "dir/..." into ("dir", true).
func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}

	root, ok := strings.CutSuffix(pattern, string(filepath.Separator)+"...")
	if !ok {
		root, ok = strings.CutSuffix(pattern, "/...")
	}

	if root == "" {
		root = "."
	}

	return root, ok
}
