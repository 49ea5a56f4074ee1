// Package discovery resolves the include, exclude and cleanup glob patterns
// of a generation run into concrete file sets. Patterns support the `**`
// wildcard when recursive search is enabled.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tristendillon/capnp-stubgen/core/errors"
	"github.com/tristendillon/capnp-stubgen/core/logger"
)

// Options configure one discovery pass. All patterns are resolved relative
// to Root.
type Options struct {
	Root      string
	Paths     []string
	Excludes  []string
	Clean     []string
	Recursive bool
}

// Set is the outcome of a discovery pass: schema files to generate stubs
// for, and files matched for cleanup.
type Set struct {
	Schemas []string
	Cleanup []string
}

// Resolve expands all patterns: cleanup matches first, then include matches
// minus exclude matches. Results are sorted for deterministic runs.
func Resolve(opts Options) (*Set, error) {
	cleanup, err := glob(opts.Root, opts.Clean, opts.Recursive)
	if err != nil {
		return nil, err
	}

	included, err := glob(opts.Root, opts.Paths, opts.Recursive)
	if err != nil {
		return nil, err
	}

	excluded, err := glob(opts.Root, opts.Excludes, opts.Recursive)
	if err != nil {
		return nil, err
	}

	var schemas []string
	for path := range included {
		if excluded[path] {
			logger.Debug("Excluding %s", path)
			continue
		}
		schemas = append(schemas, path)
	}
	sort.Strings(schemas)

	var cleanupPaths []string
	for path := range cleanup {
		cleanupPaths = append(cleanupPaths, path)
	}
	sort.Strings(cleanupPaths)

	return &Set{Schemas: schemas, Cleanup: cleanupPaths}, nil
}

// RemoveCleanup deletes every matched cleanup file before generation starts.
func (s *Set) RemoveCleanup() error {
	for _, path := range s.Cleanup {
		logger.Debug("Removing %s", path)
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "failed to clean up %s", path)
		}
	}
	return nil
}

// glob expands a list of patterns rooted at root into a path set. Without
// recursive search, `**` degrades to a single-level `*`.
func glob(root string, patterns []string, recursive bool) (map[string]bool, error) {
	matches := make(map[string]bool)

	for _, pattern := range patterns {
		if !recursive {
			pattern = strings.ReplaceAll(pattern, "**", "*")
		}

		full := pattern
		if !filepath.IsAbs(pattern) {
			full = filepath.Join(root, pattern)
		}

		found, err := doublestar.FilepathGlob(full)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid glob pattern %q", pattern)
		}

		for _, path := range found {
			matches[path] = true
		}
	}

	return matches, nil
}
