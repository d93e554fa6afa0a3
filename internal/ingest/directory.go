// Package ingest discovers source documents: a one-shot recursive walk for
// batch runs and an fsnotify watcher for the inbox daemon.
package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Allowed extensions for discovery (lowercase, without '.').
var defaultExts = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// ListDocuments walks root and returns matching file paths in walk order.
// Hidden files and directories are skipped. Unreadable subtrees are
// skipped, not fatal: a bad entry never aborts discovery.
func ListDocuments(root string, allowedExts map[string]struct{}) ([]string, error) {
	if allowedExts == nil {
		allowedExts = defaultExts
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if matchesExt(path, allowedExts) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return paths, err
	}
	return paths, nil
}

func matchesExt(path string, exts map[string]struct{}) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, ok := exts[ext]
	return ok
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
