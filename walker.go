package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
)

// defaultExcludeNames are skipped unless --no-default-excludes is set:
// version-control metadata, build artifacts and dependency directories.
var defaultExcludeNames = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"target":       {},
	"node_modules": {},
	"__pycache__":  {},
}

// walkEntry is one candidate yielded by the walker: path, depth relative to
// the root (root itself is depth 0) and whether it is a directory.
type walkEntry struct {
	path  string
	depth int
	isDir bool
}

// walker traverses one root sequentially, in sorted directory order, so that
// record order is deterministic. Per-entry failures go to onErr and never
// stop the walk; only a non-nil return from visit aborts it.
type walker struct {
	cfg    *AppConfig
	root   string
	ignore gitignore.IgnoreMatcher // nil without a root .gitignore or with default excludes off
	visit  func(walkEntry) error
	onErr  func(path string, err error)
}

func newWalker(root string, cfg *AppConfig, visit func(walkEntry) error, onErr func(string, error)) *walker {
	w := &walker{cfg: cfg, root: root, visit: visit, onErr: onErr}
	if !cfg.NoDefaultExcludes {
		gi := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gi); err == nil {
			matcher, err := gitignore.NewGitIgnore(gi)
			if err != nil {
				onErr(gi, err)
			} else {
				w.ignore = matcher
			}
		}
	}
	return w
}

// run emits the root itself at depth 0, then descends.
func (w *walker) run() error {
	if err := w.visit(walkEntry{path: w.root, depth: 0, isDir: true}); err != nil {
		return err
	}
	return w.walkDir(w.root, 1)
}

func (w *walker) walkDir(dir string, depth int) error {
	if w.cfg.Depth >= 0 && depth > w.cfg.Depth {
		return nil
	}

	entries, err := os.ReadDir(dir) // sorted by name
	if err != nil {
		w.onErr(dir, err)
		return nil
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if !w.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			if !w.cfg.FollowSymlinks {
				// Not followed: yielded as a plain file entry.
				isDir = false
			} else if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			} else {
				w.onErr(path, err)
				continue
			}
		}

		if w.skip(path, name, isDir) {
			continue
		}

		if err := w.visit(walkEntry{path: path, depth: depth, isDir: isDir}); err != nil {
			return err
		}
		if isDir {
			if err := w.walkDir(path, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// skip applies the traversal-level excludes, in order: default ignore names,
// the root .gitignore, then user exclude globs matched against both the base
// name and the root-relative path. Custom excludes can only remove entries,
// never re-include an ignored one.
func (w *walker) skip(path, name string, isDir bool) bool {
	if !w.cfg.NoDefaultExcludes {
		if _, bad := defaultExcludeNames[name]; bad {
			return true
		}
		if w.ignore != nil {
			if rel, err := filepath.Rel(w.root, path); err == nil && w.ignore.Match(rel, isDir) {
				return true
			}
		}
	}
	for _, pattern := range w.cfg.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if rel, err := filepath.Rel(w.root, path); err == nil {
			if ok, _ := filepath.Match(pattern, rel); ok {
				return true
			}
		}
	}
	return false
}
