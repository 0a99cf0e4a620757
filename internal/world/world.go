// Package world provides access to the mutable runtime environment the
// bootstrap pipeline prepares and enumerates: environment variables, the
// load path, on-demand package requires and the live object table.
package world

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	m "gooze.dev/pkg/mutenv/internal/model"
)

// World is the impure substrate consumed by the bootstrap pipeline. The
// pipeline writes to it exactly once, during the infect phase, and reads
// from it during scope discovery.
type World interface {
	// EnumerateObjects returns every live object of the given kind. The
	// returned order carries no meaning; callers needing determinism must
	// sort.
	EnumerateObjects(kind m.ObjectKind) []m.Object

	// SetEnv applies one environment variable override to the process.
	SetEnv(key, value string) error

	// AppendLoadPath adds a directory to the ordered load path.
	AppendLoadPath(dir m.Path)

	// Require loads the named package from the load path, registering its
	// objects so a later enumeration sees them.
	Require(name string) error
}

// LocalWorld scans Go source trees on the load path and exposes their
// packages, functions and methods as objects.
type LocalWorld struct {
	loadPath []m.Path
	required []m.Object
	scanners int
}

// NewLocalWorld constructs a LocalWorld with the given initial load path.
func NewLocalWorld(loadPath ...m.Path) *LocalWorld {
	return &LocalWorld{
		loadPath: append([]m.Path(nil), loadPath...),
		scanners: 4,
	}
}

// SetEnv applies the override to the process environment.
func (w *LocalWorld) SetEnv(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty environment variable name")
	}

	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	slog.Debug("environment variable applied", "key", key)

	return nil
}

// AppendLoadPath adds dir to the load path unless it is already present.
func (w *LocalWorld) AppendLoadPath(dir m.Path) {
	for _, existing := range w.loadPath {
		if existing == dir {
			return
		}
	}

	w.loadPath = append(w.loadPath, dir)
	slog.Debug("load path extended", "dir", string(dir))
}

// LoadPath returns a copy of the current load path, in order.
func (w *LocalWorld) LoadPath() []m.Path {
	return append([]m.Path(nil), w.loadPath...)
}

// Require resolves name to a package directory, first as a path in its own
// right and then against each load path entry, and registers the objects of
// the first match. Required objects survive into every later enumeration,
// which is why environment preparation must run before scope discovery.
func (w *LocalWorld) Require(name string) error {
	candidates := []string{filepath.FromSlash(name)}
	for _, root := range w.loadPath {
		candidates = append(candidates, filepath.Join(string(root), filepath.FromSlash(name)))
	}

	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		objects, err := scanDir(dir)
		if err != nil {
			return fmt.Errorf("require %s: %w", name, err)
		}

		w.required = append(w.required, objects...)
		slog.Debug("required package", "name", name, "objects", len(objects))

		return nil
	}

	return fmt.Errorf("require %s: not found on load path", name)
}

// EnumerateObjects scans every load path root and merges in previously
// required objects. Roots are scanned concurrently; the result is the
// concatenation in root order, deduplicated by described identity.
func (w *LocalWorld) EnumerateObjects(kind m.ObjectKind) []m.Object {
	perRoot := make([][]m.Object, len(w.loadPath))

	var group errgroup.Group
	group.SetLimit(w.scanners)

	for i, root := range w.loadPath {
		i, root := i, root
		group.Go(func() error {
			objects, err := scanTree(string(root))
			if err != nil {
				// A broken root is skipped, not fatal: enumeration is
				// best-effort over whatever the load path reaches.
				slog.Warn("load path root skipped", "root", string(root), "error", err)
				return nil
			}

			perRoot[i] = objects

			return nil
		})
	}

	_ = group.Wait()

	seen := make(map[string]bool)

	var result []m.Object

	appendObject := func(obj m.Object) {
		if obj.Kind() != kind || seen[obj.Describe()] {
			return
		}

		seen[obj.Describe()] = true
		result = append(result, obj)
	}

	for _, objects := range perRoot {
		for _, obj := range objects {
			appendObject(obj)
		}
	}

	for _, obj := range w.required {
		appendObject(obj)
	}

	return result
}

// scanTree walks root recursively and scans every directory containing Go
// files. Hidden and underscore-prefixed directories are skipped.
func scanTree(root string) ([]m.Object, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	var dirs []string

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		base := filepath.Base(path)
		if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
			return filepath.SkipDir
		}

		dirs = append(dirs, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(dirs)

	var objects []m.Object

	for _, dir := range dirs {
		dirObjects, err := scanDir(dir)
		if err != nil {
			return nil, err
		}

		objects = append(objects, dirObjects...)
	}

	return objects, nil
}
