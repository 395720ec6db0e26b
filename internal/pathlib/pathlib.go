package pathlib

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/indigo-web/staticd/http/status"
)

var (
	ErrInvalidPath = status.NewError(status.Forbidden, "invalid path characters detected")
	ErrForbidden   = status.NewError(status.Forbidden, "path escapes root")
	ErrNotFound    = status.NewError(status.NotFound, "not found")
	ErrOversized   = status.NewError(status.InternalServerError, "file is too large")
)

// Resolver turns request paths into filesystem paths confined to the root directory.
// It holds no mutable state, so is safe for concurrent use.
type Resolver struct {
	root      string
	index     string
	maxSize   int64
	rootSlash string
}

// New canonicalizes the root and returns a resolver bound to it. The root must exist.
// maxSize limits the size of resolved files, a negative value disables the limit.
func New(root, index string, maxSize int64) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		root:      canonical,
		index:     index,
		maxSize:   maxSize,
		rootSlash: withTrailingSep(canonical),
	}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the canonical path of the file the request path refers to. Directories
// are resolved into their index file, without any deeper lookups.
func (r *Resolver) Resolve(path string) (string, error) {
	// checked against the raw input, before anything is cleaned
	if !isSafe(path) {
		return "", ErrInvalidPath
	}

	path = strings.TrimPrefix(path, "/")
	if len(path) == 0 {
		path = r.index
	}

	resolved, info, err := r.canonicalize(filepath.Join(r.root, filepath.FromSlash(path)))
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		resolved, info, err = r.canonicalize(filepath.Join(resolved, r.index))
		if err != nil {
			return "", err
		}
	}

	if r.maxSize >= 0 && info.Mode().IsRegular() && info.Size() > r.maxSize {
		return "", ErrOversized
	}

	return resolved, nil
}

func (r *Resolver) canonicalize(path string) (string, fs.FileInfo, error) {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", nil, ErrNotFound
	}

	if !r.contains(canonical) {
		return "", nil, ErrForbidden
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return "", nil, ErrNotFound
	}

	return canonical, info, nil
}

// contains reports whether the path is the root itself or lies within it. The comparison
// goes by whole segments, so /srv/www-evil isn't contained in /srv/www.
func (r *Resolver) contains(path string) bool {
	return path == r.root || strings.HasPrefix(path, r.rootSlash)
}

// isSafe checks for path traversal and separator confusion: double dots, double slashes
// and backslashes.
func isSafe(path string) bool {
	return !strings.Contains(path, "..") &&
		!strings.Contains(path, "//") &&
		strings.IndexByte(path, '\\') == -1
}

func withTrailingSep(path string) string {
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}

	return path + string(filepath.Separator)
}
