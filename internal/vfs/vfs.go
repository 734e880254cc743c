// Package vfs resolves asset paths against a single resources directory.
package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"tileforge/internal/core"
)

// FS reads files relative to an absolute root directory.
type FS struct {
	root string
}

// New opens a file system rooted at root. The root must be an absolute path
// to an existing directory.
func New(root string) (*FS, error) {
	if !filepath.IsAbs(root) {
		return nil, core.Errorf(core.KindConfig, "vfs.new", "root path is not absolute: %s", root)
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.Errorf(core.KindConfig, "vfs.new", "root path does not exist: %s", root)
		}
		return nil, core.Wrap(core.KindConfig, "vfs.new", err, "stat root path "+root)
	}
	if !info.IsDir() {
		return nil, core.Errorf(core.KindConfig, "vfs.new", "root path is not a directory: %s", root)
	}
	return &FS{root: filepath.Clean(root)}, nil
}

// DefaultRoot returns the resources directory next to the running executable.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", core.Wrap(core.KindConfig, "vfs.root", err, "failed to find executable path")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), "resources"), nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string { return f.root }

// ReadFile returns the contents of the file at the slash-separated path rel.
func (f *FS) ReadFile(rel string) ([]byte, error) {
	local := filepath.FromSlash(rel)
	if filepath.IsAbs(local) || !filepath.IsLocal(local) {
		return nil, core.Errorf(core.KindConfig, "vfs.read", "path must be relative to the resources root: %s", rel)
	}

	root, err := os.OpenRoot(f.root)
	if err != nil {
		return nil, core.Wrap(core.KindConfig, "vfs.read", err, "open resources root "+f.root)
	}
	defer root.Close()

	file, err := root.Open(local)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.Errorf(core.KindAsset, "vfs.read", "file not found in VFS: %s", rel)
		}
		return nil, core.Wrap(core.KindAsset, "vfs.read", err, "open "+rel)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, core.Wrap(core.KindAsset, "vfs.read", err, "stat "+rel)
	}
	if info.IsDir() {
		return nil, core.Errorf(core.KindAsset, "vfs.read", "path is a directory, not a file: %s", rel)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, core.Wrap(core.KindAsset, "vfs.read", err, "read "+rel)
	}
	return data, nil
}

// ReadTextFile returns the contents of rel as a string.
func (f *FS) ReadTextFile(rel string) (string, error) {
	data, err := f.ReadFile(rel)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
