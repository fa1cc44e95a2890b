// Package assets publishes the static report assets (stylesheets and scripts)
// to a target filesystem so a standalone report can link them locally.
package assets

import (
	"errors"
	"fmt"
	"path"

	"github.com/spf13/afero"
)

// FileSystem is the target of an asset upload.
// Mkdirs must succeed when the directory already exists.
type FileSystem interface {
	Mkdirs(dir string) error
	Put(name string, data []byte, overwrite bool) error
}

// ErrExists is returned by Put when the target exists and overwrite is false.
var ErrExists = errors.New("file already exists")

// Local is a FileSystem backed by an afero filesystem.
type Local struct {
	fs afero.Fs
}

// NewLocal roots a FileSystem at dir on the OS filesystem. Absolute asset
// paths such as /FileStore/x are resolved below dir.
func NewLocal(dir string) *Local {
	return &Local{fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// NewLocalFs wraps an existing afero filesystem (e.g. afero.NewMemMapFs in tests).
func NewLocalFs(fs afero.Fs) *Local { return &Local{fs: fs} }

func (l *Local) Mkdirs(dir string) error {
	if err := l.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdirs %s: %w", dir, err)
	}
	return nil
}

func (l *Local) Put(name string, data []byte, overwrite bool) error {
	if !overwrite {
		if ok, err := afero.Exists(l.fs, name); err != nil {
			return fmt.Errorf("stat %s: %w", name, err)
		} else if ok {
			return fmt.Errorf("put %s: %w", name, ErrExists)
		}
	}
	if err := l.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("mkdirs %s: %w", path.Dir(name), err)
	}
	if err := afero.WriteFile(l.fs, name, data, 0o644); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name exists on the filesystem.
func (l *Local) Exists(name string) bool {
	ok, _ := afero.Exists(l.fs, name)
	return ok
}
