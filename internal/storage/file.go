package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileBackend stores archives in a local directory.
type FileBackend struct {
	root string
}

// NewFileBackend creates a backend rooted at dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{root: dir}
}

func (b *FileBackend) path(key string) string {
	if filepath.IsAbs(key) {
		return filepath.Clean(key)
	}
	return filepath.Join(b.root, filepath.FromSlash(key))
}

func (b *FileBackend) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, key)
	} else if err != nil {
		return nil, errors.Wrap(err, "read archive file")
	}
	return data, nil
}

// Upload writes data to a temporary file next to the target and renames it
// into place.
func (b *FileBackend) Upload(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := b.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "create archive directory")
	}

	f, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "write archive file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close archive file")
	}
	if err := os.Rename(f.Name(), dst); err != nil {
		return errors.Wrap(err, "rename archive file")
	}

	logrus.Debugf("stored %d bytes at %s", len(data), dst)
	return nil
}

func (b *FileBackend) Type() string {
	return TypeFile
}
