// Package storage fetches and stores save archives.
package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// MinArchiveSize is the size below which an archive cannot be valid.
const MinArchiveSize = 30

var (
	ErrTooSmall         = errors.New("storage: archive too small")
	ErrChecksumMismatch = errors.New("storage: checksum mismatch")
	ErrNotFound         = errors.New("storage: object not found")
)

// Type names of the supported backends.
const (
	TypeFile = "file"
	TypeS3   = "s3"
)

// Backend transfers archives to and from a storage location.
type Backend interface {
	// Fetch reads the object stored under key.
	Fetch(ctx context.Context, key string) ([]byte, error)
	// Upload stores data under key, replacing existing content.
	Upload(ctx context.Context, key string, data []byte) error
	// Type returns the backend type name.
	Type() string
}

// Checksum returns the hex encoded MD5 digest of data.
func Checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// Verify checks the size of an archive and compares its MD5 digest with
// the expected hex checksum, ignoring case.
func Verify(data []byte, md5hex string) error {
	if len(data) < MinArchiveSize {
		return errors.Wrapf(ErrTooSmall, "%d bytes", len(data))
	}
	if got := Checksum(data); !strings.EqualFold(got, md5hex) {
		return errors.Wrapf(ErrChecksumMismatch, "got %s, want %s", got, md5hex)
	}
	return nil
}

// Open creates a backend from a location. Locations of the form
// s3://bucket/prefix select an S3Backend configured from cfg, everything
// else is treated as a local directory.
func Open(location string, cfg *S3Config) (Backend, string, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewFileBackend("."), location, nil
	}

	rest := strings.TrimPrefix(location, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, "", errors.Errorf("storage: invalid S3 location %q, want s3://bucket/key", location)
	}

	var c S3Config
	if cfg != nil {
		c = *cfg
	}
	c.BucketName = bucket

	b, err := NewS3Backend(context.Background(), &c)
	if err != nil {
		return nil, "", err
	}
	return b, key, nil
}
