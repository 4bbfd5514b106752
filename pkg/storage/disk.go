// Package storage stores uploaded images on a pluggable disk.
//
// Three drivers are available:
//   - "local"  local filesystem under STORAGE_LOCAL_ROOT (default "uploads")
//   - "s3"     AWS S3 or any S3-compatible endpoint, when S3_BUCKET is set
//   - "minio"  MinIO through its native client, when MINIO_ENDPOINT is set
//
// Boot once at startup and hand the default disk to whoever needs it:
//
//	if err := storage.Connect(ctx); err != nil { ... }
//	images := storage.NewImages(storage.Default())
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned by GetStream when the file does not exist.
var ErrNotFound = errors.New("storage: file not found")

// ErrInvalidPath rejects keys that would escape the disk root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is the driver interface. Paths are slash-separated keys.
type Disk interface {
	// Put writes content to path, replacing any existing file.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error
}

// cleanKey normalises a key and rejects traversal.
func cleanKey(p string) (string, error) {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	if p == "" || p == "." || strings.HasPrefix(p, "..") {
		return "", ErrInvalidPath
	}
	return p, nil
}
