// Package storage keeps uploaded patient files outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"clinic-management-api/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob opened for reading.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Storage is implemented by the local disk and S3 backends. Open returns
// either an Object to stream or, for backends that serve files themselves,
// a URL the client should be redirected to.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Open(ctx context.Context, key string) (*Object, string, error)
	Delete(ctx context.Context, key string) error
}

func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "s3":
		return NewS3Storage(cfg.S3)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// NewKey builds {prefix}/{patientID}/{uuid}{ext}.
func NewKey(prefix string, patientID int, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(prefix, fmt.Sprint(patientID), uuid.NewString()+ext)
}
