// Package storage provides the binary object store behind uploads and
// corrected outputs, plus time-limited scoped URLs for client-side transfer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotFound = errors.New("object not found")

// Logical containers. Uploads are write-then-read-once, outputs write-once
// read-many.
const (
	ContainerUploads = "uploads"
	ContainerOutputs = "outputs"
)

type Store interface {
	Put(ctx context.Context, container, key string, data []byte, contentType string) error
	Get(ctx context.Context, container, key string) ([]byte, error)
	Exists(ctx context.Context, container, key string) (bool, error)
}

// LocalFS stores objects under Root/<container>/<key>. Content types are not
// persisted; the serving layer derives them from the request.
type LocalFS struct {
	Root string
}

func (l LocalFS) path(container, key string) (string, error) {
	clean := filepath.Join(filepath.Clean(container), filepath.Clean(key))
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.Root, clean), nil
}

func (l LocalFS) Put(_ context.Context, container, key string, data []byte, _ string) error {
	abs, err := l.path(container, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, data, 0o644)
}

func (l LocalFS) Get(_ context.Context, container, key string) ([]byte, error) {
	abs, err := l.path(container, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, container, key)
		}
		return nil, err
	}
	return data, nil
}

func (l LocalFS) Exists(_ context.Context, container, key string) (bool, error) {
	abs, err := l.path(container, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
