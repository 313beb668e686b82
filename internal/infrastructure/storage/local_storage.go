package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dropzone/internal/domain/repositories"
)

// LocalStorage keeps blobs on the local filesystem under BasePath. Keys
// use forward slashes and map to relative paths. Writes go to a temp file
// and are renamed into place, so readers never see a partial object.
type LocalStorage struct {
	BasePath string
}

func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{BasePath: basePath}
}

func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.BasePath, filepath.FromSlash(key))
}

func (l *LocalStorage) Put(ctx context.Context, key string, r io.Reader) error {
	finalPath := l.path(key)
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return fmt.Errorf("could not create blob directory: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", finalPath, time.Now().UnixNano())
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}

	var closed bool
	defer func() {
		if !closed {
			tmpFile.Close()
		}
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			// leftover temp files are swept with the rest of the prefix
			_ = err
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return fmt.Errorf("could not write blob: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("could not sync blob: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("could not close blob: %w", err)
	}
	closed = true

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("could not publish blob: %w", err)
	}
	return nil
}

func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, key)
		}
		return nil, err
	}
	return f, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *LocalStorage) DeletePrefix(ctx context.Context, prefix string) error {
	dir := l.path(strings.TrimSuffix(prefix, "/"))
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.RemoveAll(dir)
	}

	matches, err := filepath.Glob(dir + "*")
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.RemoveAll(m); err != nil {
			return err
		}
	}
	return nil
}
