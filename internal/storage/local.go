package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// localStorage implements ObjectStore using the local filesystem.
// Buckets are top level directories under basePath.
type localStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath, baseURL string) *localStorage {
	return &localStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// generatePath generates the full file path of an object.
// The object path is cleaned as an absolute path first so it can never leave the bucket directory.
func (s *localStorage) generatePath(bucket, objectPath string) string {
	clean := path.Clean("/" + objectPath)
	return filepath.Join(s.basePath, bucket, filepath.FromSlash(clean))
}

// Put creates the object file and copies r into it
func (s *localStorage) Put(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fullPath := s.generatePath(bucket, objectPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	sw := NewSizeWriter()
	if _, err := io.Copy(io.MultiWriter(file, sw), r); err != nil {
		file.Close()
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}

	return sw.Size(), nil
}

// PublicURL returns the URL the media handler serves the object from
func (s *localStorage) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, strings.TrimLeft(path.Clean("/"+objectPath), "/"))
}

// Open opens an object for reading
func (s *localStorage) Open(bucket, objectPath string) (*os.File, error) {
	return os.Open(s.generatePath(bucket, objectPath))
}

// Delete removes an object file
func (s *localStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	err := os.Remove(s.generatePath(bucket, objectPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List walks the bucket directory and returns every regular file in it
func (s *localStorage) List(ctx context.Context, bucket string) ([]Object, error) {
	root := filepath.Join(s.basePath, bucket)

	var objects []Object
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return filepath.SkipDir
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		objects = append(objects, Object{
			Bucket:  bucket,
			Path:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket %s: %w", bucket, err)
	}

	return objects, nil
}
