// Package storage holds the object store backends uploads are written to.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the object storage collaborator
type ObjectStore interface {
	// Method Put writes the content of "r" to "path" inside "bucket".
	//
	// "contentType" parameter is stored alongside the object where the backend supports it.
	//
	// If some error occurs during write, the error will be returned together with "0" value.
	Put(ctx context.Context, bucket, path string, r io.Reader, contentType string) (int64, error)
	// Method PublicURL returns the URL an object is served from.
	PublicURL(bucket, path string) string
	// Method Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, path string) error
}

// Object describes a stored object
type Object struct {
	Bucket  string
	Path    string
	Size    int64
	ModTime time.Time
}

// Lister is implemented by stores able to enumerate their objects
type Lister interface {
	List(ctx context.Context, bucket string) ([]Object, error)
}
