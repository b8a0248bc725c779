package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains the blob-store abstraction over S3-compatible
// object stores (MinIO, AWS S3, etc.). Implementations must avoid local disk
// and rely on streaming I/O only.

// PutObjectOptions define optional parameters for uploading payloads.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes one blob in the configured container.
// Key is the backend-internal identifier; Name is the logical file name
// (Key with the container prefix stripped).
type ObjectInfo struct {
	Key          string
	Name         string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the uniform interface over the external blob store.
// A Put is not considered shareable until a Share for the same key has
// succeeded; callers treat a failed Share as a failed upload.
type Storage interface {
	// List enumerates all blobs in the configured container.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Put uploads a payload under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a payload as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Share returns a URL that can be used to download the blob without
	// credentials.
	Share(ctx context.Context, key string) (string, error)
}
