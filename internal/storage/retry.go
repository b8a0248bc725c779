package storage

import (
	"context"
	"io"

	"submithub/internal/retry"
)

// retryingStorage wraps a Storage with a bounded retry policy on List, the
// only idempotent bulk read. Put and Share are passed through untouched:
// retrying a Put can create duplicate blobs, and a failed Share is already a
// failed upload by contract.
type retryingStorage struct {
	next   Storage
	policy retry.Policy
}

// NewRetrying decorates store so listings survive transient blob-store
// outages.
func NewRetrying(store Storage, policy retry.Policy) Storage {
	return &retryingStorage{next: store, policy: policy}
}

func (s *retryingStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	return retry.Do(ctx, s.policy, func() ([]ObjectInfo, error) {
		return s.next.List(ctx)
	})
}

func (s *retryingStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	return s.next.Put(ctx, key, r, opt)
}

func (s *retryingStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	return s.next.Get(ctx, key)
}

func (s *retryingStorage) Share(ctx context.Context, key string) (string, error) {
	return s.next.Share(ctx, key)
}
