package repository

import (
	"context"

	"submithub/internal/model"
	"submithub/internal/retry"
)

// retryingRecordRepository wraps a RecordRepository with a bounded retry
// policy on ReadAll. Append is deliberately passed through: the caller owns
// the decision of what a failed append means.
type retryingRecordRepository struct {
	next   RecordRepository
	policy retry.Policy
}

// NewRetrying decorates repo so that idempotent reads survive transient
// metadata-store outages.
func NewRetrying(repo RecordRepository, policy retry.Policy) RecordRepository {
	return &retryingRecordRepository{next: repo, policy: policy}
}

func (r *retryingRecordRepository) ReadAll(ctx context.Context) ([]model.RecordRow, error) {
	return retry.Do(ctx, r.policy, func() ([]model.RecordRow, error) {
		return r.next.ReadAll(ctx)
	})
}

func (r *retryingRecordRepository) Append(ctx context.Context, row model.RecordRow) error {
	return r.next.Append(ctx, row)
}
