package repository

import (
	"context"

	"submithub/internal/model"
)

// RecordRepository is the uniform interface over the external tabular
// metadata store. One row per submission, fixed column order
// (submitter_name, file_name, submitted_at, blob_url, route_target).
// No business logic here — strictly persistence operations.
type RecordRepository interface {
	// ReadAll returns every well-formed metadata row. Malformed rows (missing
	// file name) are skipped rather than failing the whole read.
	ReadAll(ctx context.Context) ([]model.RecordRow, error)

	// Append adds one row. Failure must surface to the caller so the
	// orchestrator can decide how to proceed; the row is never partially
	// written.
	Append(ctx context.Context, row model.RecordRow) error
}
