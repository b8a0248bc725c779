package postgres

import (
	"context"
	"database/sql"

	"submithub/internal/model"
	"submithub/internal/repository"
)

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

// ReadAll returns every metadata row in insertion order. Rows with a missing
// file name are skipped; the store is edited out-of-band and a bad row must
// not fail the whole read.
func (r *RecordPostgres) ReadAll(ctx context.Context) ([]model.RecordRow, error) {
	const q = `
		SELECT submitter_name, file_name, submitted_at, blob_url, route_target
		FROM submission_records
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RecordRow, 0)
	for rows.Next() {
		var submitter, fileName, submittedAt, blobURL, routeTarget sql.NullString
		if err := rows.Scan(&submitter, &fileName, &submittedAt, &blobURL, &routeTarget); err != nil {
			return nil, err
		}
		if !fileName.Valid || fileName.String == "" {
			continue
		}
		out = append(out, model.RecordRow{
			SubmitterName: submitter.String,
			FileName:      fileName.String,
			SubmittedAt:   submittedAt.String,
			BlobURL:       blobURL.String,
			RouteTarget:   routeTarget.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Append inserts one metadata row.
func (r *RecordPostgres) Append(ctx context.Context, row model.RecordRow) error {
	const q = `
		INSERT INTO submission_records (submitter_name, file_name, submitted_at, blob_url, route_target)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, q,
		row.SubmitterName,
		row.FileName,
		row.SubmittedAt,
		row.BlobURL,
		row.RouteTarget,
	)
	return err
}
