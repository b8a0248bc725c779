package model

import "time"

// Sentinel values used when one of the external stores has no record for a
// file. They are stored and displayed verbatim, never persisted back.
const (
	UnknownSubmitter = "Unknown Student"
	UnknownTime      = "Unknown Time"
)

// TimeLayout is the wall-clock format written to the metadata store.
// The store is string-typed, which is also what makes the sentinels
// representable in the same column.
const TimeLayout = "2006-01-02 15:04:05"

// Submission is the canonical merged view of one logical file, keyed by
// FileName. It combines the blob store entry (existence, locator, mime type)
// with the metadata row (provenance, routing).
// This is a pure domain model with no database-specific dependencies or tags.
type Submission struct {
	SubmitterName string `json:"submitter_name"`
	FileName      string `json:"file_name"`
	SubmittedAt   string `json:"submitted_at"`
	BlobURL       string `json:"blob_url"`
	BlobID        string `json:"blob_id"`
	MimeType      string `json:"mime_type,omitempty"`
	RouteTarget   string `json:"route_target,omitempty"`

	// MissingBlob marks a metadata row whose payload is absent from the blob
	// store. Such records are shown in listings but never block a resubmit.
	MissingBlob bool `json:"missing_blob,omitempty"`
}

// Complete reports whether both stores know this submission: the payload
// exists and the provenance is not a sentinel.
func (s Submission) Complete() bool {
	return s.BlobURL != "" && s.BlobID != "" && !s.MissingBlob &&
		s.SubmitterName != UnknownSubmitter
}

// RecordRow is one raw metadata-store row in its fixed column order
// (submitter_name, file_name, submitted_at, blob_url, route_target).
type RecordRow struct {
	SubmitterName string
	FileName      string
	SubmittedAt   string
	BlobURL       string
	RouteTarget   string
}

// RoutingTarget is an entity a submission can be directed to, registered by
// an admin. Targets live for the process lifetime; there is no deletion.
type RoutingTarget struct {
	ID           string    `json:"target_id"`
	DisplayName  string    `json:"display_name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// PendingSelection holds a payload that has arrived but whose routing target
// has not been chosen yet. At most one exists per submitter; a newer upload
// replaces it.
type PendingSelection struct {
	SubmitterID   string
	SubmitterName string
	FileName      string
	MimeType      string
	Payload       []byte
	CreatedAt     time.Time
}
