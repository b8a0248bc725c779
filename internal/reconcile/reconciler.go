// Package reconcile merges the blob-store listing and the metadata-store rows
// into one canonical submission record per logical file. The blob listing is
// authoritative for "this file exists"; the metadata row is authoritative for
// provenance and routing, since it is written at submit time.
package reconcile

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"submithub/internal/model"
	"submithub/internal/repository"
	"submithub/internal/storage"
)

// Merge produces the canonical submission mapping from current snapshots of
// both stores. It is total and side-effect free: blobs without a metadata row
// get sentinel provenance, metadata rows without a blob are retained with
// MissingBlob set, and on conflicting fields the metadata row wins.
func Merge(blobs []storage.ObjectInfo, rows []model.RecordRow) map[string]model.Submission {
	byName := make(map[string]model.RecordRow, len(rows))
	for _, row := range rows {
		byName[row.FileName] = row
	}

	out := make(map[string]model.Submission, len(blobs))
	for _, b := range blobs {
		// BlobURL stays empty for rows the metadata store doesn't know;
		// listings refresh share links per blob on demand.
		sub := model.Submission{
			SubmitterName: model.UnknownSubmitter,
			FileName:      b.Name,
			SubmittedAt:   model.UnknownTime,
			BlobID:        b.Key,
			MimeType:      b.ContentType,
		}
		if row, ok := byName[b.Name]; ok {
			sub.SubmitterName = nonEmpty(row.SubmitterName, model.UnknownSubmitter)
			sub.SubmittedAt = nonEmpty(row.SubmittedAt, model.UnknownTime)
			sub.RouteTarget = row.RouteTarget
			if row.BlobURL != "" {
				sub.BlobURL = row.BlobURL
			}
			delete(byName, b.Name)
		}
		out[b.Name] = sub
	}

	// Rows whose payload never made it to (or vanished from) the blob store.
	for name, row := range byName {
		out[name] = model.Submission{
			SubmitterName: nonEmpty(row.SubmitterName, model.UnknownSubmitter),
			FileName:      name,
			SubmittedAt:   nonEmpty(row.SubmittedAt, model.UnknownTime),
			BlobURL:       row.BlobURL,
			RouteTarget:   row.RouteTarget,
			MissingBlob:   true,
		}
	}
	return out
}

func nonEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Reconciler pulls fresh snapshots from both adapters and merges them.
type Reconciler struct {
	store   storage.Storage
	records repository.RecordRepository
	loc     *time.Location
}

// New constructs a Reconciler over the two store adapters.
func New(store storage.Storage, records repository.RecordRepository, loc *time.Location) *Reconciler {
	if loc == nil {
		loc = time.UTC
	}
	return &Reconciler{store: store, records: records, loc: loc}
}

// Snapshot reads both stores and returns the merged mapping. A failed read on
// either side degrades to an empty snapshot for that side rather than failing:
// reconciliation must stay available even when one store is down, so a
// metadata outage yields sentinel provenance and a blob outage yields
// missing-file records.
func (r *Reconciler) Snapshot(ctx context.Context) map[string]model.Submission {
	blobs, err := r.store.List(ctx)
	if err != nil {
		r.logDegraded("blob_list_failed", err)
		blobs = nil
	}

	rows, err := r.records.ReadAll(ctx)
	if err != nil {
		r.logDegraded("record_read_failed", err)
		rows = nil
	}

	return Merge(blobs, rows)
}

func (r *Reconciler) logDegraded(event string, err error) {
	b, mErr := json.Marshal(map[string]any{
		"ts":            time.Now().In(r.loc).Format(time.RFC3339Nano),
		"level":         "warn",
		"component":     "reconciler",
		"event":         event,
		"error_message": err.Error(),
	})
	if mErr != nil {
		log.Printf("reconciler degraded read (%s): %v", event, err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
