package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"submithub/internal/cache"
	"submithub/internal/model"
	"submithub/internal/repository"
	"submithub/internal/storage"
)

// Requester roles accepted by List. Role checks are handed to the engine by
// the caller; the engine only enforces them.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// ListResult is the service-level DTO for a role-filtered listing.
// Shown counts the records whose payload is present in the blob store.
type ListResult struct {
	Items []model.Submission `json:"data"`
	Shown int                `json:"shown"`
	Total int                `json:"total"`
}

// Snapshotter produces the canonical merged view of both external stores.
type Snapshotter interface {
	Snapshot(ctx context.Context) map[string]model.Submission
}

// SubmissionService defines the use cases of the reconciliation and routing
// engine.
type SubmissionService interface {
	// Submit accepts a payload and parks it until a routing target is chosen.
	// It returns the available targets for the caller to render. A payload
	// whose file name already names a complete submission is rejected with
	// ErrDuplicateSubmission before any store write.
	Submit(ctx context.Context, r io.Reader, fileName, submitterID, submitterName, contentType string) ([]model.RoutingTarget, error)

	// SelectTarget binds a pending payload to a routing target and runs the
	// commit sequence: upload, share, metadata append, cache update. Whatever
	// the outcome, the submitter's pending state is cleared.
	SelectTarget(ctx context.Context, submitterID, targetID string) (*model.Submission, error)

	// CancelSelection drops a pending payload, reporting whether one existed.
	CancelSelection(submitterID string) bool

	// RegisterTarget adds a routing target. Only configured admins may call it;
	// re-registering an id updates its display name.
	RegisterTarget(ctx context.Context, requestedBy, targetID, displayName string) (*model.RoutingTarget, error)

	// Targets lists the registered routing targets.
	Targets() []model.RoutingTarget

	// List rebuilds the cache from both stores and returns the records the
	// requester may see: admins all, teachers only those routed to them.
	List(ctx context.Context, requesterID, requesterRole string) (*ListResult, error)

	// Content streams one submission's payload.
	Content(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error)

	// Rebuild refreshes the cache once and returns the record count. Used to
	// prime the cache at startup; failures inside degrade, never propagate.
	Rebuild(ctx context.Context) int

	// Role classifies an identity as admin, teacher, or student.
	Role(id string) string

	// Close stops background cleanup.
	Close()
}

// Options carry the engine tunables into the service.
type Options struct {
	AdminIDs   []string
	BlobPrefix string
	PendingTTL time.Duration
	ListPace   time.Duration
	Loc        *time.Location
}

type submissionService struct {
	store    storage.Storage
	records  repository.RecordRepository
	snap     Snapshotter
	subs     *cache.SubmissionCache
	targets  *cache.TargetRegistry
	pending  *pendingSelections
	admins   map[string]bool
	prefix   string
	listPace time.Duration
	loc      *time.Location
}

// NewSubmissionService constructs the engine over the given adapters and
// shared state, and starts pending-entry cleanup.
func NewSubmissionService(
	store storage.Storage,
	records repository.RecordRepository,
	snap Snapshotter,
	subs *cache.SubmissionCache,
	targets *cache.TargetRegistry,
	opts Options,
) SubmissionService {
	admins := make(map[string]bool, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = true
	}
	loc := opts.Loc
	if loc == nil {
		loc = time.UTC
	}

	s := &submissionService{
		store:    store,
		records:  records,
		snap:     snap,
		subs:     subs,
		targets:  targets,
		pending:  newPendingSelections(opts.PendingTTL),
		admins:   admins,
		prefix:   opts.BlobPrefix,
		listPace: opts.ListPace,
		loc:      loc,
	}
	go s.pending.janitor(s.pending.ttl)
	return s
}

func (s *submissionService) Submit(ctx context.Context, r io.Reader, fileName, submitterID, submitterName, contentType string) ([]model.RoutingTarget, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if fileName == "" {
		return nil, ErrFileNameRequired
	}
	if s.targets.Len() == 0 {
		return nil, ErrNoRoutingTargets
	}
	if sub, ok := s.subs.Get(fileName); ok && sub.Complete() {
		return nil, ErrDuplicateSubmission
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// Last write wins: a second upload replaces any pending entry.
	s.pending.Put(model.PendingSelection{
		SubmitterID:   submitterID,
		SubmitterName: submitterName,
		FileName:      fileName,
		MimeType:      contentType,
		Payload:       payload,
	})

	return s.targets.List(), nil
}

func (s *submissionService) SelectTarget(ctx context.Context, submitterID, targetID string) (*model.Submission, error) {
	sel, ok := s.pending.Take(submitterID)
	if !ok {
		return nil, ErrExpiredSelection
	}
	target, ok := s.targets.Get(targetID)
	if !ok {
		return nil, ErrUnknownTarget
	}
	if sub, ok := s.subs.Get(sel.FileName); ok && sub.Complete() {
		return nil, ErrDuplicateSubmission
	}

	// Upload, then make shareable. Neither step is retried: a retried put can
	// create duplicate blobs, and a resubmit is safe thanks to the dedup check.
	key := s.prefix + sel.FileName
	info, err := s.store.Put(ctx, key, bytes.NewReader(sel.Payload), storage.PutObjectOptions{
		Size:        int64(len(sel.Payload)),
		ContentType: sel.MimeType,
		Metadata:    map[string]string{"submitter": sel.SubmitterName},
	})
	if err != nil {
		return nil, wrapUpload(err)
	}
	url, err := s.store.Share(ctx, key)
	if err != nil {
		// Not shareable means not submitted; no metadata row is written.
		return nil, wrapUpload(err)
	}

	submittedAt := time.Now().In(s.loc).Format(model.TimeLayout)
	row := model.RecordRow{
		SubmitterName: sel.SubmitterName,
		FileName:      sel.FileName,
		SubmittedAt:   submittedAt,
		BlobURL:       url,
		RouteTarget:   target.ID,
	}
	if err := s.records.Append(ctx, row); err != nil {
		// The blob exists and the submitter gets their confirmation; the
		// missing row is reconciled on the next rebuild.
		s.logEvent("warn", "metadata_append_failed", map[string]any{
			"file_name":     sel.FileName,
			"error_message": truncateErr(err),
		})
	}

	sub := model.Submission{
		SubmitterName: sel.SubmitterName,
		FileName:      sel.FileName,
		SubmittedAt:   submittedAt,
		BlobURL:       url,
		BlobID:        info.Key,
		MimeType:      sel.MimeType,
		RouteTarget:   target.ID,
	}
	s.subs.PutLocal(sub)
	return &sub, nil
}

func (s *submissionService) CancelSelection(submitterID string) bool {
	return s.pending.Cancel(submitterID)
}

func (s *submissionService) RegisterTarget(ctx context.Context, requestedBy, targetID, displayName string) (*model.RoutingTarget, error) {
	if !s.admins[requestedBy] {
		return nil, ErrPermissionDenied
	}
	if targetID == "" || displayName == "" {
		return nil, ErrTargetRequired
	}
	t := s.targets.Register(model.RoutingTarget{ID: targetID, DisplayName: displayName})
	return &t, nil
}

func (s *submissionService) Targets() []model.RoutingTarget {
	return s.targets.List()
}

func (s *submissionService) List(ctx context.Context, requesterID, requesterRole string) (*ListResult, error) {
	if requesterRole != RoleAdmin && requesterRole != RoleTeacher {
		return nil, ErrPermissionDenied
	}

	s.subs.Replace(s.snap.Snapshot(ctx))

	items := make([]model.Submission, 0)
	for _, sub := range s.subs.All() {
		if requesterRole == RoleTeacher && !s.admins[requesterID] && sub.RouteTarget != requesterID {
			continue
		}
		items = append(items, sub)
	}

	shown := 0
	for i := range items {
		if items[i].MissingBlob || items[i].BlobID == "" {
			continue
		}
		if shown > 0 {
			if err := s.pace(ctx); err != nil {
				return nil, err
			}
		}
		// Refresh the share link; on failure keep whatever URL the metadata
		// store had.
		if url, err := s.store.Share(ctx, items[i].BlobID); err == nil {
			items[i].BlobURL = url
			s.subs.PutLocal(items[i])
		}
		shown++
	}

	return &ListResult{Items: items, Shown: shown, Total: len(items)}, nil
}

func (s *submissionService) Content(ctx context.Context, fileName string) (io.ReadCloser, storage.ObjectInfo, error) {
	sub, ok := s.subs.Get(fileName)
	if !ok {
		s.subs.Replace(s.snap.Snapshot(ctx))
		sub, ok = s.subs.Get(fileName)
	}
	if !ok || sub.MissingBlob || sub.BlobID == "" {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	return s.store.Get(ctx, sub.BlobID)
}

func (s *submissionService) Rebuild(ctx context.Context) int {
	s.subs.Replace(s.snap.Snapshot(ctx))
	return s.subs.Len()
}

func (s *submissionService) Role(id string) string {
	switch {
	case s.admins[id]:
		return RoleAdmin
	default:
		if _, ok := s.targets.Get(id); ok {
			return RoleTeacher
		}
		return RoleStudent
	}
}

func (s *submissionService) Close() {
	s.pending.close()
}

// pace waits the configured delay between successive per-blob share calls so
// listings don't hammer the blob store's rate limits.
func (s *submissionService) pace(ctx context.Context) error {
	if s.listPace <= 0 {
		return nil
	}
	t := time.NewTimer(s.listPace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func wrapUpload(cause error) error {
	return &uploadError{cause: cause}
}

// uploadError carries a bounded-length cause behind ErrUploadFailed.
type uploadError struct {
	cause error
}

func (e *uploadError) Error() string {
	return ErrUploadFailed.Error() + ": " + truncateErr(e.cause)
}

func (e *uploadError) Unwrap() error { return ErrUploadFailed }

func (s *submissionService) logEvent(level, event string, fields map[string]any) {
	entry := map[string]any{
		"ts":        time.Now().In(s.loc).Format(time.RFC3339Nano),
		"level":     level,
		"component": "submission_service",
		"event":     event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("%s: %v", event, fields)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
