package service

import "errors"

// User-facing error taxonomy. Nothing here is fatal to the process; every
// failure is scoped to the request that triggered it.
var (
	ErrReaderNil           = errors.New("reader is nil")
	ErrFileNameRequired    = errors.New("file name is required")
	ErrDuplicateSubmission = errors.New("a submission with this file name already exists")
	ErrUploadFailed        = errors.New("upload failed")
	ErrNoRoutingTargets    = errors.New("no routing targets configured, contact an admin")
	ErrExpiredSelection    = errors.New("selection expired, please resubmit")
	ErrUnknownTarget       = errors.New("unknown routing target")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("submission not found")
	ErrTargetRequired      = errors.New("target id and display name are required")
)

// maxCauseLen bounds the causing error text echoed back to submitters so
// internal details don't leak in full.
const maxCauseLen = 200

func truncateErr(err error) string {
	s := err.Error()
	if len(s) > maxCauseLen {
		return s[:maxCauseLen]
	}
	return s
}
