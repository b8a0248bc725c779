package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"submithub/internal/model"
	repoMocks "submithub/internal/repository/mocks"
	"submithub/internal/storage"
	storeMocks "submithub/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		blobs []storage.ObjectInfo
		rows  []model.RecordRow
		check func(t *testing.T, got map[string]model.Submission)
	}{
		{
			name:  "blob without metadata gets sentinel provenance",
			blobs: []storage.ObjectInfo{{Key: "submissions/a.pdf", Name: "a.pdf", ContentType: "application/pdf"}},
			rows:  nil,
			check: func(t *testing.T, got map[string]model.Submission) {
				assert.Len(t, got, 1)
				sub := got["a.pdf"]
				assert.Equal(t, model.UnknownSubmitter, sub.SubmitterName)
				assert.Equal(t, model.UnknownTime, sub.SubmittedAt)
				assert.Equal(t, "submissions/a.pdf", sub.BlobID)
				assert.Equal(t, "application/pdf", sub.MimeType)
				assert.False(t, sub.Complete())
			},
		},
		{
			name:  "matching row merges provenance and routing",
			blobs: []storage.ObjectInfo{{Key: "submissions/a.pdf", Name: "a.pdf"}},
			rows: []model.RecordRow{{
				SubmitterName: "Alice",
				FileName:      "a.pdf",
				SubmittedAt:   "2024-01-01 10:00:00",
				BlobURL:       "http://blobs/a.pdf",
				RouteTarget:   "T1",
			}},
			check: func(t *testing.T, got map[string]model.Submission) {
				sub := got["a.pdf"]
				assert.Equal(t, "Alice", sub.SubmitterName)
				assert.Equal(t, "2024-01-01 10:00:00", sub.SubmittedAt)
				assert.Equal(t, "T1", sub.RouteTarget)
				assert.Equal(t, "http://blobs/a.pdf", sub.BlobURL)
				assert.True(t, sub.Complete())
			},
		},
		{
			name:  "metadata row without blob retained as incomplete",
			blobs: nil,
			rows: []model.RecordRow{{
				SubmitterName: "Bob",
				FileName:      "b.pdf",
				SubmittedAt:   "2024-01-02 11:00:00",
				BlobURL:       "http://blobs/b.pdf",
				RouteTarget:   "T2",
			}},
			check: func(t *testing.T, got map[string]model.Submission) {
				sub := got["b.pdf"]
				assert.True(t, sub.MissingBlob)
				assert.Equal(t, "Bob", sub.SubmitterName)
				assert.False(t, sub.Complete())
			},
		},
		{
			name: "one record per distinct file name",
			blobs: []storage.ObjectInfo{
				{Key: "submissions/a.pdf", Name: "a.pdf"},
				{Key: "submissions/b.pdf", Name: "b.pdf"},
			},
			rows: []model.RecordRow{
				{SubmitterName: "Alice", FileName: "a.pdf", SubmittedAt: "2024-01-01 10:00:00"},
				{SubmitterName: "Carol", FileName: "c.pdf", SubmittedAt: "2024-01-03 12:00:00"},
			},
			check: func(t *testing.T, got map[string]model.Submission) {
				assert.Len(t, got, 3)
				assert.Equal(t, "Alice", got["a.pdf"].SubmitterName)
				assert.Equal(t, model.UnknownSubmitter, got["b.pdf"].SubmitterName)
				assert.True(t, got["c.pdf"].MissingBlob)
			},
		},
		{
			name:  "empty row fields fall back to sentinels",
			blobs: []storage.ObjectInfo{{Key: "submissions/a.pdf", Name: "a.pdf"}},
			rows:  []model.RecordRow{{FileName: "a.pdf"}},
			check: func(t *testing.T, got map[string]model.Submission) {
				sub := got["a.pdf"]
				assert.Equal(t, model.UnknownSubmitter, sub.SubmitterName)
				assert.Equal(t, model.UnknownTime, sub.SubmittedAt)
			},
		},
		{
			name:  "both stores empty",
			blobs: nil,
			rows:  nil,
			check: func(t *testing.T, got map[string]model.Submission) {
				assert.Empty(t, got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Merge(tt.blobs, tt.rows))
		})
	}
}

func TestSnapshot_DegradesOnRecordOutage(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockRecordRepository)

	mStore.On("List", ctx).Return([]storage.ObjectInfo{
		{Key: "submissions/a.pdf", Name: "a.pdf"},
	}, nil)
	mRepo.On("ReadAll", ctx).Return(nil, errors.New("sheet service down"))

	r := New(mStore, mRepo, time.UTC)
	got := r.Snapshot(ctx)

	// Still one sentinel-provenance record per blob, never empty and never a failure.
	assert.Len(t, got, 1)
	assert.Equal(t, model.UnknownSubmitter, got["a.pdf"].SubmitterName)
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestSnapshot_DegradesOnBlobOutage(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockRecordRepository)

	mStore.On("List", ctx).Return(nil, errors.New("blob store down"))
	mRepo.On("ReadAll", ctx).Return([]model.RecordRow{
		{SubmitterName: "Alice", FileName: "a.pdf", SubmittedAt: "2024-01-01 10:00:00"},
	}, nil)

	r := New(mStore, mRepo, time.UTC)
	got := r.Snapshot(ctx)

	assert.Len(t, got, 1)
	assert.True(t, got["a.pdf"].MissingBlob)
}

func TestSnapshot_BothHealthy(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockRecordRepository)

	mStore.On("List", ctx).Return([]storage.ObjectInfo{
		{Key: "submissions/a.pdf", Name: "a.pdf"},
	}, nil)
	mRepo.On("ReadAll", ctx).Return([]model.RecordRow{
		{SubmitterName: "Alice", FileName: "a.pdf", SubmittedAt: "2024-01-01 10:00:00", BlobURL: "http://blobs/a.pdf", RouteTarget: "T1"},
	}, nil)

	r := New(mStore, mRepo, nil)
	got := r.Snapshot(ctx)

	assert.Len(t, got, 1)
	assert.True(t, got["a.pdf"].Complete())
	assert.Equal(t, "T1", got["a.pdf"].RouteTarget)
}
