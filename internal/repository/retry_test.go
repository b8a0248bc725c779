package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"submithub/internal/model"
	"submithub/internal/retry"

	"github.com/stretchr/testify/assert"
)

type flakyRepo struct {
	readCalls   int
	appendCalls int
	failFirst   int
}

func (f *flakyRepo) ReadAll(ctx context.Context) ([]model.RecordRow, error) {
	f.readCalls++
	if f.readCalls <= f.failFirst {
		return nil, errors.New("transient")
	}
	return []model.RecordRow{{FileName: "a.pdf"}}, nil
}

func (f *flakyRepo) Append(ctx context.Context, row model.RecordRow) error {
	f.appendCalls++
	return errors.New("append failed")
}

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
}

func TestRetrying_ReadAllRecovers(t *testing.T) {
	inner := &flakyRepo{failFirst: 2}
	repo := NewRetrying(inner, testPolicy())

	rows, err := repo.ReadAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 3, inner.readCalls)
}

func TestRetrying_ReadAllGivesUp(t *testing.T) {
	inner := &flakyRepo{failFirst: 10}
	repo := NewRetrying(inner, testPolicy())

	_, err := repo.ReadAll(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 3, inner.readCalls)
}

func TestRetrying_AppendNotRetried(t *testing.T) {
	inner := &flakyRepo{}
	repo := NewRetrying(inner, testPolicy())

	err := repo.Append(context.Background(), model.RecordRow{FileName: "a.pdf"})

	assert.Error(t, err)
	assert.Equal(t, 1, inner.appendCalls)
}
