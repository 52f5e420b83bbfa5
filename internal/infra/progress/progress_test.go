package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	job := &ImportJob{ID: "j1", Status: JobPending}
	require.NoError(t, store.Save(context.Background(), job))

	job.Progress = 50

	got, err := store.Get(context.Background(), "j1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
}

func TestTrackerLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	tr := NewTracker(store, &ImportJob{ID: "j2", Status: JobPending, CreatedAt: time.Now()}, nil)

	require.NoError(t, tr.Start(ctx))
	got, _ := store.Get(ctx, "j2")
	assert.Equal(t, JobRunning, got.Status)

	tr.BatchCompleted(40)
	got, _ = store.Get(ctx, "j2")
	assert.Equal(t, 40, got.Progress)

	require.NoError(t, tr.Finish(ctx, 250, nil))
	got, _ = store.Get(ctx, "j2")
	assert.Equal(t, JobDone, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, 250, got.Added)
	assert.True(t, got.Finished())
}

func TestTrackerFailureStillReaches100(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	tr := NewTracker(store, &ImportJob{ID: "j3"}, nil)

	require.NoError(t, tr.Start(ctx))
	tr.BatchCompleted(33)
	require.NoError(t, tr.Finish(ctx, 100, errors.New("lote 1 falhou")))

	got, _ := store.Get(ctx, "j3")
	assert.Equal(t, JobFailed, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "lote 1 falhou", got.Error)
}

type failingStore struct{}

func (failingStore) Save(context.Context, *ImportJob) error          { return errors.New("redis fora") }
func (failingStore) Get(context.Context, string) (*ImportJob, error) { return nil, ErrJobNotFound }

func TestTrackerReportsSaveErrors(t *testing.T) {
	var reported error
	tr := NewTracker(failingStore{}, &ImportJob{ID: "j4"}, func(err error) { reported = err })

	tr.BatchCompleted(10)

	assert.EqualError(t, reported, "redis fora")
}
