package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRejectsBeforeStartAndAfterStop(t *testing.T) {
	q := NewQueue("backups", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(Job{ID: "1"}), ErrQueueClosed)

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "1"}))
	q.Stop()
	assert.ErrorIs(t, q.Enqueue(Job{ID: "2"}), ErrQueueClosed)
	q.Stop()
}

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	q := NewQueue("backups", func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.ID)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})

	q.Start(context.Background())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	q.Stop()

	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	q := NewQueue("backups", func(context.Context, Job) error {
		started <- struct{}{}
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "running"}))
	<-started
	require.NoError(t, q.Enqueue(Job{ID: "buffered"}))
	assert.ErrorIs(t, q.Enqueue(Job{ID: "overflow"}), ErrQueueFull)

	close(release)
	<-started
	q.Stop()
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls atomic.Int32
	done := make(chan Job, 1)
	q := NewQueue("backups", func(_ context.Context, job Job) error {
		if calls.Add(1) < 3 {
			return errors.New("disk busy")
		}
		done <- job
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "snap"}))
	select {
	case job := <-done:
		assert.Equal(t, 2, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	q := NewQueue("backups", func(context.Context, Job) error {
		calls.Add(1)
		return errors.New("disk full")
	}, QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "snap"}))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(2), calls.Load())
}
