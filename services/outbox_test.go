package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/soluxsolar/solux-store/utils"
)

func newTestOutbox(t *testing.T, buffer int) *Outbox {
	utils.InitLogger()
	ob := NewOutbox(buffer, time.Second)
	ob.Start()
	t.Cleanup(ob.Stop)
	return ob
}

func TestOutboxRunsTasks(t *testing.T) {
	ob := newTestOutbox(t, 8)

	var ran int32
	for i := 0; i < 5; i++ {
		ob.Enqueue("count", func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}

	ob.Flush()
	assert.Equal(t, int32(5), atomic.LoadInt32(&ran))
}

func TestOutboxFailureDoesNotStopWorker(t *testing.T) {
	ob := newTestOutbox(t, 8)

	var ran int32
	ob.Enqueue("boom", func(ctx context.Context) error {
		return errors.New("smtp down")
	})
	ob.Enqueue("panic", func(ctx context.Context) error {
		panic("render exploded")
	})
	ob.Enqueue("after", func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	ob.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "tasks after a failure must still run")
}

func TestOutboxTaskContextHasDeadline(t *testing.T) {
	ob := newTestOutbox(t, 1)

	deadlineSet := make(chan bool, 1)
	ob.Enqueue("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlineSet <- ok
		return nil
	})

	ob.Flush()
	assert.True(t, <-deadlineSet)
}
