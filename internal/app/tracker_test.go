package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestRunTasksIsolatesFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stillRunning atomic.Bool
	failed := make(chan struct{})
	tasks := []task{
		{"render", func(context.Context) error {
			defer close(failed)
			return errors.New("panel gone")
		}},
		{"acquisition", func(ctx context.Context) error {
			<-failed
			// The failed task did not cancel the shared context.
			stillRunning.Store(ctx.Err() == nil)
			<-ctx.Done()
			return nil
		}},
	}

	done := make(chan struct{})
	go func() {
		runTasks(ctx, tasks)
		close(done)
	}()

	<-failed
	select {
	case <-done:
		t.Fatal("runTasks returned while a task was still running")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runTasks did not return")
	}
	assert.Assert(t, stillRunning.Load())
}
