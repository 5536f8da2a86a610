// Package loop provides a single goroutine task queue. All page mutations of a session run on it,
// so continuations of concurrent requests never interleave.
package loop

import (
	"context"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
)

// Loop runs posted tasks one by one in post order
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a loop with a task queue of the given size
func New(queue int) *Loop {
	if queue < 1 {
		queue = 1
	}
	return &Loop{tasks: make(chan func(), queue), done: make(chan struct{})}
}

// Run executes tasks until ctx is canceled
func (l *Loop) Run(ctx context.Context) {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			goapp.Log.Debug().Msg("loop stopped")
			return
		case task := <-l.tasks:
			task()
		}
	}
}

// Post enqueues task, blocks while the queue is full.
// Returns false if the loop is stopped, the task is dropped then.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- task:
		return true
	case <-l.done:
		return false
	}
}

// Done is closed after Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}
