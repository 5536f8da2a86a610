package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(10)
	go l.Run(ctx)

	var got []int
	finished := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	require.True(t, l.Post(func() { close(finished) }))

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("tasks not executed")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_SerializesConcurrentPosts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(1)
	go l.Run(ctx)

	counter := 0
	wg := &sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			l.Post(func() {
				counter++
				wg.Done()
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestLoop_PostAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New(1)
	go l.Run(ctx)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("loop not stopped")
	}
	assert.False(t, l.Post(func() { t.Error("task executed after stop") }))
}

func TestNew_QueueSize(t *testing.T) {
	assert.Equal(t, 1, cap(New(0).tasks))
	assert.Equal(t, 5, cap(New(5).tasks))
}
