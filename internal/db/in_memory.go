package db

import (
	"context"
	"sync"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/hello-form/internal/api"
)

// MemoryJournal keeps the last size failure entries in memory
type MemoryJournal struct {
	entries []*api.FailureEntry
	next    int
	full    bool

	lock sync.RWMutex
}

// NewMemoryJournal creates a bounded in-memory journal
func NewMemoryJournal(size int) *MemoryJournal {
	if size < 1 {
		size = 1
	}
	goapp.Log.Info().Int("size", size).Msg("Memory journal")
	return &MemoryJournal{entries: make([]*api.FailureEntry, size)}
}

// Add implements diag.Journal
func (mj *MemoryJournal) Add(_ context.Context, entry *api.FailureEntry) error {
	mj.lock.Lock()
	defer mj.lock.Unlock()

	cp := *entry
	mj.entries[mj.next] = &cp
	mj.next = (mj.next + 1) % len(mj.entries)
	if mj.next == 0 {
		mj.full = true
	}
	return nil
}

// List implements diag.Journal, returns newest first. limit <= 0 returns all.
func (mj *MemoryJournal) List(_ context.Context, limit int) ([]*api.FailureEntry, error) {
	mj.lock.RLock()
	defer mj.lock.RUnlock()

	l := mj.next
	if mj.full {
		l = len(mj.entries)
	}
	if limit <= 0 || limit > l {
		limit = l
	}
	res := make([]*api.FailureEntry, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (mj.next - 1 - i + len(mj.entries)) % len(mj.entries)
		cp := *mj.entries[idx]
		res = append(res, &cp)
	}
	return res, nil
}
