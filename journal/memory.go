package journal

import (
	"context"
	"sync"
	"time"
)

type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	discard bool
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Discard returns a journal that keeps nothing.
func Discard() *MemoryJournal {
	return &MemoryJournal{discard: true}
}

func (mj *MemoryJournal) GetName() string {
	if mj.discard {
		return "none"
	}
	return "memory"
}

func (mj *MemoryJournal) Record(ctx context.Context, entry Entry) error {
	if mj.discard {
		return nil
	}

	mj.mu.Lock()
	defer mj.mu.Unlock()

	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	entry.ID = int64(len(mj.entries) + 1)
	mj.entries = append(mj.entries, entry)

	return nil
}

func (mj *MemoryJournal) Entries(ctx context.Context, filter Filter) ([]Entry, error) {
	mj.mu.RLock()
	defer mj.mu.RUnlock()

	var result []Entry
	for _, e := range mj.entries {
		if filter.Match(e) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (mj *MemoryJournal) Reset(ctx context.Context) error {
	mj.mu.Lock()
	defer mj.mu.Unlock()

	mj.entries = nil
	return nil
}

func (mj *MemoryJournal) Close() error {
	return nil
}
