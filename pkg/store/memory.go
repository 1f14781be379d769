package store

import (
	"sync"
	"time"

	"review-board/pkg/model"
)

// MemoryLedger is the in-memory Ledger, intended for dev/demo. The
// backing slice is strictly append-ordered; newest-first reads walk it
// backwards, which also satisfies the timestamp-descending order since
// append timestamps are non-decreasing.
type MemoryLedger struct {
	mu      sync.RWMutex
	entries []model.HistoryEntry
	now     func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{now: time.Now}
}

func (l *MemoryLedger) Append(e model.HistoryEntry) model.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.Timestamp = l.now()
	l.entries = append(l.entries, e)
	return e
}

func (l *MemoryLedger) ByTask(taskID int) []model.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []model.HistoryEntry{}
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].TaskID == taskID {
			out = append(out, l.entries[i])
		}
	}
	return out
}

func (l *MemoryLedger) All() []model.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.HistoryEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// TaskStore owns the canonical task collection. Tasks are never
// deleted; only Status changes, and only via Update with the lifecycle
// engine. The logical model is a single reviewer, but HTTP handlers
// make the process multi-goroutine, so access is mutex-guarded.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []model.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// ReplaceAll installs a freshly ingested snapshot.
func (s *TaskStore) ReplaceAll(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]model.Task(nil), tasks...)
}

// Snapshot returns a copy of the current collection; callers may hand
// it to the read-side transforms without holding any lock.
func (s *TaskStore) Snapshot() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *TaskStore) Get(id int) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Update runs fn against the current collection under the write lock
// and commits whatever fn returns. The lifecycle engine is the only
// intended fn; it pairs the status mutation with its ledger append
// before the lock is released, so no interleaved reader ever sees a
// status change without its history entry.
func (s *TaskStore) Update(fn func(tasks []model.Task) []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = fn(s.tasks)
}
