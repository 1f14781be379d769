package store

import "review-board/pkg/model"

// Ledger is the append-only transition history. Append assigns the
// timestamp at call time; entries are never mutated or removed once
// appended. ByTask and All return entries newest-first (timestamp
// descending, ties broken by reverse append order).
// Later this can be backed by SQLite or Consul KV, but we start with
// an in-memory impl.
type Ledger interface {
	Append(e model.HistoryEntry) model.HistoryEntry
	ByTask(taskID int) []model.HistoryEntry
	All() []model.HistoryEntry
	Len() int
}

// NewMemory is a helper to construct the in-memory ledger without
// naming the concrete type.
func NewMemory() Ledger {
	return NewMemoryLedger()
}
