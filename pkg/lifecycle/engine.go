// Package lifecycle holds the task status state machine. Every status
// change goes through the Engine so that the task mutation and its
// history ledger append are always paired.
package lifecycle

import (
	"review-board/pkg/model"
	"review-board/pkg/store"
)

// Engine applies status transitions against caller-owned task
// snapshots and records each accepted transition in the injected
// ledger. Transitions are unconditional: any status may move to any
// other status, including itself. Validity is solely "task exists";
// a missing id is a silent skip, tolerating stale client snapshots.
type Engine struct {
	ledger store.Ledger
}

func NewEngine(ledger store.Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Ledger exposes the injected ledger for read-side callers.
func (e *Engine) Ledger() store.Ledger {
	return e.ledger
}

// ApplyTransition moves the task with taskID to newStatus. The input
// slice is never mutated; a fresh slice is returned with only the
// matched task's Status replaced. When no task matches, the input is
// returned as-is and nothing is appended.
func (e *Engine) ApplyTransition(tasks []model.Task, taskID int, newStatus model.TaskStatus, comment, userID string) ([]model.Task, *model.HistoryEntry) {
	idx := -1
	for i, t := range tasks {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return tasks, nil
	}
	entry := e.ledger.Append(model.HistoryEntry{
		TaskID:         taskID,
		PreviousStatus: tasks[idx].Status,
		NewStatus:      newStatus,
		Comment:        comment,
		UserID:         userID,
	})
	out := append([]model.Task(nil), tasks...)
	out[idx].Status = newStatus
	return out, &entry
}

// ApplyBatchTransition applies newStatus to every id in taskIDs that
// resolves to a task, recording one ledger entry per matched id using
// the task's pre-batch status. Unmatched ids are skipped per-id; the
// batch is deliberately not transactional — "update whichever of
// these are currently valid."
func (e *Engine) ApplyBatchTransition(tasks []model.Task, taskIDs []int, newStatus model.TaskStatus, comment, userID string) ([]model.Task, []model.HistoryEntry) {
	byID := make(map[int]int, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = i
	}
	entries := []model.HistoryEntry{}
	out := append([]model.Task(nil), tasks...)
	for _, id := range taskIDs {
		idx, ok := byID[id]
		if !ok {
			continue
		}
		entries = append(entries, e.ledger.Append(model.HistoryEntry{
			TaskID:         id,
			PreviousStatus: tasks[idx].Status,
			NewStatus:      newStatus,
			Comment:        comment,
			UserID:         userID,
		}))
		out[idx].Status = newStatus
	}
	return out, entries
}
