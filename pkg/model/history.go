package model

import "time"

// HistoryEntry is one immutable record of a task status transition.
// Timestamp is assigned by the ledger at append time, never by callers.
// UserID is empty for system-attributed changes.
type HistoryEntry struct {
	TaskID         int        `json:"taskId"`
	Timestamp      time.Time  `json:"timestamp"`
	PreviousStatus TaskStatus `json:"previousStatus"`
	NewStatus      TaskStatus `json:"newStatus"`
	Comment        string     `json:"comment,omitempty"`
	UserID         string     `json:"userId,omitempty"`
}
