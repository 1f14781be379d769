package api

import "review-board/pkg/model"

// TransitionRequest asks for a single status change.
type TransitionRequest struct {
	TaskID  int    `json:"taskId"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// BatchTransitionRequest asks for the same status change across many
// tasks; ids that no longer resolve are skipped per-id.
type BatchTransitionRequest struct {
	TaskIDs []int  `json:"taskIds"`
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// TransitionResponse reports a single transition. Applied is false
// when the task id did not resolve (stale client snapshot); that is a
// no-op, not an error.
type TransitionResponse struct {
	Applied bool                `json:"applied"`
	Entry   *model.HistoryEntry `json:"entry,omitempty"`
	Task    *model.Task         `json:"task,omitempty"`
}

// BatchTransitionResponse reports how much of the batch applied.
type BatchTransitionResponse struct {
	Applied   int                  `json:"applied"`
	Requested int                  `json:"requested"`
	Entries   []model.HistoryEntry `json:"entries"`
}

// DeployRequest asks for a sequential production push of the given tasks.
type DeployRequest struct {
	TaskIDs []int `json:"taskIds"`
}

// DeployResponse reports the push outcome. Pushed counts deliveries
// that completed before the first failure; statuses are never rolled
// back on failure.
type DeployResponse struct {
	OK     bool   `json:"ok"`
	Pushed int    `json:"pushed"`
	Error  string `json:"error,omitempty"`
}

// StatsResponse combines the two stat derivations for the dashboard.
type StatsResponse struct {
	Current    model.TaskStats     `json:"current"`
	Historical model.ApprovalStats `json:"historical"`
}
