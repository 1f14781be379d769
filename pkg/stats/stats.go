// Package stats derives dashboard numbers from the task collection and
// the transition ledger. Both derivations are pure functions of their
// input, recomputed on every call; nothing here is cached.
package stats

import "review-board/pkg/model"

// Current counts the task collection by status, category, and agent.
func Current(tasks []model.Task) model.TaskStats {
	s := model.TaskStats{
		Total:      len(tasks),
		ByCategory: map[string]int{},
		ByAgent:    map[string]int{},
	}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusPending:
			s.Pending++
		case model.StatusApproved:
			s.Approved++
		case model.StatusRejected:
			s.Rejected++
		case model.StatusInReview:
			s.InReview++
		}
		s.ByCategory[t.Category]++
		s.ByAgent[t.RecommendedAgent]++
	}
	return s
}

// Historical counts ledger entries by target status. ApprovalRate is
// the approved share as a percentage; an empty ledger yields 0, never
// a division error.
func Historical(entries []model.HistoryEntry) model.ApprovalStats {
	s := model.ApprovalStats{TotalChanges: len(entries)}
	for _, e := range entries {
		switch e.NewStatus {
		case model.StatusApproved:
			s.Approvals++
		case model.StatusRejected:
			s.Rejections++
		case model.StatusInReview:
			s.Reviews++
		}
	}
	if s.TotalChanges > 0 {
		s.ApprovalRate = float64(s.Approvals) / float64(s.TotalChanges) * 100
	}
	return s
}
