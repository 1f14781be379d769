package model

import (
	"fmt"
	"time"
)

// TaskStatus is the review lifecycle state of a task.
type TaskStatus string

const (
	StatusPending  TaskStatus = "pending"
	StatusApproved TaskStatus = "approved"
	StatusRejected TaskStatus = "rejected"
	StatusInReview TaskStatus = "in_review"
)

// ParseStatus validates a raw status string against the enumeration.
// Anything outside the four values is a hard error, never coerced.
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusInReview:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("invalid task status %q", s)
}

// Task is a proposed content change awaiting human review. All fields
// except Status are immutable after ingestion; Status changes only
// through the lifecycle engine.
type Task struct {
	ID                      int        `json:"id"`
	FieldName               string     `json:"fieldName"`
	TriggerCondition        string     `json:"triggerCondition"`
	RecommendedAgent        string     `json:"recommendedAgent"`
	SuggestedAutomationTask string     `json:"suggestedAutomationTask"`
	Category                string     `json:"category"`
	Status                  TaskStatus `json:"status"`
	Timestamp               time.Time  `json:"timestamp"`
	Steps                   []string   `json:"steps,omitempty"`
	Before                  string     `json:"before,omitempty"`
	After                   string     `json:"after,omitempty"`
	StagingURL              string     `json:"stagingUrl,omitempty"`
}

// TaskGroup is one partition of a grouped task listing.
type TaskGroup struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}
