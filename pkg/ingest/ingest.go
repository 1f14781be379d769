// Package ingest loads the bulk task list the dashboard reviews.
// Malformed source data is a hard error surfaced to the caller; the
// core holds no fallback list.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"review-board/pkg/model"
)

type record struct {
	ID                      *int     `json:"id"`
	FieldName               string   `json:"fieldName"`
	TriggerCondition        string   `json:"triggerCondition"`
	RecommendedAgent        string   `json:"recommendedAgent"`
	SuggestedAutomationTask string   `json:"suggestedAutomationTask"`
	Category                string   `json:"category"`
	Status                  string   `json:"status"`
	Timestamp               string   `json:"timestamp"`
	Steps                   []string `json:"steps"`
	Before                  string   `json:"before"`
	After                   string   `json:"after"`
	StagingURL              string   `json:"stagingUrl"`
}

// Load reads a JSON array of task records. Every record must carry
// all required attributes; the first invalid record fails the whole
// load, naming its index and field.
func Load(r io.Reader) ([]model.Task, error) {
	var records []record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	tasks := make([]model.Task, 0, len(records))
	seen := map[int]struct{}{}
	for i, rec := range records {
		t, err := rec.toTask()
		if err != nil {
			return nil, fmt.Errorf("task record %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("task record %d: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// LoadFile loads the task list from a JSON file on disk.
func LoadFile(path string) ([]model.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task list: %w", err)
	}
	defer f.Close()
	tasks, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

func (r record) toTask() (model.Task, error) {
	if r.ID == nil {
		return model.Task{}, fmt.Errorf("missing field id")
	}
	for field, v := range map[string]string{
		"fieldName":               r.FieldName,
		"triggerCondition":        r.TriggerCondition,
		"recommendedAgent":        r.RecommendedAgent,
		"suggestedAutomationTask": r.SuggestedAutomationTask,
		"category":                r.Category,
		"status":                  r.Status,
		"timestamp":               r.Timestamp,
	} {
		if v == "" {
			return model.Task{}, fmt.Errorf("missing field %s", field)
		}
	}
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return model.Task{}, err
	}
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return model.Task{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return model.Task{
		ID:                      *r.ID,
		FieldName:               r.FieldName,
		TriggerCondition:        r.TriggerCondition,
		RecommendedAgent:        r.RecommendedAgent,
		SuggestedAutomationTask: r.SuggestedAutomationTask,
		Category:                r.Category,
		Status:                  status,
		Timestamp:               ts,
		Steps:                   r.Steps,
		Before:                  r.Before,
		After:                   r.After,
		StagingURL:              r.StagingURL,
	}, nil
}
