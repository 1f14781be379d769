// Package taskview holds the read-side transforms behind the dashboard
// listing: filter, sort, group, and distinct-value extraction. All of
// them operate on caller-supplied snapshots and never mutate input.
package taskview

import (
	"sort"
	"strings"

	"review-board/pkg/model"
)

// Field names a filterable/groupable task attribute.
type Field string

const (
	FieldCategory  Field = "category"
	FieldAgent     Field = "agent"
	FieldName      Field = "fieldName"
	FieldStatus    Field = "status"
	FieldTrigger   Field = "triggerCondition"
	FieldAutomTask Field = "suggestedAutomationTask"
)

// SortKey names a sortable task attribute.
type SortKey string

const (
	SortByID        SortKey = "id"
	SortByFieldName SortKey = "fieldName"
	SortByCategory  SortKey = "category"
	SortByAgent     SortKey = "agent"
	SortByStatus    SortKey = "status"
	SortByTimestamp SortKey = "timestamp"
)

// Filters are AND-combined; zero values mean "no constraint". Search
// is a case-insensitive substring match across the descriptive fields.
type Filters struct {
	Category  string
	Agent     string
	FieldName string
	Status    model.TaskStatus
	Search    string
}

// Filter returns the subsequence of tasks matching all set predicates,
// preserving input order.
func Filter(tasks []model.Task, f Filters) []model.Task {
	out := []model.Task{}
	search := strings.ToLower(f.Search)
	for _, t := range tasks {
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Agent != "" && t.RecommendedAgent != f.Agent {
			continue
		}
		if f.FieldName != "" && t.FieldName != f.FieldName {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t model.Task, lowered string) bool {
	for _, v := range []string{t.FieldName, t.TriggerCondition, t.SuggestedAutomationTask, t.RecommendedAgent, t.Category} {
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}

// Sort returns a new slice ordered by key. Timestamps compare as
// instants, not as strings. Descending is the exact inverse comparator.
func Sort(tasks []model.Task, key SortKey, descending bool) []model.Task {
	out := append([]model.Task(nil), tasks...)
	less := lessFunc(key)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key SortKey) func(a, b model.Task) bool {
	switch key {
	case SortByID:
		return func(a, b model.Task) bool { return a.ID < b.ID }
	case SortByCategory:
		return func(a, b model.Task) bool { return a.Category < b.Category }
	case SortByAgent:
		return func(a, b model.Task) bool { return a.RecommendedAgent < b.RecommendedAgent }
	case SortByStatus:
		return func(a, b model.Task) bool { return a.Status < b.Status }
	case SortByTimestamp:
		return func(a, b model.Task) bool { return a.Timestamp.Before(b.Timestamp) }
	default:
		return func(a, b model.Task) bool { return a.FieldName < b.FieldName }
	}
}

// Group partitions tasks by the given field. Each task lands in
// exactly one group, relative order within a group is preserved, and
// groups appear in first-occurrence order of their key.
func Group(tasks []model.Task, field Field) []model.TaskGroup {
	index := map[string]int{}
	groups := []model.TaskGroup{}
	for _, t := range tasks {
		key := fieldValue(t, field)
		if key == "" {
			key = "Unknown"
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.TaskGroup{Name: key})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// UniqueValues returns the distinct values of field across the
// collection, lexically sorted ascending.
func UniqueValues(tasks []model.Task, field Field) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, t := range tasks {
		v := fieldValue(t, field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func fieldValue(t model.Task, field Field) string {
	switch field {
	case FieldCategory:
		return t.Category
	case FieldAgent:
		return t.RecommendedAgent
	case FieldName:
		return t.FieldName
	case FieldStatus:
		return string(t.Status)
	case FieldTrigger:
		return t.TriggerCondition
	case FieldAutomTask:
		return t.SuggestedAutomationTask
	}
	return ""
}

// ParseField validates a field name from a query parameter.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldCategory, FieldAgent, FieldName, FieldStatus, FieldTrigger, FieldAutomTask:
		return Field(s), true
	}
	return "", false
}

// ParseSortKey validates a sort key from a query parameter.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByID, SortByFieldName, SortByCategory, SortByAgent, SortByStatus, SortByTimestamp:
		return SortKey(s), true
	}
	return "", false
}
