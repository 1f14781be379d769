package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"review-board/pkg/deploy"
	"review-board/pkg/lifecycle"
	"review-board/pkg/model"
	"review-board/pkg/store"
)

// setupServer wires a full handler stack against an in-memory store,
// pre-loaded with three pending tasks.
func setupServer(t *testing.T, gateway deploy.Gateway) (*httptest.Server, *store.TaskStore, store.Ledger) {
	t.Helper()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	taskStore := store.NewTaskStore()
	taskStore.ReplaceAll([]model.Task{
		{ID: 1, FieldName: "hero_title", TriggerCondition: "outdated copy", RecommendedAgent: "copywriter", SuggestedAutomationTask: "Rewrite headline", Category: "Content", Status: model.StatusPending, Timestamp: base},
		{ID: 2, FieldName: "meta_description", TriggerCondition: "missing keywords", RecommendedAgent: "seo-bot", SuggestedAutomationTask: "Generate meta description", Category: "SEO", Status: model.StatusPending, Timestamp: base.Add(time.Hour)},
		{ID: 3, FieldName: "price_label", TriggerCondition: "currency mismatch", RecommendedAgent: "copywriter", SuggestedAutomationTask: "Localize price", Category: "Content", Status: model.StatusPending, Timestamp: base.Add(2 * time.Hour)},
	})
	ledger := store.NewMemoryLedger()
	if gateway == nil {
		gateway = &deploy.Simulated{Latency: time.Millisecond}
	}
	mux := http.NewServeMux()
	RegisterRoutes(mux, Deps{
		Store:   taskStore,
		Engine:  lifecycle.NewEngine(ledger),
		Gateway: gateway,
		Hub:     NewWSHub(),
	}, "")
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, taskStore, ledger
}

func postJSON(t *testing.T, url string, body interface{}, dst interface{}) int {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, url string, dst interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestBatchApproveEndToEnd(t *testing.T) {
	srv, taskStore, ledger := setupServer(t, nil)

	var batch BatchTransitionResponse
	code := postJSON(t, srv.URL+"/api/v1/tasks/status/batch",
		BatchTransitionRequest{TaskIDs: []int{1, 2}, Status: "approved", Comment: "ship it"}, &batch)
	if code != http.StatusOK {
		t.Fatalf("batch status code = %d", code)
	}
	if batch.Applied != 2 || batch.Requested != 2 || len(batch.Entries) != 2 {
		t.Fatalf("batch response wrong: %+v", batch)
	}

	for id, want := range map[int]model.TaskStatus{1: model.StatusApproved, 2: model.StatusApproved, 3: model.StatusPending} {
		task, ok := taskStore.Get(id)
		if !ok || task.Status != want {
			t.Errorf("task %d status = %v, want %v", id, task.Status, want)
		}
	}
	if ledger.Len() != 2 {
		t.Errorf("ledger length = %d, want 2", ledger.Len())
	}

	var stats StatsResponse
	getJSON(t, srv.URL+"/api/v1/stats", &stats)
	if stats.Current.Approved != 2 || stats.Current.Pending != 1 || stats.Current.Total != 3 {
		t.Errorf("current stats wrong: %+v", stats.Current)
	}
	if stats.Historical.TotalChanges != 2 || stats.Historical.Approvals != 2 || stats.Historical.ApprovalRate != 100 {
		t.Errorf("historical stats wrong: %+v", stats.Historical)
	}
}

func TestTransitionMissingIDIsNoOp(t *testing.T) {
	srv, taskStore, ledger := setupServer(t, nil)
	before := taskStore.Snapshot()

	var resp TransitionResponse
	code := postJSON(t, srv.URL+"/api/v1/tasks/status",
		TransitionRequest{TaskID: 99, Status: "approved"}, &resp)
	if code != http.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if resp.Applied || resp.Entry != nil {
		t.Errorf("expected no-op response, got %+v", resp)
	}
	if ledger.Len() != 0 {
		t.Errorf("ledger should be untouched, has %d entries", ledger.Len())
	}
	if after := taskStore.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("collection changed: %+v -> %+v", before, after)
	}
}

func TestTransitionRecordsActorAndComment(t *testing.T) {
	srv, _, ledger := setupServer(t, nil)

	var resp TransitionResponse
	postJSON(t, srv.URL+"/api/v1/tasks/status",
		TransitionRequest{TaskID: 3, Status: "in_review", Comment: "needs a second look"}, &resp)
	if !resp.Applied || resp.Entry == nil {
		t.Fatalf("expected applied transition, got %+v", resp)
	}
	if resp.Task == nil || resp.Task.Status != model.StatusInReview {
		t.Errorf("response task wrong: %+v", resp.Task)
	}

	entries := ledger.ByTask(3)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.PreviousStatus != model.StatusPending || e.NewStatus != model.StatusInReview || e.Comment != "needs a second look" {
		t.Errorf("entry wrong: %+v", e)
	}
	if e.UserID != "" {
		t.Errorf("unauthenticated change should be system-attributed, got %q", e.UserID)
	}
}

func TestInvalidStatusRejected(t *testing.T) {
	srv, _, ledger := setupServer(t, nil)

	code := postJSON(t, srv.URL+"/api/v1/tasks/status",
		TransitionRequest{TaskID: 1, Status: "shipped"}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for status outside the enumeration, got %d", code)
	}
	if ledger.Len() != 0 {
		t.Errorf("ledger should be untouched, has %d entries", ledger.Len())
	}
}

func TestListFilterSortGroup(t *testing.T) {
	srv, _, _ := setupServer(t, nil)

	var listed struct {
		Items []model.Task `json:"items"`
	}
	getJSON(t, srv.URL+"/api/v1/tasks?category=Content&sortBy=timestamp&order=desc", &listed)
	if len(listed.Items) != 2 || listed.Items[0].ID != 3 || listed.Items[1].ID != 1 {
		t.Errorf("filtered+sorted listing wrong: %+v", listed.Items)
	}

	getJSON(t, srv.URL+"/api/v1/tasks?search=KEYWORDS", &listed)
	if len(listed.Items) != 1 || listed.Items[0].ID != 2 {
		t.Errorf("search listing wrong: %+v", listed.Items)
	}

	var grouped struct {
		Groups []model.TaskGroup `json:"groups"`
	}
	getJSON(t, srv.URL+"/api/v1/tasks?groupBy=category", &grouped)
	if len(grouped.Groups) != 2 || grouped.Groups[0].Name != "Content" {
		t.Errorf("grouped listing wrong: %+v", grouped.Groups)
	}

	var fields struct {
		Values []string `json:"values"`
	}
	getJSON(t, srv.URL+"/api/v1/tasks/fields?name=agent", &fields)
	if len(fields.Values) != 2 || fields.Values[0] != "copywriter" || fields.Values[1] != "seo-bot" {
		t.Errorf("unique values wrong: %v", fields.Values)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	srv, _, _ := setupServer(t, nil)

	postJSON(t, srv.URL+"/api/v1/tasks/status", TransitionRequest{TaskID: 1, Status: "in_review"}, nil)
	postJSON(t, srv.URL+"/api/v1/tasks/status", TransitionRequest{TaskID: 1, Status: "approved"}, nil)
	postJSON(t, srv.URL+"/api/v1/tasks/status", TransitionRequest{TaskID: 2, Status: "rejected"}, nil)

	var history struct {
		Items []model.HistoryEntry `json:"items"`
	}
	getJSON(t, srv.URL+"/api/v1/history", &history)
	if len(history.Items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history.Items))
	}
	if history.Items[0].TaskID != 2 || history.Items[2].NewStatus != model.StatusInReview {
		t.Errorf("expected newest-first ordering, got %+v", history.Items)
	}

	getJSON(t, srv.URL+"/api/v1/history?taskId=1", &history)
	if len(history.Items) != 2 || history.Items[0].NewStatus != model.StatusApproved {
		t.Errorf("per-task history wrong: %+v", history.Items)
	}

	getJSON(t, srv.URL+"/api/v1/history?limit=1", &history)
	if len(history.Items) != 1 {
		t.Errorf("limit ignored, got %d entries", len(history.Items))
	}
}

func TestDeployFailureKeepsState(t *testing.T) {
	gateway := &deploy.Simulated{Latency: time.Millisecond, Fail: func(id int) bool { return id == 2 }}
	srv, taskStore, ledger := setupServer(t, gateway)

	postJSON(t, srv.URL+"/api/v1/tasks/status/batch",
		BatchTransitionRequest{TaskIDs: []int{1, 2}, Status: "approved"}, nil)
	entriesBefore := ledger.Len()

	var resp DeployResponse
	code := postJSON(t, srv.URL+"/api/v1/deploy", DeployRequest{TaskIDs: []int{1, 2}}, &resp)
	if code != http.StatusOK {
		t.Fatalf("deploy status code = %d", code)
	}
	if resp.OK || resp.Pushed != 1 || resp.Error == "" {
		t.Errorf("expected push to stop at task 2, got %+v", resp)
	}

	// approval stays committed; deployment failure never rolls back
	for _, id := range []int{1, 2} {
		task, _ := taskStore.Get(id)
		if task.Status != model.StatusApproved {
			t.Errorf("task %d status = %v after failed deploy", id, task.Status)
		}
	}
	if ledger.Len() != entriesBefore {
		t.Errorf("deploy must not append history, ledger grew to %d", ledger.Len())
	}
}

func TestDeploySuccess(t *testing.T) {
	srv, _, _ := setupServer(t, nil)

	var resp DeployResponse
	postJSON(t, srv.URL+"/api/v1/deploy", DeployRequest{TaskIDs: []int{1, 3}}, &resp)
	if !resp.OK || resp.Pushed != 2 {
		t.Errorf("expected both pushes to land, got %+v", resp)
	}
}

func TestStaticTokenAuth(t *testing.T) {
	taskStore := store.NewTaskStore()
	mux := http.NewServeMux()
	RegisterRoutes(mux, Deps{
		Store:   taskStore,
		Engine:  lifecycle.NewEngine(store.NewMemoryLedger()),
		Gateway: &deploy.Simulated{Latency: time.Millisecond},
	}, "sekrit")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/tasks")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with token: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp2.StatusCode)
	}
}
