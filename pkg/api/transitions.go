package api

import (
	"encoding/json"
	"log"
	"net/http"

	"review-board/pkg/model"
)

// registerTransitionRoutes exposes the only sanctioned way to change a
// task's status. Each applied transition is broadcast to connected
// dashboards.
func registerTransitionRoutes(mux *http.ServeMux, d Deps, authOK func(r *http.Request) bool) {
	mux.HandleFunc("/api/v1/tasks/status", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		actor := actorFromRequest(r)

		var entry *model.HistoryEntry
		d.Store.Update(func(tasks []model.Task) []model.Task {
			updated, appended := d.Engine.ApplyTransition(tasks, req.TaskID, status, req.Comment, actor)
			entry = appended
			return updated
		})

		resp := TransitionResponse{Applied: entry != nil, Entry: entry}
		if entry != nil {
			if t, ok := d.Store.Get(req.TaskID); ok {
				resp.Task = &t
			}
			log.Printf("task %d status %s -> %s actor=%q", req.TaskID, entry.PreviousStatus, entry.NewStatus, actor)
			d.Hub.Broadcast(WSMessage{Type: "status_change", Payload: entry})
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.HandleFunc("/api/v1/tasks/status/batch", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req BatchTransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.TaskIDs) == 0 {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}
		status, err := model.ParseStatus(req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		actor := actorFromRequest(r)

		var entries []model.HistoryEntry
		d.Store.Update(func(tasks []model.Task) []model.Task {
			updated, appended := d.Engine.ApplyBatchTransition(tasks, req.TaskIDs, status, req.Comment, actor)
			entries = appended
			return updated
		})

		log.Printf("batch status -> %s applied=%d/%d actor=%q", status, len(entries), len(req.TaskIDs), actor)
		for i := range entries {
			d.Hub.Broadcast(WSMessage{Type: "status_change", Payload: &entries[i]})
		}
		writeJSON(w, http.StatusOK, BatchTransitionResponse{
			Applied:   len(entries),
			Requested: len(req.TaskIDs),
			Entries:   entries,
		})
	})
}
