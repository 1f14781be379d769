package api

import (
	"net/http"

	"review-board/pkg/model"
	"review-board/pkg/taskview"
)

// registerTaskRoutes exposes the read-side listing: filter, sort,
// group, and distinct field values. All of it runs against a snapshot
// of the store, so a slow client never blocks a transition.
func registerTaskRoutes(mux *http.ServeMux, d Deps, authOK func(r *http.Request) bool) {
	mux.HandleFunc("/api/v1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		filters := taskview.Filters{
			Category:  q.Get("category"),
			Agent:     q.Get("agent"),
			FieldName: q.Get("fieldName"),
			Search:    q.Get("search"),
		}
		if s := q.Get("status"); s != "" {
			status, err := model.ParseStatus(s)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			filters.Status = status
		}

		tasks := taskview.Filter(d.Store.Snapshot(), filters)

		if s := q.Get("sortBy"); s != "" {
			key, ok := taskview.ParseSortKey(s)
			if !ok {
				http.Error(w, "unknown sortBy", http.StatusBadRequest)
				return
			}
			tasks = taskview.Sort(tasks, key, q.Get("order") == "desc")
		}

		if g := q.Get("groupBy"); g != "" {
			field, ok := taskview.ParseField(g)
			if !ok {
				http.Error(w, "unknown groupBy", http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"groups": taskview.Group(tasks, field)})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": tasks})
	})

	mux.HandleFunc("/api/v1/tasks/fields", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		field, ok := taskview.ParseField(r.URL.Query().Get("name"))
		if !ok {
			http.Error(w, "unknown field", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"values": taskview.UniqueValues(d.Store.Snapshot(), field)})
	})
}
