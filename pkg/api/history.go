package api

import (
	"net/http"
	"strconv"
)

// registerHistoryRoutes exposes the audit trail, newest-first.
func registerHistoryRoutes(mux *http.ServeMux, d Deps, authOK func(r *http.Request) bool) {
	mux.HandleFunc("/api/v1/history", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ledger := d.Engine.Ledger()
		q := r.URL.Query()
		entries := ledger.All()
		if s := q.Get("taskId"); s != "" {
			id, err := strconv.Atoi(s)
			if err != nil {
				http.Error(w, "invalid taskId", http.StatusBadRequest)
				return
			}
			entries = ledger.ByTask(id)
		}
		if s := q.Get("limit"); s != "" {
			limit, err := strconv.Atoi(s)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			if limit < len(entries) {
				entries = entries[:limit]
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
	})
}
