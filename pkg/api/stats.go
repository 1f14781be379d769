package api

import (
	"net/http"

	"review-board/pkg/stats"
)

// registerStatsRoutes combines both derivations into one dashboard
// payload, recomputed on every call.
func registerStatsRoutes(mux *http.ServeMux, d Deps, authOK func(r *http.Request) bool) {
	mux.HandleFunc("/api/v1/stats", func(w http.ResponseWriter, r *http.Request) {
		if !authOK(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, StatsResponse{
			Current:    stats.Current(d.Store.Snapshot()),
			Historical: stats.Historical(d.Engine.Ledger().All()),
		})
	})
}
